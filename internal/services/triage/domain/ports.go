package domain

import "context"

// AnalyzerPort analyzes a single ticket
type AnalyzerPort interface {
	// Analyze returns the result; input errors are returned and also recorded in Result.Error
	Analyze(ctx context.Context, t Ticket) (Result, error)
}

// BatchPort analyzes many tickets with bounded concurrency, keeping input order
type BatchPort interface {
	AnalyzeAll(ctx context.Context, ts []Ticket) ([]Result, error)
}

// QuarantinePort receives phishing results so the caller can isolate them
type QuarantinePort interface {
	Quarantine(ctx context.Context, r Result) error
}

// Ports are dependencies injected into the triage module
type Ports struct {
	Quarantine QuarantinePort // optional
}
