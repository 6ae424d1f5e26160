// Package domain defines the core types and interfaces for the triage service
package domain

import (
	"vortex/internal/core/engine"
	perr "vortex/internal/platform/errors"
)

// Ticket is one unit of work. ID is assigned by the service when empty
type Ticket struct {
	ID     string             `json:"id,omitempty"`
	Input  engine.TicketInput `json:"input"`
	Locale string             `json:"locale,omitempty"`
}

// Result pairs a ticket id with its record, or with the error that rejected it
type Result struct {
	ID         string               `json:"id"`
	CustomerID *string              `json:"customer_id,omitempty"`
	Record     *engine.TicketRecord `json:"record,omitempty"`
	Error      *perr.Wire           `json:"error,omitempty"`
}

// Quarantined reports whether the ticket was flagged as phishing
func (r Result) Quarantined() bool { return r.Record != nil && r.Record.IsPhishing }

// Summary aggregates a batch
type Summary struct {
	Total       int `json:"total"`
	Analyzed    int `json:"analyzed"`
	Quarantined int `json:"quarantined"`
	Rejected    int `json:"rejected"`
	HighRisk    int `json:"high_risk"`
}

// Summarize counts outcomes; high risk uses the urgent-retention cut (>= 80)
func Summarize(rs []Result) Summary {
	s := Summary{Total: len(rs)}
	for _, r := range rs {
		switch {
		case r.Error != nil:
			s.Rejected++
		case r.Quarantined():
			s.Quarantined++
		case r.Record != nil:
			s.Analyzed++
			if r.Record.ChurnRisk != nil && *r.Record.ChurnRisk >= 80 {
				s.HighRisk++
			}
		}
	}
	return s
}
