// Package engine runs the ticket pipeline: security gate, anonymization, sentiment,
// maintenance classification, churn risk, then insight and recommendation.
// The engine performs no I/O and is safe for concurrent use
package engine

import (
	"strings"

	"vortex/internal/core/anonymize"
	"vortex/internal/core/churn"
	"vortex/internal/core/gate"
	"vortex/internal/core/insight"
	"vortex/internal/core/langhint"
	"vortex/internal/core/maintenance"
	"vortex/internal/core/rulepack"
	"vortex/internal/core/sentiment"
	perr "vortex/internal/platform/errors"
	"vortex/internal/platform/validate"
)

// LocaleAuto picks es or en from the ticket text
const LocaleAuto = "auto"

// Options configure an Engine. Zero values select the embedded pack, the pack's
// churn constants over the defaults, and LocaleAuto
type Options struct {
	Pack   *rulepack.Pack
	Churn  *churn.Config
	Locale string
}

// Engine wires the stages over one read-only pack
type Engine struct {
	pack       *rulepack.Pack
	gate       *gate.Gate
	anonymizer *anonymize.Anonymizer
	scorer     *sentiment.Scorer
	classifier *maintenance.Classifier
	churn      *churn.Scorer
	selector   *insight.Selector
	locale     string
}

// New builds an engine, failing on an unusable pack, constants or locale
func New(opts Options) (*Engine, error) {
	p := opts.Pack
	if p == nil {
		var err error
		if p, err = rulepack.Load(); err != nil {
			return nil, err
		}
	}

	cfg := churn.DefaultConfig().WithPack(p.Churn)
	if opts.Churn != nil {
		cfg = *opts.Churn
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sel, err := insight.New()
	if err != nil {
		return nil, err
	}

	locale := strings.ToLower(strings.TrimSpace(opts.Locale))
	if locale == "" {
		locale = LocaleAuto
	}
	if locale != LocaleAuto && !sel.Supports(locale) {
		return nil, perr.WithField(perr.Configf("engine: unsupported locale %q", opts.Locale), "locale")
	}

	return &Engine{
		pack:       p,
		gate:       gate.New(p),
		anonymizer: anonymize.New(p),
		scorer:     sentiment.New(p),
		classifier: maintenance.New(p),
		churn:      churn.New(cfg),
		selector:   sel,
		locale:     locale,
	}, nil
}

// Pack returns the tables in use
func (e *Engine) Pack() *rulepack.Pack { return e.pack }

// ChurnConfig returns the churn constants in use
func (e *Engine) ChurnConfig() churn.Config { return e.churn.Config() }

// Locale returns the configured locale
func (e *Engine) Locale() string { return e.locale }

// Analyze runs the pipeline with the engine's locale
func (e *Engine) Analyze(in TicketInput) (TicketRecord, error) {
	return e.AnalyzeLocale(in, e.locale)
}

// AnalyzeLocale runs the pipeline rendering text in locale ("en", "es" or "auto").
// Invalid input returns an InvalidInput error and a zero record
func (e *Engine) AnalyzeLocale(in TicketInput, locale string) (TicketRecord, error) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		locale = e.locale
	}
	msgLocale := locale
	if msgLocale == LocaleAuto {
		msgLocale = insight.DefaultLocale
	}
	if err := validate.Struct(in, msgLocale); err != nil {
		return TicketRecord{}, perr.WithOp(err, "engine.Analyze")
	}

	// stages fold internally; the masked copy keeps the caller's layout
	text := in.Description

	// 1 security gate on the unmasked text
	if v := e.gate.Check(text); v.Phishing {
		return TicketRecord{
			IsPhishing:     true,
			PhishingReason: string(v.Reason),
			PhishingRule:   v.SignatureID,
		}, nil
	}

	// 2 anonymization; every later stage sees only the masked text
	masked := e.anonymizer.Run(text)

	// 3 sentiment
	score := e.scorer.Score(masked.Text)

	// 4 maintenance type
	mtype := e.classifier.Classify(masked.Text, score)

	// 5 churn risk
	factors := churn.Factors{
		Type:              mtype,
		Sentiment:         score,
		ContractAgeMonths: in.ContractAgeMonths,
		TicketsThisPeriod: in.TicketsThisPeriod,
	}
	drivers := e.churn.Score(factors)

	// 6 insight and recommendation
	lang := langhint.Resolve(locale, masked.Text, insight.DefaultLocale)
	out := e.selector.Select(insight.SignalsFrom(factors, drivers), lang)

	risk := drivers.Risk
	return TicketRecord{
		AnonymizedText:       &masked.Text,
		AnonymizationApplied: masked.Applied,
		MaskedCounts:         masked.Counts,
		SentimentScore:       &score,
		MaintenanceType:      mtype,
		ChurnRisk:            &risk,
		Drivers:              &drivers,
		KeyInsight:           out.Insight,
		InsightID:            out.InsightID,
		Recommendation:       out.Recommendation,
		RecommendationID:     out.RecommendationID,
		Language:             out.Locale,
	}, nil
}
