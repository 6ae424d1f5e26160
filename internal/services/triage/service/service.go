// Package service implements the triage service over the ticket engine
package service

import (
	"context"

	"vortex/internal/core/engine"
	perr "vortex/internal/platform/errors"
	"vortex/internal/platform/logger"
	vstrings "vortex/internal/platform/strings"
	"vortex/internal/services/triage/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Config holds service settings
type Config struct {
	Workers  int    // batch concurrency; <= 0 means 1
	Locale   string // default locale when a ticket has none; empty uses the engine's
	FailFast bool   // stop a batch on the first rejected ticket
}

// Service implements domain.AnalyzerPort and domain.BatchPort
type Service struct {
	eng        *engine.Engine
	cfg        Config
	quarantine domain.QuarantinePort
	newID      func() string
}

// New constructs a Service. q may be nil
func New(eng *engine.Engine, cfg Config, q domain.QuarantinePort) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Service{eng: eng, cfg: cfg, quarantine: q, newID: uuid.NewString}
}

// Analyze runs one ticket through the engine
func (s *Service) Analyze(ctx context.Context, t domain.Ticket) (domain.Result, error) {
	id := vstrings.FirstNonBlank(t.ID)
	if id == "" {
		id = s.newID()
	}
	res := domain.Result{ID: id, CustomerID: t.Input.CustomerID}

	if err := ctx.Err(); err != nil {
		err = perr.Wrap(err, perr.ErrorCodeCanceled, "triage: canceled")
		w := perr.WireFrom(err)
		res.Error = &w
		return res, err
	}

	ctx = logger.WithTicket(ctx, id, vstrings.Deref(t.Input.CustomerID))
	log := logger.C(ctx)

	locale := vstrings.FirstNonBlank(t.Locale, s.cfg.Locale)

	rec, err := s.eng.AnalyzeLocale(t.Input, locale)
	if err != nil {
		w := perr.WireFrom(err)
		res.Error = &w
		ev := log.Info().Str("code", w.Code).Str("field", w.Field)
		if e, ok := perr.As(err); ok && e.Op() != "" {
			ev = ev.Str("op", e.Op())
		}
		ev.Msg("ticket rejected")
		return res, err
	}
	res.Record = &rec

	if rec.IsPhishing {
		log.Warn().
			Str("reason", rec.PhishingReason).
			Str("rule", rec.PhishingRule).
			Msg("phishing ticket quarantined")
		if s.quarantine != nil {
			if qerr := s.quarantine.Quarantine(ctx, res); qerr != nil {
				log.Error().Err(qerr).Msg("quarantine sink failed")
			}
		}
		return res, nil
	}

	log.Debug().
		Int("churn_risk", *rec.ChurnRisk).
		Float64("sentiment", *rec.SentimentScore).
		Str("maintenance_type", string(rec.MaintenanceType)).
		Str("insight", rec.InsightID).
		Str("recommendation", rec.RecommendationID).
		Bool("masked", rec.AnonymizationApplied).
		Msg("ticket analyzed")
	return res, nil
}

// AnalyzeAll fans tickets out over a bounded pool. Results keep input order.
// Rejected tickets are recorded in their Result; the batch only fails on
// cancellation, or on the first rejection when FailFast is set
func (s *Service) AnalyzeAll(ctx context.Context, ts []domain.Ticket) ([]domain.Result, error) {
	results := make([]domain.Result, len(ts))
	if len(ts) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, t := range ts {
		g.Go(func() error {
			res, err := s.Analyze(gctx, t)
			results[i] = res
			if err == nil {
				return nil
			}
			if perr.IsCode(err, perr.ErrorCodeCanceled) || s.cfg.FailFast {
				return perr.WithOp(err, "triage.AnalyzeAll")
			}
			return nil
		})
	}
	err := g.Wait()

	sum := domain.Summarize(results)
	logger.C(ctx).Info().
		Int("total", sum.Total).
		Int("analyzed", sum.Analyzed).
		Int("quarantined", sum.Quarantined).
		Int("rejected", sum.Rejected).
		Int("high_risk", sum.HighRisk).
		Int("workers", s.cfg.Workers).
		Msg("batch complete")
	return results, err
}
