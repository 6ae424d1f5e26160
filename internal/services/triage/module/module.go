// Package module implements the triage module
package module

import (
	"vortex/internal/core/churn"
	"vortex/internal/core/engine"
	"vortex/internal/core/rulepack"
	"vortex/internal/modkit"
	"vortex/internal/services/triage/domain"
	"vortex/internal/services/triage/service"
)

// Ports exposed by the triage module
type Ports struct {
	Analyzer domain.AnalyzerPort
	Batch    domain.BatchPort
}

// Module implements modkit.Module
type Module struct {
	deps   modkit.Deps
	opts   Options
	engine *engine.Engine
	ports  Ports
}

// New constructs the triage module: rule pack, engine and service.
// Rules file and constant problems are returned; wrong wiring panics
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("triage"),
	}, opts...)...)

	var ports domain.Ports
	if b.Ports != nil {
		p, ok := b.Ports.(domain.Ports)
		if !ok {
			panic("triage module: expected WithPorts(triage/domain.Ports)")
		}
		ports = p
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg).merge(overrides)
	log := deps.Logger()

	pack, err := rulepack.Load()
	if err != nil {
		return nil, err
	}
	if cfg.RulesPath != "" {
		if pack, err = rulepack.LoadFile(pack, cfg.RulesPath); err != nil {
			return nil, err
		}
		log.Info().Str("rules_path", cfg.RulesPath).Msg("rules file loaded")
	}

	churnCfg := churn.DefaultConfig().WithPack(pack.Churn).WithPack(cfg.Churn)
	eng, err := engine.New(engine.Options{Pack: pack, Churn: &churnCfg, Locale: cfg.Locale})
	if err != nil {
		return nil, err
	}

	svc := service.New(eng, service.Config{
		Workers:  cfg.Workers,
		FailFast: cfg.FailFast,
	}, ports.Quarantine)

	log.Debug().
		Str("module", b.Name).
		Int("workers", cfg.Workers).
		Str("locale", eng.Locale()).
		Int("signatures", len(pack.Signatures)).
		Int("lexicon", len(pack.Lexicon)).
		Msg("module ready")

	return &Module{
		deps:   deps,
		opts:   cfg,
		engine: eng,
		ports:  Ports{Analyzer: svc, Batch: svc},
	}, nil
}

var _ modkit.Module = (*Module)(nil)

// Name satisfies modkit.Module
func (m *Module) Name() string { return "triage" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Engine returns the engine the service runs on
func (m *Module) Engine() *engine.Engine { return m.engine }

// Options returns the effective options after merging config and overrides
func (m *Module) Options() Options { return m.opts }
