// Package churn computes the additive churn-risk score and its per-term breakdown
package churn

import (
	"math"

	"vortex/internal/core/maintenance"
	"vortex/internal/core/rulepack"
	perr "vortex/internal/platform/errors"
)

// Config holds the six tunable constants of the risk model
type Config struct {
	BaseEvolutionary float64 `json:"base_evolutionary" yaml:"base_evolutionary"`
	BaseOther        float64 `json:"base_other" yaml:"base_other"`
	SentimentCoef    float64 `json:"sentiment_coef" yaml:"sentiment_coef"`
	AnniversaryBonus float64 `json:"anniversary_bonus" yaml:"anniversary_bonus"`
	VolumeBonus      float64 `json:"volume_bonus" yaml:"volume_bonus"`
	VolumeThreshold  int     `json:"volume_threshold" yaml:"volume_threshold"`
}

// DefaultConfig returns the canonical constants
func DefaultConfig() Config {
	return Config{
		BaseEvolutionary: 15,
		BaseOther:        25,
		SentimentCoef:    20,
		AnniversaryBonus: 30,
		VolumeBonus:      25,
		VolumeThreshold:  10,
	}
}

// WithPack applies the non-nil overrides from a rules file churn block
func (c Config) WithPack(b rulepack.ChurnBlock) Config {
	if b.BaseEvolutionary != nil {
		c.BaseEvolutionary = *b.BaseEvolutionary
	}
	if b.BaseOther != nil {
		c.BaseOther = *b.BaseOther
	}
	if b.SentimentCoef != nil {
		c.SentimentCoef = *b.SentimentCoef
	}
	if b.AnniversaryBonus != nil {
		c.AnniversaryBonus = *b.AnniversaryBonus
	}
	if b.VolumeBonus != nil {
		c.VolumeBonus = *b.VolumeBonus
	}
	if b.VolumeThreshold != nil {
		c.VolumeThreshold = *b.VolumeThreshold
	}
	return c
}

// Validate rejects constants that would break monotonicity
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"base_evolutionary", c.BaseEvolutionary},
		{"base_other", c.BaseOther},
		{"sentiment_coef", c.SentimentCoef},
		{"anniversary_bonus", c.AnniversaryBonus},
		{"volume_bonus", c.VolumeBonus},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return perr.WithField(perr.Configf("churn: %s must be a finite value >= 0, got %v", f.name, f.v), f.name)
		}
	}
	if c.VolumeThreshold < 0 {
		return perr.WithField(perr.Configf("churn: volume_threshold must be >= 0, got %d", c.VolumeThreshold), "volume_threshold")
	}
	return nil
}

// Factors are the inputs of one score
type Factors struct {
	Type              maintenance.Type
	Sentiment         float64
	ContractAgeMonths int
	TicketsThisPeriod int
}

// Breakdown exposes each additive term next to the clamped score
type Breakdown struct {
	Base           float64 `json:"base"`
	SentimentAdj   float64 `json:"sentiment_adj"`
	AnniversaryAdj float64 `json:"anniversary_adj"`
	VolumeAdj      float64 `json:"volume_adj"`
	Risk           int     `json:"risk"`
}

// Scorer is immutable and safe for concurrent use
type Scorer struct {
	cfg Config
}

// New returns a scorer for cfg
func New(cfg Config) *Scorer { return &Scorer{cfg: cfg} }

// Config returns the constants in use
func (s *Scorer) Config() Config { return s.cfg }

// Score sums the four terms, clamps to [0, 100] and truncates to an integer
func (s *Scorer) Score(f Factors) Breakdown {
	sent := math.Max(-1, math.Min(1, f.Sentiment))
	if math.IsNaN(sent) {
		sent = 0
	}

	b := Breakdown{
		Base:           s.cfg.BaseOther,
		SentimentAdj:   (1 - sent) * s.cfg.SentimentCoef,
		AnniversaryAdj: s.anniversary(f.ContractAgeMonths),
		VolumeAdj:      s.volume(f.TicketsThisPeriod),
	}
	if f.Type.IsEvolutionary() {
		b.Base = s.cfg.BaseEvolutionary
	}

	total := b.Base + b.SentimentAdj + b.AnniversaryAdj + b.VolumeAdj
	b.Risk = int(math.Max(0, math.Min(100, total)))
	return b
}

// anniversary applies when the contract age lands on a 12 or 24 month renewal
func (s *Scorer) anniversary(age int) float64 {
	if (age >= 12 && age%12 == 0) || (age >= 24 && age%24 == 0) {
		return s.cfg.AnniversaryBonus
	}
	return 0
}

func (s *Scorer) volume(tickets int) float64 {
	if tickets > s.cfg.VolumeThreshold {
		return s.cfg.VolumeBonus
	}
	return 0
}
