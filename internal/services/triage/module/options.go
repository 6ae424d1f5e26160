package module

import (
	"strings"

	"vortex/internal/core/rulepack"
	"vortex/internal/platform/config"
)

// Options holds configuration settings for the triage module
type Options struct {
	RulesPath string
	Locale    string
	Workers   int
	FailFast  bool

	// Churn overrides applied after the rules file churn block
	Churn rulepack.ChurnBlock
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	ef := cfg.Prefix("VORTEX_ENGINE_")
	tf := cfg.Prefix("VORTEX_TRIAGE_")
	return Options{
		RulesPath: ef.MayString("RULES_PATH", ""),
		Locale:    strings.ToLower(ef.MayString("LOCALE", "auto")), // checked by engine.New
		Workers:   tf.MayInt("WORKERS", 4),
		FailFast:  tf.MayBool("FAIL_FAST", false),
		Churn:     churnFromConfig(cfg.Prefix("VORTEX_CHURN_")),
	}
}

// churnFromConfig only sets the constants present in the environment
func churnFromConfig(cf config.Conf) rulepack.ChurnBlock {
	f := func(key string) *float64 {
		if !cf.IsSet(key) {
			return nil
		}
		v := cf.MayFloat64(key, 0)
		return &v
	}
	var b rulepack.ChurnBlock
	b.BaseEvolutionary = f("BASE_EVOLUTIONARY")
	b.BaseOther = f("BASE_OTHER")
	b.SentimentCoef = f("SENTIMENT_COEF")
	b.AnniversaryBonus = f("ANNIVERSARY_BONUS")
	b.VolumeBonus = f("VOLUME_BONUS")
	if cf.IsSet("VOLUME_THRESHOLD") {
		v := cf.MayInt("VOLUME_THRESHOLD", 10)
		b.VolumeThreshold = &v
	}
	return b
}

// merge applies non-zero overrides on top of o
func (o Options) merge(over Options) Options {
	if over.RulesPath != "" {
		o.RulesPath = over.RulesPath
	}
	if over.Locale != "" {
		o.Locale = over.Locale
	}
	if over.Workers != 0 {
		o.Workers = over.Workers
	}
	// bool override only ever switches fail-fast on
	o.FailFast = o.FailFast || over.FailFast

	c := over.Churn
	if c.BaseEvolutionary != nil {
		o.Churn.BaseEvolutionary = c.BaseEvolutionary
	}
	if c.BaseOther != nil {
		o.Churn.BaseOther = c.BaseOther
	}
	if c.SentimentCoef != nil {
		o.Churn.SentimentCoef = c.SentimentCoef
	}
	if c.AnniversaryBonus != nil {
		o.Churn.AnniversaryBonus = c.AnniversaryBonus
	}
	if c.VolumeBonus != nil {
		o.Churn.VolumeBonus = c.VolumeBonus
	}
	if c.VolumeThreshold != nil {
		o.Churn.VolumeThreshold = c.VolumeThreshold
	}
	return o
}
