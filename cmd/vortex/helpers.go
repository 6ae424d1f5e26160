package main

import (
	"encoding/json"
	"io"

	"vortex/internal/core/rulepack"
	"vortex/internal/modkit"
	"vortex/internal/platform/config"
	perr "vortex/internal/platform/errors"
	"vortex/internal/platform/logger"
	"vortex/internal/services/triage/domain"
	triagemod "vortex/internal/services/triage/module"

	"github.com/spf13/cobra"
)

// buildTriage wires the triage module from env plus flag overrides.
// q may be nil
func (rf *rootFlags) buildTriage(cmd *cobra.Command, over triagemod.Options, q domain.QuarantinePort) (*triagemod.Module, error) {
	over.RulesPath = rf.rules
	over.Locale = rf.locale
	over.Churn = rf.churnOverrides(cmd)

	deps := modkit.Deps{Cfg: config.New(), Log: logger.Named("cli")}
	var opts []modkit.Option
	if q != nil {
		opts = append(opts, modkit.WithPorts(domain.Ports{Quarantine: q}))
	}
	return triagemod.New(deps, over, opts...)
}

// churnOverrides returns only the churn flags the user actually set
func (rf *rootFlags) churnOverrides(cmd *cobra.Command) rulepack.ChurnBlock {
	fs := cmd.Flags()
	f := func(name string, v float64) *float64 {
		if !fs.Changed(name) {
			return nil
		}
		return &v
	}
	b := rulepack.ChurnBlock{
		BaseEvolutionary: f("churn-base-evolutionary", rf.baseEvolutionary),
		BaseOther:        f("churn-base-other", rf.baseOther),
		SentimentCoef:    f("churn-sentiment-coef", rf.sentimentCoef),
		AnniversaryBonus: f("churn-anniversary-bonus", rf.anniversaryBonus),
		VolumeBonus:      f("churn-volume-bonus", rf.volumeBonus),
	}
	if fs.Changed("churn-volume-threshold") {
		v := rf.volumeThreshold
		b.VolumeThreshold = &v
	}
	return b
}

// writeJSON writes v to w, indented when pretty
func writeJSON(w io.Writer, v any, pretty bool) error {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode output")
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "write output")
	}
	return nil
}
