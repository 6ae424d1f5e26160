package main

import (
	"strings"

	"vortex/internal/core/rulepack"
	perr "vortex/internal/platform/errors"
	triagemod "vortex/internal/services/triage/module"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type rulesFlags struct {
	format string
}

func newRulesCmd(rf *rootFlags) *cobra.Command {
	rl := &rulesFlags{}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rule tables",
		Long: `Rules prints the embedded rule tables with the --rules overlay applied.
The output is itself a valid rules file:
  vortex rules --format yaml > rules.yaml
  vortex analyze --rules rules.yaml "..."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := outputFormat(rl.format)
			if err != nil {
				return err
			}
			m, err := rf.buildTriage(cmd, triagemod.Options{}, nil)
			if err != nil {
				return err
			}
			b, err := m.Engine().Pack().Marshal(f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&rl.format, "format", "yaml", "Output format: yaml or json")

	churnCmd := &cobra.Command{
		Use:   "churn",
		Short: "Print the churn constants after env and flag overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := outputFormat(rl.format)
			if err != nil {
				return err
			}
			m, err := rf.buildTriage(cmd, triagemod.Options{}, nil)
			if err != nil {
				return err
			}
			cfg := m.Engine().ChurnConfig()
			if f == rulepack.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), cfg, true)
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return perr.Wrap(err, perr.ErrorCodeConfig, "encode churn constants")
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.AddCommand(churnCmd)
	return cmd
}

func outputFormat(s string) (rulepack.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return rulepack.FormatYAML, nil
	case "json":
		return rulepack.FormatJSON, nil
	default:
		return "", perr.WithField(perr.Configf("unknown format %q (want yaml or json)", s), "format")
	}
}
