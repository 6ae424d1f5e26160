package main

import (
	"vortex/internal/core/version"
	perr "vortex/internal/platform/errors"
	"vortex/internal/platform/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootFlags are shared by every subcommand
type rootFlags struct {
	envFile  string
	rules    string
	locale   string
	logLevel string

	baseEvolutionary float64
	baseOther        float64
	sentimentCoef    float64
	anniversaryBonus float64
	volumeBonus      float64
	volumeThreshold  int
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "vortex",
		Short: "Ticket risk and insight engine",
		Long: `Vortex screens support tickets for phishing, masks personal data, scores
sentiment and churn risk, and suggests a retention action.

Configuration is read from VORTEX_* environment variables (and a .env file
when present). Flags win over the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rf.bootstrap()
		},
	}
	cmd.Version = version.Info().Version

	pf := cmd.PersistentFlags()
	pf.StringVar(&rf.envFile, "env-file", "", "Load environment from this file (default: .env if present)")
	pf.StringVar(&rf.rules, "rules", "", "Rules file overlay (.json, .jsonc, .yaml) (default: $VORTEX_ENGINE_RULES_PATH)")
	pf.StringVar(&rf.locale, "locale", "", "Output language: auto, en or es (default: $VORTEX_ENGINE_LOCALE or auto)")
	pf.StringVar(&rf.logLevel, "log-level", "", "Log level (default: $LOG_LEVEL or info)")
	pf.Float64Var(&rf.baseEvolutionary, "churn-base-evolutionary", 0, "Churn base for evolutionary tickets")
	pf.Float64Var(&rf.baseOther, "churn-base-other", 0, "Churn base for corrective and other tickets")
	pf.Float64Var(&rf.sentimentCoef, "churn-sentiment-coef", 0, "Churn points per unit of negative sentiment")
	pf.Float64Var(&rf.anniversaryBonus, "churn-anniversary-bonus", 0, "Churn bonus near a contract anniversary")
	pf.Float64Var(&rf.volumeBonus, "churn-volume-bonus", 0, "Churn bonus for high ticket volume")
	pf.IntVar(&rf.volumeThreshold, "churn-volume-threshold", 0, "Tickets per period that count as high volume")

	cmd.AddCommand(newAnalyzeCmd(rf))
	cmd.AddCommand(newBatchCmd(rf))
	cmd.AddCommand(newRulesCmd(rf))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// bootstrap loads the env file then initializes the process logger
func (rf *rootFlags) bootstrap() error {
	if rf.envFile != "" {
		if err := godotenv.Load(rf.envFile); err != nil {
			return perr.WithField(perr.Wrapf(err, perr.ErrorCodeConfig, "load env file %s", rf.envFile), "env-file")
		}
	} else {
		_ = godotenv.Load() // .env is optional
	}

	opt := logger.FromEnv()
	if rf.logLevel != "" {
		opt.Level = rf.logLevel
	}
	logger.Init(opt)
	return nil
}
