package main

import (
	"io"
	"strings"

	"vortex/internal/core/engine"
	"vortex/internal/modkit"
	perr "vortex/internal/platform/errors"
	vstrings "vortex/internal/platform/strings"
	"vortex/internal/services/triage/domain"
	triagemod "vortex/internal/services/triage/module"

	"github.com/spf13/cobra"
)

// maxStdinBytes caps a ticket read from stdin
const maxStdinBytes = 1 << 20

type analyzeFlags struct {
	id       string
	text     string
	customer string
	age      int
	tickets  int
	compact  bool
}

func newAnalyzeCmd(rf *rootFlags) *cobra.Command {
	af := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Analyze a single ticket and print its record as JSON",
		Long: `Analyze runs one ticket through the engine.

The ticket text is taken from the positional arguments, then --text, then stdin:
  vortex analyze "the invoice page is broken again"
  vortex analyze --text "quiero cancelar" --locale es
  echo "great new feature" | vortex analyze --age 11`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, rf, af, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&af.id, "id", "", "Ticket id (default: random UUID)")
	f.StringVar(&af.text, "text", "", "Ticket text")
	f.StringVar(&af.customer, "customer", "", "Customer id")
	f.IntVar(&af.age, "age", 0, "Contract age in months")
	f.IntVar(&af.tickets, "tickets", 0, "Tickets opened by the customer this period")
	f.BoolVar(&af.compact, "compact", false, "Print single-line JSON")
	return cmd
}

func runAnalyze(cmd *cobra.Command, rf *rootFlags, af *analyzeFlags, args []string) error {
	text, err := ticketText(cmd, af, args)
	if err != nil {
		return err
	}
	in := engine.TicketInput{
		Description:       text,
		ContractAgeMonths: af.age,
		TicketsThisPeriod: af.tickets,
		CustomerID:        vstrings.Ptr(af.customer),
	}

	m, err := rf.buildTriage(cmd, triagemod.Options{}, nil)
	if err != nil {
		return err
	}
	analyzer := modkit.MustPortsOf[domain.AnalyzerPort](m)

	res, err := analyzer.Analyze(cmd.Context(), domain.Ticket{ID: af.id, Input: in})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), res, !af.compact)
}

// ticketText resolves the description from args, --text or stdin
func ticketText(cmd *cobra.Command, af *analyzeFlags, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case cmd.Flags().Changed("text"):
		return af.text, nil
	}
	b, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinBytes+1))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeInvalidInput, "read ticket from stdin")
	}
	if len(b) > maxStdinBytes {
		return "", perr.WithField(perr.InvalidInputf("ticket text exceeds %d bytes", maxStdinBytes), "description")
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
