package main

import (
	"fmt"
	"io"

	"vortex/internal/adapters/jsonl"
	"vortex/internal/modkit"
	perr "vortex/internal/platform/errors"
	"vortex/internal/platform/logger"
	"vortex/internal/services/triage/domain"
	triagemod "vortex/internal/services/triage/module"

	"github.com/spf13/cobra"
)

type batchFlags struct {
	output     string
	quarantine string
	workers    int
	failFast   bool
}

func newBatchCmd(rf *rootFlags) *cobra.Command {
	bf := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "batch [input.jsonl]",
		Short: "Analyze JSON lines tickets and write JSON lines results",
		Long: `Batch reads one ticket per line and writes one result per line, in input order.

Input lines look like:
  {"id":"T-1","input":{"description":"...","contract_age_months":6,"tickets_this_period":2},"locale":"es"}

Only "input.description" is required. The input may be gzip compressed (.gz).
"-" or no argument reads stdin. Malformed lines become error results unless
--fail-fast is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := "-"
			if len(args) == 1 {
				in = args[0]
			}
			return runBatch(cmd, rf, bf, in)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&bf.output, "output", "o", "-", "Results path (default: stdout)")
	f.StringVar(&bf.quarantine, "quarantine", "", "Also append phishing results to this JSON lines file")
	f.IntVar(&bf.workers, "workers", 0, "Concurrent analyses (default: $VORTEX_TRIAGE_WORKERS or 4)")
	f.BoolVar(&bf.failFast, "fail-fast", false, "Stop at the first rejected ticket")
	return cmd
}

func runBatch(cmd *cobra.Command, rf *rootFlags, bf *batchFlags, inPath string) (err error) {
	log := logger.Named("batch")

	msgLocale := rf.locale
	if msgLocale == "" || msgLocale == "auto" {
		msgLocale = "en"
	}

	var rd *jsonl.Reader
	if inPath == "-" {
		rd, err = jsonl.NewReader(struct{ io.Reader }{cmd.InOrStdin()}, false, msgLocale)
	} else {
		rd, err = jsonl.Open(inPath, msgLocale)
	}
	if err != nil {
		return err
	}
	defer func() { _ = rd.Close() }()

	lines, err := rd.ReadAll()
	if err != nil {
		return err
	}

	var q *jsonl.Writer
	if bf.quarantine != "" {
		if q, err = jsonl.Create(bf.quarantine); err != nil {
			return perr.WithField(err, "quarantine")
		}
		defer func() {
			if cerr := q.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}

	var out *jsonl.Writer
	if bf.output == "-" {
		// hide Close so stdout stays open
		out = jsonl.NewWriter(struct{ io.Writer }{cmd.OutOrStdout()})
	} else if out, err = jsonl.Create(bf.output); err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// tickets go to the pool; rejected lines keep their slot in the output
	results := make([]domain.Result, len(lines))
	tickets := make([]domain.Ticket, 0, len(lines))
	slots := make([]int, 0, len(lines))
	for i, ln := range lines {
		if ln.Err != nil {
			if bf.failFast {
				return perr.WithOp(ln.Err, fmt.Sprintf("batch line %d", ln.No))
			}
			w := perr.WireFrom(ln.Err)
			results[i] = domain.Result{ID: fmt.Sprintf("line-%d", ln.No), Error: &w}
			log.Info().Int("line", ln.No).Str("code", w.Code).Str("field", w.Field).Msg("line rejected")
			continue
		}
		tickets = append(tickets, ln.Ticket)
		slots = append(slots, i)
	}

	var port domain.QuarantinePort
	if q != nil {
		port = q
	}
	m, err := rf.buildTriage(cmd, triagemod.Options{Workers: bf.workers, FailFast: bf.failFast}, port)
	if err != nil {
		return err
	}
	batch := modkit.MustPortsOf[domain.BatchPort](m)

	analyzed, runErr := batch.AnalyzeAll(cmd.Context(), tickets)
	for j, r := range analyzed {
		results[slots[j]] = r
	}

	for _, r := range results {
		if err := out.Write(r); err != nil {
			return err
		}
	}

	sum := domain.Summarize(results)
	log.Info().
		Int("lines", len(lines)).
		Int("analyzed", sum.Analyzed).
		Int("quarantined", sum.Quarantined).
		Int("rejected", sum.Rejected).
		Int("high_risk", sum.HighRisk).
		Msg("batch written")
	return runErr
}
