package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"vortex/internal/core/engine"
	"vortex/internal/core/insight"
	perr "vortex/internal/platform/errors"
	"vortex/internal/services/triage/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type memQuarantine struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (q *memQuarantine) Quarantine(_ context.Context, r domain.Result) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, r.ID)
	return q.err
}

func newService(t *testing.T, cfg Config, q domain.QuarantinePort) *Service {
	t.Helper()
	eng, err := engine.New(engine.Options{Locale: "en"})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return New(eng, cfg, q)
}

func TestAnalyze_AssignsIDs(t *testing.T) {
	s := newService(t, Config{}, nil)

	res, err := s.Analyze(context.Background(), domain.Ticket{Input: engine.TicketInput{Description: "thanks!"}})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, parseErr := uuid.Parse(res.ID); parseErr != nil {
		t.Fatalf("expected uuid id, got %q", res.ID)
	}

	res, err = s.Analyze(context.Background(), domain.Ticket{ID: " T-1 ", Input: engine.TicketInput{Description: "thanks!"}})
	if err != nil || res.ID != "T-1" {
		t.Fatalf("caller id not kept: %q %v", res.ID, err)
	}
}

func TestAnalyze_RejectedInput(t *testing.T) {
	s := newService(t, Config{}, nil)
	cust := "C-9"
	res, err := s.Analyze(context.Background(), domain.Ticket{
		ID:    "bad",
		Input: engine.TicketInput{Description: "x", CustomerID: &cust, ContractAgeMonths: -4},
	})
	if !perr.IsCode(err, perr.ErrorCodeInvalidInput) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	if res.Record != nil || res.Error == nil {
		t.Fatalf("result = %+v", res)
	}
	want := perr.Wire{Code: "invalid_input", Message: res.Error.Message, Field: "contract_age_months"}
	if diff := cmp.Diff(want, *res.Error); diff != "" {
		t.Fatalf("wire mismatch:\n%s", diff)
	}
	if res.CustomerID == nil || *res.CustomerID != "C-9" {
		t.Fatalf("customer id not carried")
	}
}

func TestAnalyze_PhishingIsQuarantined(t *testing.T) {
	q := &memQuarantine{err: fmt.Errorf("sink down")}
	s := newService(t, Config{}, q)
	res, err := s.Analyze(context.Background(), domain.Ticket{
		ID:    "P-1",
		Input: engine.TicketInput{Description: "click here bit.ly/x"},
	})
	if err != nil {
		t.Fatalf("sink failures must not fail the ticket: %v", err)
	}
	if !res.Quarantined() {
		t.Fatalf("expected quarantined result")
	}
	if diff := cmp.Diff([]string{"P-1"}, q.ids); diff != "" {
		t.Fatalf("quarantine calls mismatch:\n%s", diff)
	}
}

func TestAnalyze_Canceled(t *testing.T) {
	s := newService(t, Config{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Analyze(ctx, domain.Ticket{ID: "c", Input: engine.TicketInput{Description: "hello"}})
	if !perr.IsCode(err, perr.ErrorCodeCanceled) || res.Error == nil || res.Error.Code != "canceled" {
		t.Fatalf("err=%v res=%+v", err, res)
	}
}

func TestAnalyzeAll_OrderAndSummary(t *testing.T) {
	q := &memQuarantine{}
	s := newService(t, Config{Workers: 3}, q)

	var ts []domain.Ticket
	for i := 0; i < 20; i++ {
		desc := "Critical bug, payment button broken, very urgent"
		switch i % 4 {
		case 1:
			desc = "Great improvement, thanks, we want a new feature"
		case 2:
			desc = "verify your account at bit.ly/abc"
		}
		in := engine.TicketInput{Description: desc, TicketsThisPeriod: 15}
		if i%4 == 3 {
			in.TicketsThisPeriod = -1
		}
		ts = append(ts, domain.Ticket{ID: fmt.Sprintf("t-%02d", i), Input: in})
	}

	results, err := s.AnalyzeAll(context.Background(), ts)
	if err != nil {
		t.Fatalf("AnalyzeAll: %v", err)
	}
	for i, r := range results {
		if r.ID != ts[i].ID {
			t.Fatalf("order broken at %d: %s", i, r.ID)
		}
	}
	if results[0].Record.RecommendationID != insight.RecommendUrgentRetention {
		t.Fatalf("unexpected recommendation %s", results[0].Record.RecommendationID)
	}

	want := domain.Summary{Total: 20, Analyzed: 10, Quarantined: 5, Rejected: 5, HighRisk: 5}
	if diff := cmp.Diff(want, domain.Summarize(results)); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if len(q.ids) != 5 {
		t.Fatalf("quarantined %d", len(q.ids))
	}
}

func TestAnalyzeAll_FailFast(t *testing.T) {
	s := newService(t, Config{Workers: 1, FailFast: true}, nil)
	ts := []domain.Ticket{
		{ID: "ok", Input: engine.TicketInput{Description: "fine"}},
		{ID: "bad", Input: engine.TicketInput{ContractAgeMonths: -1}},
		{ID: "later", Input: engine.TicketInput{Description: "fine"}},
	}
	results, err := s.AnalyzeAll(context.Background(), ts)
	if !perr.IsCode(err, perr.ErrorCodeInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if results[0].Record == nil || results[1].Error == nil {
		t.Fatalf("results = %+v", results)
	}
	if results[2].Record != nil {
		t.Fatalf("tickets after the failure must not be analyzed")
	}
}

func TestAnalyzeAll_Empty(t *testing.T) {
	s := newService(t, Config{}, nil)
	results, err := s.AnalyzeAll(context.Background(), nil)
	if err != nil || len(results) != 0 {
		t.Fatalf("got %v %v", results, err)
	}
}
