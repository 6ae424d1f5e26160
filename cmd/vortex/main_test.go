package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vortex/internal/core/churn"
	"vortex/internal/core/insight"
	"vortex/internal/core/version"
	perr "vortex/internal/platform/errors"
	"vortex/internal/platform/testkit"
	"vortex/internal/services/triage/domain"
)

const (
	frustrated = "Critical bug, payment button broken since yesterday, very urgent, my email is user@client.com and password is Pass123"
	happy      = "Great service, the last improvement worked very well, we'd like a new feature for section A"
	phishing   = "URGENT your account has expired, click here bit.ly/malicious to enter your credentials"
	spanish    = "El botón de pago no funciona desde ayer, es muy urgente"
)

// execute runs a fresh command tree in-process
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func decodeResult(t *testing.T, s string) domain.Result {
	t.Helper()
	var r domain.Result
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return r
}

func TestAnalyze_ArgsAndMetadata(t *testing.T) {
	out, err := execute(t, "", "analyze", "--id", "T-1", "--customer", "C-0042", "--age", "3", "--tickets", "15", frustrated)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	r := decodeResult(t, out)
	if r.ID != "T-1" || r.CustomerID == nil || *r.CustomerID != "C-0042" {
		t.Fatalf("ids = %q %v", r.ID, r.CustomerID)
	}
	rec := r.Record
	if rec == nil || rec.ChurnRisk == nil || *rec.ChurnRisk != 89 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.InsightID != insight.InsightCriticalFrustration || rec.RecommendationID != insight.RecommendUrgentRetention {
		t.Fatalf("insight=%s rec=%s", rec.InsightID, rec.RecommendationID)
	}
	testkit.MustContain(t, *rec.AnonymizedText, "[EMAIL_MASKED]")
}

func TestAnalyze_Stdin(t *testing.T) {
	out, err := execute(t, happy+"\n", "analyze", "--compact", "--age", "12", "--tickets", "2")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("compact output should be one line: %q", out)
	}
	r := decodeResult(t, out)
	if r.ID == "" {
		t.Fatalf("id should be assigned")
	}
	if *r.Record.ChurnRisk != 45 || r.Record.Language != "en" || *r.Record.AnonymizedText != happy {
		t.Fatalf("record = %+v", r.Record)
	}
}

func TestAnalyze_PhishingShape(t *testing.T) {
	out, err := execute(t, "", "analyze", "--compact", phishing)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	testkit.MustContain(t, out, `"is_phishing":true`)
	testkit.MustContain(t, out, `"anonymized_text":null`)
	testkit.MustContain(t, out, `"churn_risk":null`)
}

func TestAnalyze_Errors(t *testing.T) {
	cases := []struct {
		name  string
		args  []string
		code  perr.ErrorCode
		field string
	}{
		{"negative age", []string{"analyze", "--age", "-1", "x"}, perr.ErrorCodeInvalidInput, "contract_age_months"},
		{"unsupported locale", []string{"analyze", "--locale", "fr", "x"}, perr.ErrorCodeConfig, ""},
		{"negative churn constant", []string{"analyze", "--churn-base-other", "-5", "x"}, perr.ErrorCodeConfig, "base_other"},
		{"missing rules file", []string{"analyze", "--rules", filepath.Join(t.TempDir(), "none.yaml"), "x"}, perr.ErrorCodeRulePack, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, "", tc.args...)
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("want %s got %v", tc.code, err)
			}
			if perr.ExitCode(err) == 0 {
				t.Fatalf("exit code should be non-zero")
			}
			if tc.field != "" {
				if e, _ := perr.As(err); e.Field() != tc.field {
					t.Fatalf("field = %q", e.Field())
				}
			}
		})
	}
}

func TestAnalyze_BadEnvLocale(t *testing.T) {
	t.Setenv("VORTEX_ENGINE_LOCALE", "fr")
	_, err := execute(t, "", "analyze", "x")
	if !perr.IsCode(err, perr.ErrorCodeConfig) || perr.ExitCode(err) != 3 {
		t.Fatalf("want config error with exit 3 got %v", err)
	}

	if _, err := execute(t, "", "analyze", "--locale", "en", "x"); err != nil {
		t.Fatalf("flag should override env: %v", err)
	}
}

func TestAnalyze_ChurnFlagOverride(t *testing.T) {
	out, err := execute(t, "", "analyze", "--churn-volume-bonus", "0", "--age", "3", "--tickets", "15", frustrated)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	r := decodeResult(t, out)
	if *r.Record.ChurnRisk != 64 || r.Record.Drivers.VolumeAdj != 0 {
		t.Fatalf("record = %+v", r.Record.Drivers)
	}
}

func TestBatch_StdinWithQuarantine(t *testing.T) {
	qpath := filepath.Join(t.TempDir(), "phishing.jsonl")
	in := strings.Join([]string{
		`{"id":"t1","input":{"description":"` + frustrated + `","contract_age_months":3,"tickets_this_period":15}}`,
		`{"id":"t2","input":{"description":"` + phishing + `"}}`,
		`{"id":`,
		`{"id":"t4","input":{"description":"` + spanish + `","tickets_this_period":12}}`,
	}, "\n")

	out, err := execute(t, in, "batch", "--workers", "2", "--quarantine", qpath)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 result lines got %d: %q", len(lines), out)
	}

	var ids []string
	for _, ln := range lines {
		ids = append(ids, decodeResult(t, ln).ID)
	}
	if strings.Join(ids, ",") != "t1,t2,line-3,t4" {
		t.Fatalf("order = %v", ids)
	}

	bad := decodeResult(t, lines[2])
	if bad.Error == nil || bad.Error.Code != "json" {
		t.Fatalf("line 3 error = %+v", bad.Error)
	}
	if es := decodeResult(t, lines[3]); es.Record.Language != "es" {
		t.Fatalf("language = %q", es.Record.Language)
	}

	q, err := os.ReadFile(qpath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(q), "\n") != 1 {
		t.Fatalf("quarantine = %q", q)
	}
	testkit.MustContain(t, string(q), `"id":"t2"`)
}

func TestBatch_FailFast(t *testing.T) {
	in := `{"input":{"description":"fine"}}` + "\nnot json\n"
	_, err := execute(t, in, "batch", "--fail-fast")
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("want json error got %v", err)
	}
	if perr.ExitCode(err) != 2 {
		t.Fatalf("exit = %d", perr.ExitCode(err))
	}
}

func TestBatch_Files(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.jsonl")
	outPath := filepath.Join(dir, "out.jsonl")
	if err := os.WriteFile(inPath, []byte(`{"id":"a","input":{"description":"`+happy+`","contract_age_months":12}}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, err := execute(t, "", "batch", inPath, "-o", outPath)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if stdout != "" {
		t.Fatalf("stdout should be empty, got %q", stdout)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	r := decodeResult(t, strings.TrimSpace(string(b)))
	if r.ID != "a" || *r.Record.ChurnRisk != 45 {
		t.Fatalf("result = %+v", r)
	}
}

func TestRules_DumpReloads(t *testing.T) {
	out, err := execute(t, "", "rules")
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	testkit.MustContain(t, out, "EMAIL_MASKED")

	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := execute(t, "", "analyze", "--rules", path, "--age", "12", "--tickets", "2", happy)
	if err != nil {
		t.Fatalf("analyze with dumped rules: %v", err)
	}
	if r := decodeResult(t, res); *r.Record.ChurnRisk != 45 {
		t.Fatalf("risk = %d", *r.Record.ChurnRisk)
	}

	js, err := execute(t, "", "rules", "--format", "json")
	if err != nil {
		t.Fatalf("rules json: %v", err)
	}
	testkit.MustContain(t, js, `"version": 1`)
}

func TestRules_Churn(t *testing.T) {
	out, err := execute(t, "", "rules", "churn", "--format", "json", "--churn-base-other", "30")
	if err != nil {
		t.Fatalf("rules churn: %v", err)
	}
	var cfg churn.Config
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := churn.DefaultConfig()
	want.BaseOther = 30
	if cfg != want {
		t.Fatalf("churn = %+v", cfg)
	}

	if _, err := execute(t, "", "rules", "--format", "xml"); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("want config error got %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var bi version.BuildInfo
	if err := json.Unmarshal([]byte(out), &bi); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bi.Service != "vortex" || bi.RulesSchema != version.RulesSchema {
		t.Fatalf("build info = %+v", bi)
	}

	txt, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	testkit.MustContain(t, txt, "vortex dev")
}

func TestEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("VORTEX_CHURN_BASE_EVOLUTIONARY=20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("VORTEX_CHURN_BASE_EVOLUTIONARY") })

	out, err := execute(t, "", "--env-file", path, "rules", "churn", "--format", "json")
	if err != nil {
		t.Fatalf("rules churn: %v", err)
	}
	testkit.MustContain(t, out, `"base_evolutionary": 20`)

	if _, err := execute(t, "", "--env-file", filepath.Join(t.TempDir(), "missing.env"), "version"); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("want config error got %v", err)
	}
}
