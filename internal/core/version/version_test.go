package version

import (
	"testing"

	"vortex/internal/platform/testkit"
)

func TestInfo_Defaults(t *testing.T) {
	bi := Info()
	if bi.Service != "vortex" || bi.Version != "dev" || bi.Commit != "none" || bi.Date != "unknown" {
		t.Fatalf("unexpected defaults: %+v", bi)
	}
	if bi.RulesSchema != RulesSchema {
		t.Fatalf("rules schema = %d", bi.RulesSchema)
	}
}

func TestInfo_Ldflags(t *testing.T) {
	testkit.Swap(t, &version, "v1.2.3")
	testkit.Swap(t, &commit, "abc123")
	if bi := Info(); bi.Version != "v1.2.3" || bi.Commit != "abc123" {
		t.Fatalf("ldflags not reflected: %+v", bi)
	}
}
