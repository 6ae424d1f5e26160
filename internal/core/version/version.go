// Package version provides information about the build version of the CLI.
package version

import (
	"runtime/debug"

	"vortex/internal/core/rulepack"
)

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Date        string `json:"date"`
	RulesSchema int    `json:"rules_schema"`
	GoVersion   string `json:"go_version,omitempty"`
}

// RulesSchema is the rule file version this build understands.
const RulesSchema = rulepack.SupportedVersion

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'vortex/internal/core/version.version=v0.1.0'
	// -X 'vortex/internal/core/version.commit=abcd' -X 'vortex/internal/core/version.date=2026-10-17'"
	bi := BuildInfo{
		Service:     "vortex",
		Version:     version,
		Commit:      commit,
		Date:        date,
		RulesSchema: RulesSchema,
	}
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		bi.GoVersion = info.GoVersion
	}
	return bi
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
