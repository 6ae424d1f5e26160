package rulepack

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	perr "vortex/internal/platform/errors"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format identifies a rules file encoding
type Format string

const (
	// FormatJSON is strict JSON
	FormatJSON Format = "json"
	// FormatJSONC is JSON with comments and trailing commas
	FormatJSONC Format = "jsonc"
	// FormatYAML is YAML 1.2
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonc":
		return FormatJSONC, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", perr.WithField(perr.RulePackf("rulepack: unsupported rules file extension %q", filepath.Ext(path)), "rules_path")
	}
}

// LoadFile overlays the rules file at path on top of base (the embedded pack when nil)
func LoadFile(base *Pack, path string) (*Pack, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeRulePack, "rulepack: read %s", path), "rulepack.LoadFile")
	}
	if base == nil {
		if base, err = Load(); err != nil {
			return nil, err
		}
	}
	return base.Overlay(data, f)
}

func decode(data []byte, f Format) (rawPack, error) {
	var rp rawPack
	switch f {
	case FormatJSONC:
		data = jsonc.ToJSON(data)
		fallthrough
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rp); err != nil {
			return rawPack{}, perr.Wrap(err, perr.ErrorCodeRulePack, "rulepack: parse json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&rp); err != nil && !errors.Is(err, io.EOF) {
			return rawPack{}, perr.Wrap(err, perr.ErrorCodeRulePack, "rulepack: parse yaml")
		}
	default:
		return rawPack{}, perr.RulePackf("rulepack: unknown format %q", f)
	}
	return rp, nil
}

// Marshal renders the effective tables in the requested encoding. JSONC output is
// plain JSON
func (p *Pack) Marshal(f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p.raw); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeRulePack, "rulepack: encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeRulePack, "rulepack: encode yaml")
		}
		return buf.Bytes(), nil
	case FormatJSON, FormatJSONC:
		out, err := json.MarshalIndent(p.raw, "", "  ")
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeRulePack, "rulepack: encode json")
		}
		return append(out, '\n'), nil
	default:
		return nil, perr.RulePackf("rulepack: unknown format %q", f)
	}
}
