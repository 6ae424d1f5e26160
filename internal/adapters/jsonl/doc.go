// Package jsonl streams triage tickets in and results out as JSON lines.
//
// Input files may be gzip compressed (".gz" suffix). The path "-" means
// stdin for readers and stdout for writers.
package jsonl
