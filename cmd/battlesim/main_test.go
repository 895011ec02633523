package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/battlesim/internal/report"
	"github.com/udisondev/battlesim/internal/testutil"
	"github.com/udisondev/battlesim/internal/worker"
)

func writeScenario(t *testing.T, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	return path
}

func args(t *testing.T, extra ...string) []string {
	t.Helper()
	base := []string{
		"-config", filepath.Join(t.TempDir(), "missing.yaml"),
		"-scenario", writeScenario(t, testutil.SampleScenario),
	}
	return append(base, extra...)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"ok", []string{"-scenario", "s.yaml"}, false},
		{"missing scenario", []string{"-runs", "2"}, true},
		{"zero runs", []string{"-scenario", "s.yaml", "-runs", "0"}, true},
		{"unknown flag", []string{"-scenario", "s.yaml", "-bogus"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)
			if tt.wantErr {
				require.ErrorIs(t, err, errUsage)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseFlags_ConfigFromEnv(t *testing.T) {
	t.Setenv("BATTLESIM_CONFIG", "/etc/battlesim.yaml")

	o, err := parseFlags([]string{"-scenario", "s.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/battlesim.yaml", o.config)

	o, err = parseFlags([]string{"-scenario", "s.yaml", "-config", "local.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "local.yaml", o.config)
}

func TestRun_SingleJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args(t, "-output", "json"), &out))

	var r report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, "sample", r.Name)
	assert.Equal(t, uint64(7), r.Seed)
	assert.NotEmpty(t, r.Outcome)
	assert.NotEmpty(t, r.Transcript)
}

func TestRun_BatchSummary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args(t, "-output", "yaml", "-runs", "3"), &out))

	var s worker.Summary
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &s))
	assert.Equal(t, 3, s.Runs)
	assert.Equal(t, 3, s.Victories+s.Defeats+s.Timeouts)
	assert.LessOrEqual(t, s.MinDamage, s.MaxDamage)
}

func TestRun_OutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args(t, "-output", "text", "-out", path), &out))
	assert.Empty(t, out.String())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "scenario  sample")
}

func TestRun_ValidateOnly(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args(t, "-validate"), &out))
	assert.Empty(t, out.String())
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
	}{
		{"bad format", func(t *testing.T) []string { return args(t, "-output", "xml") }},
		{"missing scenario file", func(t *testing.T) []string {
			return []string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "-scenario", filepath.Join(t.TempDir(), "nope.yaml")}
		}},
		{"unknown character", func(t *testing.T) []string {
			return []string{
				"-config", filepath.Join(t.TempDir(), "missing.yaml"),
				"-scenario", writeScenario(t, "rounds: 1\nparty: [{character: nobody}]\nenemies: [{enemy: antibaryon}]\n"),
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.Error(t, run(context.Background(), tt.args(t), &out))
		})
	}
}
