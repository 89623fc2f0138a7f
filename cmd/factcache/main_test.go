package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/perezable/hyper8-FACT-sub000/internal/querylog"
	"github.com/stretchr/testify/require"
)

var answer = strings.Repeat("Nvidia reported record data center revenue for the quarter. ", 10)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// TestConfigCmd verifies that the effective configuration is printed with defaults applied.
func TestConfigCmd(t *testing.T) {
	path := writeConfig(t, "db:\n  namespace_prefix: ${FACT_TEST_PREFIX}\n  max_size: 2MB\n")
	t.Setenv("FACT_TEST_PREFIX", "finance")

	out, err := run(t, "config", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "namespace_prefix: finance")
	require.Contains(t, out, "max_size: 2MB")
	require.Contains(t, out, "min_tokens: 50")
}

// TestReplayCmd verifies that repeated queries hit after their first response is stored.
func TestReplayCmd(t *testing.T) {
	log := filepath.Join(t.TempDir(), "traffic.jsonl")
	require.NoError(t, querylog.Write(log, []querylog.Record{
		{Query: "What was Nvidia's revenue?", Response: answer},
		{Query: "What was Nvidia's revenue?", Response: answer},
		{Query: "Who founded Nvidia?"},
		{Query: "short", Response: "too short"},
	}))

	out, err := run(t, "replay", log, "--validate", "standard", "--repair")
	require.NoError(t, err)

	var report struct {
		Totals struct {
			Gets int64 `json:"gets"`
			Hits int64 `json:"hits"`
		} `json:"totals"`
		Counters struct {
			Stores            int64 `json:"stores"`
			RejectedMinTokens int64 `json:"rejected_min_tokens"`
		} `json:"counters"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, int64(4), report.Totals.Gets)
	require.Equal(t, int64(1), report.Totals.Hits)
	require.Equal(t, int64(1), report.Counters.Stores)
	require.Equal(t, int64(1), report.Counters.RejectedMinTokens)
}

// TestReplayCmd_BadLevel verifies that an unknown validation level fails the command.
func TestReplayCmd_BadLevel(t *testing.T) {
	log := filepath.Join(t.TempDir(), "traffic.txt")
	require.NoError(t, os.WriteFile(log, []byte("q1\nq2\n"), 0o644))

	_, err := run(t, "replay", log, "--validate", "thorough")
	require.Error(t, err)
}

// TestHistoryCmd verifies import then export through the persistent history.
func TestHistoryCmd(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "history:\n  db_path: "+filepath.Join(dir, "history.db")+"\n")

	in := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(in, []byte("first query\nsecond query\n"), 0o644))

	out, err := run(t, "history", "import", in, "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "imported 2 queries")

	exported := filepath.Join(dir, "out.jsonl")
	out, err = run(t, "history", "export", exported, "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "exported 2 queries")

	recs, err := querylog.Read(exported)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "second query", recs[0].Query)
	require.False(t, recs[0].At.IsZero())
}

// TestHistoryCmd_RequiresPersistence verifies that history commands need a configured database.
func TestHistoryCmd_RequiresPersistence(t *testing.T) {
	_, err := run(t, "history", "export", filepath.Join(t.TempDir(), "out.txt"))
	require.ErrorIs(t, err, errNoPersistentHistory)
}
