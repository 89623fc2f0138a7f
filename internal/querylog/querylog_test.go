package querylog

import (
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func sample() []Record {
	return []Record{
		{Query: "What was Apple's revenue in 2024?", Response: "391 billion dollars", At: t0},
		{Query: "Who is the CEO of Nvidia?", At: t0.Add(time.Minute)},
	}
}

// TestWriteRead_JSONLines verifies that JSON line logs keep responses and timestamps.
func TestWriteRead_JSONLines(t *testing.T) {
	for _, name := range []string{"log.jsonl", "log.json", "log.jsonl.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Write(path, sample()))

			got, err := Read(path)
			require.NoError(t, err)
			require.Len(t, got, 2)
			require.Equal(t, "391 billion dollars", got[0].Response)
			require.True(t, got[0].At.Equal(t0))
			require.Equal(t, "Who is the CEO of Nvidia?", got[1].Query)

			_, err = os.Stat(path + ".tmp")
			require.True(t, os.IsNotExist(err))
		})
	}
}

// TestWriteRead_Text verifies that plain text logs keep one query per line.
func TestWriteRead_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "queries.txt")
	recs := append(sample(), Record{Query: "multi\nline   query"})
	require.NoError(t, Write(path, recs))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "What was Apple's revenue in 2024?\nWho is the CEO of Nvidia?\nmulti line query\n", string(raw))

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Empty(t, got[0].Response)
	require.Equal(t, "multi line query", got[2].Query)
}

// TestRead_SkipsMalformed verifies that bad JSON lines are reported but do not discard good ones.
func TestRead_SkipsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	content := `{"query":"first"}

not json
{"response":"no query"}
{"query":"second","at":"2025-03-14T12:00:00Z"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := Read(path)
	require.ErrorIs(t, err, ErrMalformedLine)
	require.Len(t, got, 2)
	require.Equal(t, "first", got[0].Query)
	require.True(t, got[1].At.Equal(t0))
}

// TestRead_Missing verifies that a missing file is an error.
func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
