// Package querylog imports and exports query logs used to replay traffic
// against the cache and to seed warming. Files ending in .jsonl or .json hold
// one JSON record per line; any other file holds one query per line. A
// trailing .gz compresses either format.
package querylog

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrMalformedLine = errors.New("malformed query log line")

const maxLineSize = 1 << 20

type Record struct {
	Query    string    `json:"query"`
	Response string    `json:"response,omitempty"`
	At       time.Time `json:"at,omitzero"`
}

type format int

const (
	formatText format = iota
	formatJSONLines
)

func detect(path string) (f format, gzipped bool) {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".gz") {
		gzipped = true
		name = strings.TrimSuffix(name, ".gz")
	}
	switch filepath.Ext(name) {
	case ".jsonl", ".json":
		return formatJSONLines, gzipped
	default:
		return formatText, gzipped
	}
}

// Read parses the log at path. Malformed JSON lines are skipped; when any were
// skipped the parsed records are returned together with an error wrapping ErrMalformedLine.
func Read(path string) ([]Record, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open query log: %w", err)
	}
	defer f.Close()

	fmtKind, gzipped := detect(path)
	var reader io.Reader = f
	if gzipped {
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip query log: %w", err)
		}
		defer gzr.Close()
		reader = gzr
	}

	records, malformed, err := decode(reader, fmtKind)
	if err != nil {
		return nil, fmt.Errorf("read query log %s: %w", path, err)
	}

	log.Info().
		Str("file", path).
		Int("records", len(records)).
		Int("malformed", malformed).
		Str("elapsed", time.Since(start).String()).
		Msg("query log loaded")

	if malformed > 0 {
		return records, fmt.Errorf("%d lines skipped: %w", malformed, ErrMalformedLine)
	}
	return records, nil
}

func decode(r io.Reader, f format) (records []Record, malformed int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if f == formatText {
			records = append(records, Record{Query: text})
			continue
		}

		var rec Record
		if err = json.Unmarshal([]byte(text), &rec); err != nil || strings.TrimSpace(rec.Query) == "" {
			log.Warn().Err(err).Int("line", line).Msg("skipping malformed query log line")
			malformed++
			continue
		}
		records = append(records, rec)
	}
	return records, malformed, sc.Err()
}

// Write stores records at path, replacing any existing file atomically.
func Write(path string, records []Record) error {
	start := time.Now()
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create query log dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create query log: %w", err)
	}

	fmtKind, gzipped := detect(path)
	var (
		writer io.Writer = f
		gw     *gzip.Writer
	)
	if gzipped {
		gw = gzip.NewWriter(f)
		writer = gw
	}
	bw := bufio.NewWriterSize(writer, 64*1024)

	if err = encode(bw, fmtKind, records); err == nil {
		err = bw.Flush()
	}
	if gw != nil {
		err = errors.Join(err, gw.Close())
	}
	err = errors.Join(err, f.Close())
	if err != nil {
		_ = os.Remove(tmp)
		log.Error().Err(err).Str("file", path).Msg("query log write failed")
		return fmt.Errorf("write query log %s: %w", path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename query log: %w", err)
	}

	log.Info().
		Str("file", path).
		Int("records", len(records)).
		Str("elapsed", time.Since(start).String()).
		Msg("query log written")
	return nil
}

func encode(w io.Writer, f format, records []Record) error {
	if f == formatText {
		for _, r := range records {
			if _, err := io.WriteString(w, strings.Join(strings.Fields(r.Query), " ")+"\n"); err != nil {
				return err
			}
		}
		return nil
	}

	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
