// Package matchlog implements a per-agent CSV sink: free-form
// key/value rows an agent writes during a round, opened for append at
// round start and closed at round end, rotating by numeric suffix
// when a file of the requested name already exists.
package matchlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Sink appends comma-separated key/value rows to one CSV file for the
// lifetime of a round. WriteRow lays each row out by the header written
// on its first call: values for keys outside the header are dropped and
// missing ones are written empty, so every WriteRow row has the
// header's column count. WriteLine rows hold a single cell.
type Sink struct {
	file    *os.File
	w       *csv.Writer
	path    string
	header  []string
	started bool
}

// Open rotates to an unused filename under dir (name.csv, then
// name-1.csv, name-2.csv, ... probing upward from 1) and opens it for
// append.
func Open(dir, name string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("matchlog: creating %s: %w", dir, err)
	}
	path, err := rotatedPath(dir, name)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("matchlog: opening %s: %w", path, err)
	}
	return &Sink{file: f, w: csv.NewWriter(f), path: path}, nil
}

// rotatedPath finds the first unused path of the form
// dir/name.csv, dir/name-1.csv, dir/name-2.csv, ...
func rotatedPath(dir, name string) (string, error) {
	base := filepath.Join(dir, name+".csv")
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return base, nil
	} else if err != nil {
		return "", fmt.Errorf("matchlog: stat %s: %w", base, err)
	}
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d.csv", name, i))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", fmt.Errorf("matchlog: stat %s: %w", candidate, err)
		}
	}
}

// Path returns the file this sink is writing to.
func (s *Sink) Path() string { return s.path }

// WriteRow appends one key/value row. The first call writes a header
// row (the map's keys, sorted by first-seen insertion order via
// keys); later calls pad or truncate to that header's width so every
// row in a file has the same column count.
func (s *Sink) WriteRow(keys []string, values map[string]string) error {
	if !s.started {
		s.header = append([]string(nil), keys...)
		if err := s.w.Write(s.header); err != nil {
			return fmt.Errorf("matchlog: writing header: %w", err)
		}
		s.started = true
	}
	row := make([]string, len(s.header))
	for i, k := range s.header {
		row[i] = values[k]
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("matchlog: writing row: %w", err)
	}
	return nil
}

// WriteLine appends a single free-form cell as its own row, for
// agents that call Actions.Log with plain text rather than
// structured key/value pairs.
func (s *Sink) WriteLine(line string) error {
	if err := s.w.Write([]string{line}); err != nil {
		return fmt.Errorf("matchlog: writing line: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file, matching the
// controller's "closes on round end" lifecycle.
func (s *Sink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("matchlog: flushing %s: %w", s.path, err)
	}
	return s.file.Close()
}
