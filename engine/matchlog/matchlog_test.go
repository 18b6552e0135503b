package matchlog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_RotatesByNumericSuffixWhenNameTaken(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir, "round")
	if err != nil {
		t.Fatalf("Open 1: %v", err)
	}
	if s1.Path() != filepath.Join(dir, "round.csv") {
		t.Fatalf("first path = %s, want round.csv", s1.Path())
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("close 1: %v", err)
	}

	s2, err := Open(dir, "round")
	if err != nil {
		t.Fatalf("Open 2: %v", err)
	}
	if s2.Path() != filepath.Join(dir, "round-1.csv") {
		t.Fatalf("second path = %s, want round-1.csv", s2.Path())
	}
	if err := s2.Close(); err != nil {
		t.Fatalf("close 2: %v", err)
	}

	s3, err := Open(dir, "round")
	if err != nil {
		t.Fatalf("Open 3: %v", err)
	}
	if s3.Path() != filepath.Join(dir, "round-2.csv") {
		t.Fatalf("third path = %s, want round-2.csv", s3.Path())
	}
	s3.Close()
}

func TestWriteRow_HeaderThenPaddedRows(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "agent0")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	keys := []string{"tick", "action", "gold"}
	if err := s.WriteRow(keys, map[string]string{"tick": "1", "action": "gather", "gold": "50"}); err != nil {
		t.Fatalf("WriteRow 1: %v", err)
	}
	if err := s.WriteRow(keys, map[string]string{"tick": "2", "action": "move"}); err != nil {
		t.Fatalf("WriteRow 2: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "tick,action,gold\n1,gather,50\n2,move,\n"
	if string(data) != want {
		t.Fatalf("content = %q, want %q", string(data), want)
	}
}
