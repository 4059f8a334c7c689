package history

import (
	"path/filepath"
	"testing"
)

func TestStoreAppendAndDump(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fsh_history_test.sqlite")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Append("echo hi", 0, "session-1"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append("false", 1, "session-1"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	records, err := s.Dump()
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Line != "echo hi" || records[0].ExitCode != 0 {
		t.Errorf("record[0] = %+v", records[0])
	}
	if records[1].Line != "false" || records[1].ExitCode != 1 {
		t.Errorf("record[1] = %+v", records[1])
	}
	if records[0].SessionID != "session-1" {
		t.Errorf("session id = %q", records[0].SessionID)
	}
}

func TestStoreReopenPreservesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fsh_history_reopen.sqlite")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Append("ls", 0, "s1"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	s.Close()

	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	records, err := s2.Dump()
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if len(records) != 1 || records[0].Line != "ls" {
		t.Fatalf("records after reopen = %+v", records)
	}
}
