package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAliasesParsesNameValueLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".fshrc")
	content := "# comment\n\nll=ls -la\n  gs = git status  \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}
	if aliases["ll"] != "ls -la" {
		t.Errorf("ll = %q", aliases["ll"])
	}
	if aliases["gs"] != "git status" {
		t.Errorf("gs = %q", aliases["gs"])
	}
	if len(aliases) != 2 {
		t.Errorf("got %d aliases, want 2: %v", len(aliases), aliases)
	}
}

func TestLoadAliasesMissingFileIsEmptyNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist")
	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}
	if len(aliases) != 0 {
		t.Errorf("got %d aliases, want 0", len(aliases))
	}
}

func TestLoadAliasesMalformedLineErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".fshrc")
	if err := os.WriteFile(path, []byte("not-a-valid-line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAliases(path); err == nil {
		t.Fatal("expected error for malformed line")
	}
}
