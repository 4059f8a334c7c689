package microshell

import (
	"bytes"
	"strings"
	"testing"
)

func TestDispatchRunsInProcessBuiltin(t *testing.T) {
	sh := newTestShell()
	status := sh.Dispatch("echo hi there")
	if status != 0 {
		t.Fatalf("status = %d", status)
	}
	if got := sh.Stdout.(*bytes.Buffer).String(); got != "hi there\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestDispatchReportsParseError(t *testing.T) {
	sh := newTestShell()
	status := sh.Dispatch("| cat")
	if status == 0 {
		t.Fatal("expected non-zero status on parse error")
	}
	if !strings.Contains(sh.Stderr.(*bytes.Buffer).String(), "fsh:") {
		t.Fatalf("stderr = %q", sh.Stderr.(*bytes.Buffer).String())
	}
}

func TestDispatchEmptyLineIsNoop(t *testing.T) {
	sh := newTestShell()
	if status := sh.Dispatch(""); status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
}

func TestDispatchAliasExpansionBeforeBuiltin(t *testing.T) {
	sh := newTestShell()
	sh.Aliases.Set("greet", "echo hello")
	if status := sh.Dispatch("greet"); status != 0 {
		t.Fatalf("status = %d", status)
	}
	if got := sh.Stdout.(*bytes.Buffer).String(); got != "hello\n" {
		t.Fatalf("stdout = %q", got)
	}
}
