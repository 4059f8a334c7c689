package microshell

import (
	"fmt"
	"os"
)

// RunReexecBuiltin is the child-side half of the self re-exec pattern
// used by resolveProgram: when a builtin is part of a pipeline, under
// redirection, or backgrounded, the Executor cannot run it in-process
// (that would mutate the live shell) and cannot fork-without-exec
// (the Go runtime gives no safe window for arbitrary code between
// fork and exec), so it re-invokes this same binary with
// reexecSentinel as its first argument. main() checks for that
// sentinel before starting the REPL and calls this instead.
//
// args is the builtin's own argv (args[0] is the builtin name, with
// fds 0/1/2 already wired by the Executor before the re-exec). Since
// this runs in a freshly exec'd, standalone process, it gets a fresh
// Shell of its own — any cd/export/alias mutation it performs ends
// with the process, which is exactly the isolation spec §4.4 asks
// for when a builtin is not the sole foreground command of its line.
func RunReexecBuiltin(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "fsh: reexec with no builtin name")
		return 1
	}
	kind, ok := builtins[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "fsh: %s: not a builtin\n", args[0])
		return 127
	}

	sh, err := New(int(os.Stdin.Fd()), false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsh: %v\n", err)
		return 1
	}
	defer sh.Close()

	return sh.RunBuiltin(kind, args, os.Stdout, os.Stderr)
}
