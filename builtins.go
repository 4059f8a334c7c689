package microshell

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// BuiltinKind tags each in-process command (spec §4.4's "fixed table
// of in-process commands"), per the REDESIGN FLAGS guidance to
// dispatch on a tagged variant rather than string-match every call
// site.
type BuiltinKind int

const (
	BuiltinCD BuiltinKind = iota
	BuiltinExit
	BuiltinJobs
	BuiltinFg
	BuiltinHelp
	BuiltinPwd
	BuiltinEcho
	BuiltinEnv
	BuiltinExport
	BuiltinAlias
	BuiltinUnalias
	BuiltinHistory
)

var builtins = map[string]BuiltinKind{
	"cd":      BuiltinCD,
	"exit":    BuiltinExit,
	"jobs":    BuiltinJobs,
	"fg":      BuiltinFg,
	"help":    BuiltinHelp,
	"pwd":     BuiltinPwd,
	"echo":    BuiltinEcho,
	"env":     BuiltinEnv,
	"export":  BuiltinExport,
	"alias":   BuiltinAlias,
	"unalias": BuiltinUnalias,
	"history": BuiltinHistory,
}

var previousDir string

// RunBuiltin dispatches a builtin invocation against sh's state.
// args[0] is the builtin's own name. It returns the exit status the
// shell should report for the command.
func (sh *Shell) RunBuiltin(kind BuiltinKind, args []string, stdout, stderr io.Writer) int {
	switch kind {
	case BuiltinCD:
		return runCD(args, stderr)
	case BuiltinExit:
		return runExit(args)
	case BuiltinJobs:
		return sh.runJobs(stdout)
	case BuiltinFg:
		return sh.runFg(args, stderr)
	case BuiltinHelp:
		return runHelp(stdout)
	case BuiltinPwd:
		return runPwd(stdout, stderr)
	case BuiltinEcho:
		return runEcho(args, stdout)
	case BuiltinEnv:
		return runEnv(stdout)
	case BuiltinExport:
		return runExport(args, stdout, stderr)
	case BuiltinAlias:
		return sh.runAlias(args, stdout, stderr)
	case BuiltinUnalias:
		return sh.runUnalias(args, stderr)
	case BuiltinHistory:
		return sh.runHistory(stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown builtin\n")
		return 1
	}
}

func runCD(args []string, stderr io.Writer) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "cd: %v\n", err)
		return 1
	}

	target := ""
	if len(args) > 1 {
		target = args[1]
	}
	switch target {
	case "":
		target = os.Getenv("HOME")
	case "-":
		if previousDir == "" {
			fmt.Fprintln(stderr, "cd: no previous directory")
			return 1
		}
		target = previousDir
	}

	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(stderr, "cd: %v\n", err)
		return 1
	}
	previousDir = cwd
	os.Setenv("OLDPWD", cwd)
	if newCwd, err := os.Getwd(); err == nil {
		os.Setenv("PWD", newCwd)
	}
	return 0
}

// runExit terminates the current process. When the command is the
// sole, unpiped, unredirected, foreground command of its line, that
// process is the shell itself (spec §7's "Exit code" row); when it
// reaches this function via the self re-exec path instead, it only
// terminates the forked child, never the parent shell, satisfying
// spec §4.4's invariant that a builtin inside a pipeline/redirection/
// background slot must not mutate the live shell's state.
func runExit(args []string) int {
	code := 0
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			code = n
		}
	}
	os.Exit(code)
	return code
}

func (sh *Shell) runJobs(stdout io.Writer) int {
	for _, j := range sh.Jobs.List() {
		fgbg := "bg"
		if j.Foreground {
			fgbg = "fg"
		}
		fmt.Fprintf(stdout, "[%d] pid=%d %s %s %s\n", j.ID, j.Pid, j.State(), fgbg, j.CmdLine)
	}
	return 0
}

func (sh *Shell) runFg(args []string, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(stderr, "usage: fg <job_id>")
		return 1
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintln(stderr, "fg: invalid job id")
		return 1
	}
	j, ok := sh.Jobs.Get(id)
	if !ok {
		fmt.Fprintf(stderr, "fg: no such job: %d\n", id)
		return 1
	}
	// SIGCONT-based resume of a stopped job is an explicit Non-goal
	// (spec §1); fg here only re-parents terminal ownership to an
	// already-running background job and waits for it, which is the
	// part of "bring to foreground" the spec's job model supports.
	sh.Jobs.SetForeground(j, true)
	sh.Context.HandToForeground(j.Pgid)
	for _, pid := range j.Pids() {
		<-sh.Waiter.Register(pid)
	}
	sh.Context.ReclaimForeground()
	return 0
}

// helpOrder lists builtin names in the fixed order help prints them,
// core five first (matching sfsh.cpp's help text), then the
// supplemented set. A static summary needs a static order: iterating
// the builtins map directly would make the output vary run to run.
var helpOrder = []string{
	"cd", "exit", "jobs", "fg", "help",
	"pwd", "echo", "env", "export", "alias", "unalias", "history",
}

func runHelp(stdout io.Writer) int {
	fmt.Fprintf(stdout, "fsh: builtins: %s\n", strings.Join(helpOrder, ", "))
	fmt.Fprintln(stdout, "supports pipes |, redir < > >>, background &")
	return 0
}

func runPwd(stdout, stderr io.Writer) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "pwd: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, cwd)
	return 0
}

func runEcho(args []string, stdout io.Writer) int {
	fmt.Fprintln(stdout, strings.Join(args[1:], " "))
	return 0
}

func runEnv(stdout io.Writer) int {
	for _, kv := range os.Environ() {
		fmt.Fprintln(stdout, kv)
	}
	return 0
}

func runExport(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(stderr, "usage: export NAME=VALUE")
		return 1
	}
	name, value, ok := strings.Cut(args[1], "=")
	if !ok {
		fmt.Fprintln(stderr, "usage: export NAME=VALUE")
		return 1
	}
	os.Setenv(name, value)
	fmt.Fprintf(stdout, "export %s=%s\n", name, value)
	return 0
}

func (sh *Shell) runAlias(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		for _, a := range sh.Aliases.List() {
			fmt.Fprintln(stdout, a)
		}
		return 0
	}
	decl := strings.Join(args[1:], " ")
	name, value, ok := strings.Cut(decl, "=")
	if !ok {
		fmt.Fprintln(stderr, "usage: alias name=value")
		return 1
	}
	sh.Aliases.Set(strings.TrimSpace(name), strings.Trim(strings.TrimSpace(value), "'\""))
	return 0
}

func (sh *Shell) runUnalias(args []string, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(stderr, "usage: unalias name")
		return 1
	}
	sh.Aliases.Remove(args[1])
	return 0
}

func (sh *Shell) runHistory(stdout, stderr io.Writer) int {
	if sh.History == nil {
		fmt.Fprintln(stderr, "history: no history store open")
		return 1
	}
	records, err := sh.History.Dump()
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return 1
	}
	for _, r := range records {
		fmt.Fprintf(stdout, "%s  %s\n", r.When.Format("2006-01-02 15:04:05"), r.Line)
	}
	return 0
}
