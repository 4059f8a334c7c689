package microshell

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"microshell/alias"
	"microshell/config"
	"microshell/history"
	"microshell/job"
	"microshell/parser"
	"microshell/session"
)

// reexecSentinel, when present as os.Args[1], tells main to run a
// single builtin standalone and exit rather than start the REPL; see
// reexec.go.
const reexecSentinel = "__microshell_reexec_builtin__"

// ReexecSentinel is the argv[1] main checks for before starting the
// REPL, to decide whether this process invocation is really the
// Executor's self re-exec of a builtin rather than a fresh shell.
func ReexecSentinel() string {
	return reexecSentinel
}

// Shell glues together every piece named in spec §2's component list:
// the Alias Table, the Job Table, the Child Reaper and its Waiter,
// the process/terminal Shell Context, and (per SPEC_FULL §11/§12) the
// sqlite History Store and the per-run Session.
type Shell struct {
	Context *ShellContext
	Aliases *alias.Table
	Jobs    *job.Table
	Waiter  *job.Waiter
	Reaper  *job.Reaper
	History *history.Store
	Session *session.Session

	exec *Executor

	Stdout io.Writer
	Stderr io.Writer
}

// New builds a Shell wired to the controlling terminal at terminalFD.
// interactive should come from term.IsTerminal(terminalFD).
func New(terminalFD int, interactive bool) (*Shell, error) {
	ctx := NewShellContext(terminalFD, interactive)
	aliases := alias.NewTable()
	loaded, err := config.LoadAliases("")
	if err != nil {
		log.Printf("shell: loading ~/.fshrc: %v", err)
	}
	for name, value := range loaded {
		aliases.Set(name, value)
	}

	jobs := job.NewTable()
	waiter := job.NewWaiter()
	reaper := job.NewReaper(jobs, waiter)

	hist, err := history.Open("")
	if err != nil {
		log.Printf("shell: opening history store: %v", err)
	}

	sh := &Shell{
		Context: ctx,
		Aliases: aliases,
		Jobs:    jobs,
		Waiter:  waiter,
		Reaper:  reaper,
		History: hist,
		Session: session.New(),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	sh.exec = NewExecutor(ctx, jobs, waiter)
	return sh, nil
}

// Close releases resources opened by New.
func (sh *Shell) Close() {
	sh.Reaper.Stop()
	if sh.History != nil {
		sh.History.Close()
	}
}

// Dispatch runs one line of input: parse, then alias-resolve, then
// dispatch to builtin or Executor, and last record the line with its
// status in the history store. An empty or whitespace-only line is a
// no-op: it returns 0 and is not recorded. A parse error never reaches
// the Executor; control flows back to the REPL loop on either a parse
// failure or builtin/Executor completion.
func (sh *Shell) Dispatch(line string) int {
	if strings.TrimSpace(line) == "" {
		return 0
	}
	p, err := parser.Parse(line)
	status := 0
	if err != nil {
		fmt.Fprintf(sh.Stderr, "fsh: %v\n", err)
		status = 1
	} else if len(p.Commands) > 0 {
		if err := sh.Aliases.Expand(p); err != nil {
			fmt.Fprintf(sh.Stderr, "fsh: %v\n", err)
			status = 1
		} else {
			status = sh.run(p, line)
		}
	}

	if sh.History != nil {
		if err := sh.History.Append(line, status, sh.Session.ID); err != nil {
			log.Printf("shell: recording history: %v", err)
		}
	}
	return status
}

// run executes an already-parsed, already-alias-expanded pipeline.
// A sole, foreground, unredirected builtin runs in-process (spec
// §4.4); everything else — multi-command pipelines, redirected or
// backgrounded single commands, and non-builtin commands — goes
// through the Executor's fork/exec path.
func (sh *Shell) run(p *parser.Pipeline, line string) int {
	if len(p.Commands) == 1 && !p.Background {
		cmd := p.Commands[0]
		if cmd.InFile == "" && cmd.OutFile == "" {
			if kind, ok := builtins[cmd.Args[0]]; ok {
				return sh.RunBuiltin(kind, cmd.Args, sh.Stdout, sh.Stderr)
			}
		}
	}
	sh.exec.Run(p, line)
	return 0
}
