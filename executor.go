package microshell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"microshell/job"
	"microshell/parser"
)

// Executor is the central algorithm of spec §4.5: it builds pipes,
// forks children, installs redirections, places the pipeline's
// children into a shared process group, transfers terminal ownership
// for foreground pipelines, and waits.
//
// Process spawning goes through syscall.ForkExec rather than a
// hand-rolled fork()+exec() pair: Go cannot safely run arbitrary code
// in a forked child before exec (only one OS thread survives a bare
// fork in a multi-threaded runtime), so the stdlib's own fork/exec
// primitive — the same one os/exec builds on — is the idiomatic stand
// in for the spec's child-side dup2/setpgid/open sequence. Its
// ProcAttr.Files wires pipe and redirection fds onto 0/1/2 pre-exec,
// and its SysProcAttr.{Setpgid,Pgid} performs the child's race-free
// setpgid(0, ...) call pre-exec; the Executor still issues the
// parent-side setpgid redundantly afterward, per spec §4.5/§9.
type Executor struct {
	Context *ShellContext
	Table   *job.Table
	Waiter  *job.Waiter
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewExecutor wires an Executor to the shell's shared job-control
// state.
func NewExecutor(ctx *ShellContext, table *job.Table, waiter *job.Waiter) *Executor {
	return &Executor{
		Context: ctx,
		Table:   table,
		Waiter:  waiter,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

type pipePair struct {
	r *os.File
	w *os.File
}

// Run launches pipeline, which must have at least one Command.
func (e *Executor) Run(p *parser.Pipeline, line string) {
	n := len(p.Commands)

	pipes := make([]pipePair, n-1)
	for i := range pipes {
		r, w, err := os.Pipe()
		if err != nil {
			for j := 0; j < i; j++ {
				pipes[j].r.Close()
				pipes[j].w.Close()
			}
			fmt.Fprintf(e.Stderr, "pipe: %v\n", err)
			return
		}
		pipes[i] = pipePair{r, w}
	}

	var (
		pids      []int
		leaderPid int
	)
	for i, cmd := range p.Commands {
		stdin, closeIn, err := resolveStdin(cmd, i, pipes)
		if err != nil {
			fmt.Fprintf(e.Stderr, "%v\n", err)
			continue
		}
		stdout, closeOut, err := resolveStdout(cmd, i, n, pipes)
		if err != nil {
			fmt.Fprintf(e.Stderr, "%v\n", err)
			if closeIn {
				stdin.Close()
			}
			continue
		}

		path, argv, err := resolveProgram(cmd)
		if err != nil {
			fmt.Fprintf(e.Stderr, "%s: %v\n", cmd.Args[0], err)
			if closeIn {
				stdin.Close()
			}
			if closeOut {
				stdout.Close()
			}
			continue
		}

		sys := &syscall.SysProcAttr{Setpgid: true}
		if leaderPid != 0 {
			sys.Pgid = leaderPid
		}
		pid, err := syscall.ForkExec(path, argv, &syscall.ProcAttr{
			Env:   os.Environ(),
			Files: []uintptr{stdin.Fd(), stdout.Fd(), os.Stderr.Fd()},
			Sys:   sys,
		})
		if closeIn {
			stdin.Close()
		}
		if closeOut {
			stdout.Close()
		}
		if err != nil {
			// A fork failure (as opposed to a missing-executable or
			// open-failure, handled above by skipping just that stage)
			// aborts the whole pipeline per spec §4.5 step 2.
			fmt.Fprintf(e.Stderr, "fork: %v\n", err)
			break
		}

		if leaderPid == 0 {
			leaderPid = pid
		}
		// Redundant with the child's own pre-exec setpgid (issued via
		// SysProcAttr above): closes the race between fork returning
		// in each process and execve running in the child.
		_ = unix.Setpgid(pid, leaderPid)
		pids = append(pids, pid)
	}

	for _, pp := range pipes {
		pp.r.Close()
		pp.w.Close()
	}

	if len(pids) == 0 {
		return
	}

	if p.Background {
		e.runBackground(p, line, leaderPid, pids)
		return
	}
	e.runForeground(leaderPid, pids)
}

func (e *Executor) runForeground(pgid int, pids []int) {
	chans := make([]<-chan unix.WaitStatus, len(pids))
	for i, pid := range pids {
		chans[i] = e.Waiter.Register(pid)
	}
	e.Context.HandToForeground(pgid)
	for _, ch := range chans {
		<-ch
	}
	e.Context.ReclaimForeground()
}

func (e *Executor) runBackground(p *parser.Pipeline, line string, pgid int, pids []int) {
	j := e.Table.Insert(pgid, pids, line, false)
	fmt.Fprintf(e.Stdout, "[%d] %d\n", j.ID, j.Pid)

	chans := make([]<-chan unix.WaitStatus, len(pids))
	for i, pid := range pids {
		chans[i] = e.Waiter.Register(pid)
	}
	// The Job Table itself is updated by the Reaper as each pid is
	// reaped; this goroutine only owns printing the completion notice
	// once every pid belonging to the job has exited.
	go func() {
		for _, ch := range chans {
			<-ch
		}
		fmt.Fprintf(e.Stdout, "\n[%d]+ Done\t%s\n", j.ID, j.CmdLine)
	}()
}

// resolveStdin picks the fd that becomes command i's stdin: an
// explicit '<' target wins over the pipe from the previous stage,
// which wins over the shell's own stdin for the first command.
// closeAfter reports whether the caller owns the returned file and
// must close it once ForkExec has consumed it.
func resolveStdin(cmd *parser.Command, i int, pipes []pipePair) (f *os.File, closeAfter bool, err error) {
	if cmd.InFile != "" {
		f, err := os.Open(cmd.InFile)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", cmd.InFile, err)
		}
		return f, true, nil
	}
	if i > 0 {
		return pipes[i-1].r, false, nil
	}
	return os.Stdin, false, nil
}

// resolveStdout picks the fd that becomes command i's stdout,
// mirroring resolveStdin's precedence for '>'/'>>'.
func resolveStdout(cmd *parser.Command, i, n int, pipes []pipePair) (f *os.File, closeAfter bool, err error) {
	if cmd.OutFile != "" {
		flags := os.O_WRONLY | os.O_CREATE
		if cmd.Append {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(cmd.OutFile, flags, 0644)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", cmd.OutFile, err)
		}
		return f, true, nil
	}
	if i < n-1 {
		return pipes[i].w, false, nil
	}
	return os.Stdout, false, nil
}

// resolveProgram decides what ForkExec should actually run for cmd:
// the real executable on $PATH, or — when cmd names a builtin — a
// re-exec of this same binary in a hidden mode that just runs the
// builtin and exits, since a builtin appearing in a pipeline, under
// redirection, or backgrounded must run in a forked child rather than
// mutate the live shell process (spec §4.4).
func resolveProgram(cmd *parser.Command) (path string, argv []string, err error) {
	if _, ok := builtins[cmd.Args[0]]; ok {
		self, err := os.Executable()
		if err != nil {
			return "", nil, err
		}
		argv = append([]string{self, reexecSentinel}, cmd.Args...)
		return self, argv, nil
	}
	path, err = exec.LookPath(cmd.Args[0])
	if err != nil {
		return "", nil, fmt.Errorf("command not found")
	}
	return path, cmd.Args, nil
}
