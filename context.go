package microshell

import (
	"log"

	"golang.org/x/sys/unix"
)

// ShellContext is the process-wide job-control state: the shell's own
// pgid, the controlling terminal fd, and whether job control applies
// at all. It is initialized once at startup and used around every
// foreground pipeline to hand the terminal over and reclaim it for the
// shell's pgid. It does not record which pgid owned the terminal
// before the shell claimed it, and nothing hands the terminal back
// when the shell exits.
type ShellContext struct {
	Pgid        int
	TerminalFD  int
	Interactive bool // false when stdin is not a TTY: job control is skipped entirely
}

// NewShellContext sets the shell's own process group to its pid (so it
// is its own group leader) and, if terminalFD is a controlling
// terminal, claims the foreground. interactive should come from
// term.IsTerminal(terminalFD); when false, job-control calls below
// become no-ops, matching how the shell behaves when driven from a
// script or test harness instead of a live TTY.
func NewShellContext(terminalFD int, interactive bool) *ShellContext {
	pgid := unix.Getpid()
	sc := &ShellContext{Pgid: pgid, TerminalFD: terminalFD, Interactive: interactive}
	if !interactive {
		return sc
	}
	if err := unix.Setpgid(0, pgid); err != nil {
		log.Printf("shell: setpgid(self): %v", err)
	}
	sc.claimTerminal(pgid)
	return sc
}

// claimTerminal calls tcsetpgrp, ignoring SIGTTOU around the call so
// the shell cannot stop itself doing so (spec §5, §9: "a hard
// requirement, not a convenience"). A failure (e.g. no controlling
// terminal) is tolerated silently per spec §7's "Terminal" error row.
func (sc *ShellContext) claimTerminal(pgid int) {
	if !sc.Interactive {
		return
	}
	restore := ignoreTTOUAndTTIN()
	defer restore()
	_ = unix.IoctlSetPointerInt(sc.TerminalFD, unix.TIOCSPGRP, pgid)
}

// HandToForeground transfers terminal ownership to pgid, used when
// launching a foreground pipeline.
func (sc *ShellContext) HandToForeground(pgid int) {
	if !sc.Interactive {
		return
	}
	sc.claimTerminal(pgid)
}

// ReclaimForeground hands the terminal back to the shell's own
// process group once a foreground pipeline has finished.
func (sc *ShellContext) ReclaimForeground() {
	if !sc.Interactive {
		return
	}
	sc.claimTerminal(sc.Pgid)
}
