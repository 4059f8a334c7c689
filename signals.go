package microshell

import (
	"os/signal"

	"golang.org/x/sys/unix"
)

// ignoreTTOUAndTTIN installs SIG_IGN for SIGTTOU/SIGTTIN around a
// single tcsetpgrp call (spec §4.5, §9) and returns a closure that
// restores the previous disposition. The ignore is strictly
// transient: by the time the Executor forks the next child, the
// disposition is back to default, so children never inherit an
// ignored SIGTTOU/SIGTTIN the way they would if the shell ignored
// these signals for its entire lifetime.
func ignoreTTOUAndTTIN() func() {
	signal.Ignore(unix.SIGTTOU, unix.SIGTTIN)
	return func() {
		signal.Reset(unix.SIGTTOU, unix.SIGTTIN)
	}
}
