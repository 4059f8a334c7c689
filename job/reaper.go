package job

import (
	"log"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Reaper is the asynchronous handler of spec §4.6: triggered by the
// OS's child-termination notification, it non-blockingly reaps every
// reapable child, updates the Job Table, and hands the exit status to
// anyone (the Executor) blocked on that specific pid via a Waiter.
//
// A real signal handler would need to be async-signal-safe; this one
// runs as an ordinary goroutine woken by a channel from os/signal,
// which already does the signal-safe handoff for us, so errno
// preservation and reentrancy are non-issues here the way they would
// be in a C-style SIGCHLD handler.
type Reaper struct {
	table  *Table
	waiter *Waiter
	sigs   chan os.Signal
	done   chan struct{}
}

// NewReaper starts listening for SIGCHLD immediately. Call Stop to
// release the signal registration.
func NewReaper(table *Table, waiter *Waiter) *Reaper {
	r := &Reaper{
		table:  table,
		waiter: waiter,
		sigs:   make(chan os.Signal, 8),
		done:   make(chan struct{}),
	}
	signal.Notify(r.sigs, unix.SIGCHLD)
	go r.loop()
	return r
}

func (r *Reaper) loop() {
	for {
		select {
		case <-r.sigs:
			r.reapAll()
		case <-r.done:
			return
		}
	}
}

// reapAll drains every currently-reapable child without blocking.
func (r *Reaper) reapAll() {
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		if err == unix.EINTR {
			continue
		}
		if pid <= 0 || err != nil {
			if err != nil && err != unix.ECHILD {
				log.Printf("reaper: wait4: %v", err)
			}
			return
		}
		r.waiter.Deliver(pid, status)
		r.table.MarkReaped(pid)
	}
}

// Stop halts the reaper's signal loop. Already-spawned goroutines
// waiting on a Waiter channel are unaffected.
func (r *Reaper) Stop() {
	signal.Stop(r.sigs)
	close(r.done)
}
