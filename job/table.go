// Package job implements the Job Table and the asynchronous Child
// Reaper described in spec §3 and §4.6. The table is the only state
// shared between the REPL's main thread and the reaper; per the
// DESIGN NOTES redesign flag it is built as a deferred-update log
// (reaper enqueues pid-done records, a Waiter hands them to whoever
// is blocked on that pid) rather than touched directly from signal
// context, which sidesteps async-signal-safety concerns entirely.
package job

import "sync"

// State is a Job's run state.
type State int

const (
	Running State = iota
	Done
)

func (s State) String() string {
	if s == Done {
		return "Done"
	}
	return "Running"
}

// Job is a user-visible handle to a launched pipeline.
type Job struct {
	ID         int
	Pgid       int
	Pid        int // the first child's pid
	CmdLine    string
	Foreground bool

	mu      sync.Mutex
	state   State
	pending map[int]bool // pids not yet reaped
}

// State returns the Job's current run state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Pids returns every pid not yet reaped, belonging to the Job's
// pipeline. Used by fg to wait on a backgrounded job brought forward.
func (j *Job) Pids() []int {
	j.mu.Lock()
	defer j.mu.Unlock()
	pids := make([]int, 0, len(j.pending))
	for pid := range j.pending {
		pids = append(pids, pid)
	}
	return pids
}

// Table is the ordered Job Table: insert-at-end, lookup-by-id, and
// in-place state mutation, safe for concurrent use by the REPL loop
// and the reaper.
type Table struct {
	mu     sync.Mutex
	byID   map[int]*Job
	order  []*Job
	byPid  map[int]*Job
	nextID int
}

// NewTable returns an empty Job Table. Job ids start at 1 and are
// monotonically non-decreasing for the table's lifetime.
func NewTable() *Table {
	return &Table{
		byID:   make(map[int]*Job),
		byPid:  make(map[int]*Job),
		nextID: 1,
	}
}

// Insert publishes a fully-constructed Job. pids are every child pid
// belonging to the pipeline; the Job transitions to Done only once
// every one of them has been reaped. Insert is the one place a new
// Job becomes visible, and it happens only after the Job is complete,
// per the "no partially constructed entries" shared-resource policy.
func (t *Table) Insert(pgid int, pids []int, cmdLine string, foreground bool) *Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	j := &Job{
		ID:         t.nextID,
		Pgid:       pgid,
		Pid:        pids[0],
		CmdLine:    cmdLine,
		Foreground: foreground,
		state:      Running,
		pending:    make(map[int]bool, len(pids)),
	}
	t.nextID++
	for _, pid := range pids {
		j.pending[pid] = true
		t.byPid[pid] = j
	}
	t.byID[j.ID] = j
	t.order = append(t.order, j)
	return j
}

// Get looks up a Job by id.
func (t *Table) Get(id int) (*Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.byID[id]
	return j, ok
}

// List returns every Job in insertion order.
func (t *Table) List() []*Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Job, len(t.order))
	copy(out, t.order)
	return out
}

// MarkReaped records that pid has exited. Once every pid belonging to
// its Job has been reaped, the Job transitions Running -> Done. A Job
// is never transitioned back to Running; reaping a pid that belongs
// to no known Job (e.g. a foreground pipeline the caller is tracking
// directly rather than through the table) is a silent no-op.
func (t *Table) MarkReaped(pid int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	j, ok := t.byPid[pid]
	if !ok {
		return
	}
	delete(t.byPid, pid)

	j.mu.Lock()
	delete(j.pending, pid)
	allDone := len(j.pending) == 0
	if allDone {
		j.state = Done
	}
	j.mu.Unlock()
}

// SetForeground flips a Job's foreground flag, used by the fg builtin.
func (t *Table) SetForeground(j *Job, fg bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Foreground = fg
}
