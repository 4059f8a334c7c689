package job

import "golang.org/x/sys/unix"

// Waiter hands a reaped child's wait status to whoever is blocked
// waiting for that specific pid, closing the race between fork()
// returning a pid in the caller and the reaper reaping it before the
// caller has had a chance to register interest: a status that arrives
// before Register is called is held in pending until it is claimed.
type Waiter struct {
	registerCh chan registerReq
	deliverCh  chan deliverReq
}

type registerReq struct {
	pid   int
	reply chan<- chan unix.WaitStatus
}

type deliverReq struct {
	pid    int
	status unix.WaitStatus
}

// NewWaiter starts the Waiter's internal dispatch loop and returns a
// handle to it. The loop is single-threaded by construction (all
// state lives in one goroutine's locals), so no mutex is needed.
func NewWaiter() *Waiter {
	w := &Waiter{
		registerCh: make(chan registerReq),
		deliverCh:  make(chan deliverReq),
	}
	go w.run()
	return w
}

func (w *Waiter) run() {
	pending := make(map[int]unix.WaitStatus)
	waiting := make(map[int][]chan unix.WaitStatus)

	for {
		select {
		case req := <-w.registerCh:
			if status, ok := pending[req.pid]; ok {
				delete(pending, req.pid)
				ch := make(chan unix.WaitStatus, 1)
				ch <- status
				req.reply <- ch
				continue
			}
			ch := make(chan unix.WaitStatus, 1)
			waiting[req.pid] = append(waiting[req.pid], ch)
			req.reply <- ch
		case req := <-w.deliverCh:
			if chans, ok := waiting[req.pid]; ok {
				delete(waiting, req.pid)
				for _, ch := range chans {
					ch <- req.status
				}
				continue
			}
			pending[req.pid] = req.status
		}
	}
}

// Register returns a channel that receives exactly one wait status for
// pid once the reaper observes it exit.
func (w *Waiter) Register(pid int) <-chan unix.WaitStatus {
	reply := make(chan chan unix.WaitStatus)
	w.registerCh <- registerReq{pid: pid, reply: reply}
	return <-reply
}

// Deliver is called by the reaper for every pid it reaps.
func (w *Waiter) Deliver(pid int, status unix.WaitStatus) {
	w.deliverCh <- deliverReq{pid: pid, status: status}
}
