// Package session carries the per-run identity attached to every
// history record: who ran the shell, on what host, and under which
// UUID, so multiple concurrent shells writing to the same history
// store can be told apart later.
package session

import (
	"os"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        string
	StartTime time.Time
	UserName  string
	Hostname  string
}

// New starts a session with the current environment's identity.
func New() *Session {
	hostname, _ := os.Hostname()
	return &Session{
		ID:        uuid.New().String(),
		StartTime: time.Now(),
		UserName:  os.Getenv("USER"),
		Hostname:  hostname,
	}
}
