package session

import "testing"

func TestNewAssignsUniqueIDs(t *testing.T) {
	a := New()
	b := New()
	if a.ID == "" {
		t.Fatal("empty session ID")
	}
	if a.ID == b.ID {
		t.Fatal("two sessions got the same ID")
	}
	if a.StartTime.IsZero() {
		t.Fatal("zero StartTime")
	}
}
