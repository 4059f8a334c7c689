package job

import "testing"

func TestInsertAssignsMonotonicIDs(t *testing.T) {
	tbl := NewTable()
	j1 := tbl.Insert(100, []int{100}, "sleep 1", false)
	j2 := tbl.Insert(200, []int{200}, "sleep 2", false)
	if j1.ID != 1 || j2.ID != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", j1.ID, j2.ID)
	}
}

func TestMarkReapedSingleJob(t *testing.T) {
	tbl := NewTable()
	j := tbl.Insert(100, []int{100}, "sleep 1", false)
	if j.State() != Running {
		t.Fatal("expected Running immediately after insert")
	}
	tbl.MarkReaped(100)
	if j.State() != Done {
		t.Fatal("expected Done after reaping its only pid")
	}
}

func TestMarkReapedWaitsForAllPids(t *testing.T) {
	tbl := NewTable()
	j := tbl.Insert(100, []int{100, 101, 102}, "a | b | c", false)
	tbl.MarkReaped(100)
	if j.State() != Running {
		t.Fatal("job should still be Running with pids outstanding")
	}
	tbl.MarkReaped(101)
	tbl.MarkReaped(102)
	if j.State() != Done {
		t.Fatal("job should be Done once every pid is reaped")
	}
}

func TestMarkReapedNeverGoesBackToRunning(t *testing.T) {
	tbl := NewTable()
	j := tbl.Insert(100, []int{100}, "sleep 1", false)
	tbl.MarkReaped(100)
	tbl.MarkReaped(100) // duplicate delivery should not panic or regress
	if j.State() != Done {
		t.Fatal("job should remain Done")
	}
}

func TestListIsInsertionOrdered(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(1, []int{1}, "a", false)
	tbl.Insert(2, []int{2}, "b", false)
	tbl.Insert(3, []int{3}, "c", false)
	list := tbl.List()
	for i, want := range []int{1, 2, 3} {
		if list[i].ID != want {
			t.Errorf("position %d: id %d, want %d", i, list[i].ID, want)
		}
	}
}

func TestUnknownPidReapIsNoop(t *testing.T) {
	tbl := NewTable()
	tbl.MarkReaped(9999) // must not panic
}
