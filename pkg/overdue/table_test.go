package overdue

import (
	"testing"
	"time"
)

func TestTableTrackAndSweep(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	table, err := NewTable(dir)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	table.Track("t1", "e1", "first", now.Add(2*time.Hour), now)
	table.Track("t2", "e2", "second", now.Add(time.Hour), now)
	table.Track("t3", "e3", "already late", now.Add(-time.Hour), now)
	if len(table.Entries) != 2 {
		t.Fatalf("Expected 2 tracked entries, got %d", len(table.Entries))
	}
	if err := table.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewTable(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Entries) != 2 {
		t.Fatalf("Expected 2 entries after reload, got %d", len(reloaded.Entries))
	}

	// exactly due is not overdue
	if swept := reloaded.Sweep(now.Add(time.Hour)); len(swept) != 0 {
		t.Errorf("Expected nothing swept at the due instant, got %v", swept)
	}

	swept := reloaded.Sweep(now.Add(3 * time.Hour))
	if len(swept) != 2 {
		t.Fatalf("Expected 2 swept entries, got %d", len(swept))
	}
	if swept[0].TaskID != "t2" || swept[1].TaskID != "t1" {
		t.Errorf("Expected oldest first, got %s then %s", swept[0].TaskID, swept[1].TaskID)
	}
	if len(reloaded.Entries) != 0 {
		t.Errorf("Expected table to be empty after sweep")
	}
}
