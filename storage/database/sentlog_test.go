package database

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSentLogRepository(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "sentlog.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewSentLogRepository(db)
	day := time.Date(2021, 3, 15, 9, 30, 0, 0, time.UTC)

	sent, err := repo.WasSent("ana@test.test", "Final Course Submission", day)
	if err != nil {
		t.Fatalf("WasSent() error = %v", err)
	}
	if sent {
		t.Error("WasSent() = true before any send was recorded")
	}

	if err := repo.MarkSent("ana@test.test", "Final Course Submission", day); err != nil {
		t.Fatalf("MarkSent() error = %v", err)
	}
	// recording the same key twice is a no-op, not an error
	if err := repo.MarkSent("ana@test.test", "Final Course Submission", day); err != nil {
		t.Fatalf("MarkSent() second call error = %v", err)
	}

	sent, err = repo.WasSent("ana@test.test", "Final Course Submission", day)
	if err != nil {
		t.Fatalf("WasSent() error = %v", err)
	}
	if !sent {
		t.Error("WasSent() = false after MarkSent()")
	}

	// time-of-day is irrelevant: keys are calendar days
	sent, err = repo.WasSent("ana@test.test", "Final Course Submission", day.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("WasSent() error = %v", err)
	}
	if !sent {
		t.Error("WasSent() = false for the same calendar day")
	}

	// the next day, another task and another student are distinct keys
	for _, args := range [][3]interface{}{
		{"ana@test.test", "Final Course Submission", day.AddDate(0, 0, 1)},
		{"ana@test.test", "Peer Review", day},
		{"ben@test.test", "Final Course Submission", day},
	} {
		sent, err := repo.WasSent(args[0].(string), args[1].(string), args[2].(time.Time))
		if err != nil {
			t.Fatalf("WasSent() error = %v", err)
		}
		if sent {
			t.Errorf("WasSent(%v) = true, want false", args)
		}
	}
}
