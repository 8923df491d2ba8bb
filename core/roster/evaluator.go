package roster

import (
	"fmt"
	"time"
)

// Status is the deadline classification of a Task for a given day.
// It is derived on every run and never persisted.
type Status int

const (
	// StatusNone means the task needs no reminder: submitted, or not due yet.
	StatusNone Status = iota
	StatusDueToday
	StatusOverdue
)

// Label returns the display label shown in reminder emails. Overdue labels
// retain the original due-date string.
func (s Status) Label(rawDue string) string {
	switch s {
	case StatusDueToday:
		return "FINAL DEADLINE TODAY!"
	case StatusOverdue:
		return fmt.Sprintf("DEADLINE EXPIRED (was due: %s)", rawDue)
	}
	return ""
}

// BadDateError reports a due-date value that could not be parsed. It excludes
// the task from the current run; it is never fatal.
type BadDateError struct {
	Raw string
}

func (e *BadDateError) Error() string {
	return fmt.Sprintf("invalid due date %q: want %s", e.Raw, DateLayout)
}

// Classify maps a task and a reference day to a deadline status.
// Submitted tasks and tasks due strictly after today yield StatusNone.
// A task whose due date could not be parsed yields StatusNone and a
// *BadDateError. Classify is pure: no I/O, same inputs, same outcome.
func Classify(t Task, today time.Time) (Status, error) {
	if t.Submitted {
		return StatusNone, nil
	}
	if !t.DueDate.Valid {
		return StatusNone, &BadDateError{Raw: t.RawDue}
	}

	due := dateOf(t.DueDate.Time)
	switch day := dateOf(today); {
	case due.Equal(day):
		return StatusDueToday, nil
	case due.Before(day):
		return StatusOverdue, nil
	}
	return StatusNone, nil
}

// dateOf drops the time-of-day component; deadlines compare as calendar days.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
