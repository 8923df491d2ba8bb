package roster

import "time"

// SentLog is a durable record of reminders already delivered, keyed by
// (student email, task, day). It makes reminders idempotent across runs;
// without one, a student overdue on day N is reminded again on day N+1.
// Implementations must tolerate concurrent-free, single-writer batch use only.
type SentLog interface {
	WasSent(email, task string, day time.Time) (bool, error)
	MarkSent(email, task string, day time.Time) error
}
