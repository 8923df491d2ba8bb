package inmem

import (
	"sync"
	"time"

	"github.com/trezcool/kumbusha/core/roster"
)

// sentLog keeps the sent-reminder record in memory; used by dry runs and tests.
type sentLog struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

var _ roster.SentLog = (*sentLog)(nil)

func NewSentLog() *sentLog {
	return &sentLog{seen: make(map[string]struct{})}
}

func key(email, task string, day time.Time) string {
	return email + "|" + task + "|" + day.Format(roster.DateLayout)
}

func (l *sentLog) WasSent(email, task string, day time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[key(email, task, day)]
	return ok, nil
}

func (l *sentLog) MarkSent(email, task string, day time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[key(email, task, day)] = struct{}{}
	return nil
}
