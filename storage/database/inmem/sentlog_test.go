package inmem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSentLog(t *testing.T) {
	l := NewSentLog()
	day := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)

	sent, err := l.WasSent("ana@test.test", "Final", day)
	assert.NoError(t, err)
	assert.False(t, sent)

	assert.NoError(t, l.MarkSent("ana@test.test", "Final", day))

	sent, err = l.WasSent("ana@test.test", "Final", day)
	assert.NoError(t, err)
	assert.True(t, sent)

	sent, err = l.WasSent("ana@test.test", "Final", day.AddDate(0, 0, 1))
	assert.NoError(t, err)
	assert.False(t, sent)
}
