package roster

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// DateLayout is the canonical due-date form.
const DateLayout = "2006-01-02"

type (
	// Student is one roster row. ID is 1-based and follows the input row order.
	// A Student owns its Tasks exclusively; nothing is shared across students.
	Student struct {
		ID    int
		Name  string
		Email string
		Tasks []Task
	}

	Task struct {
		Name string
		// DueDate is parsed once at the load boundary; it is invalid when the
		// raw cell could not be parsed, in which case RawDue holds the
		// offending value for warnings.
		DueDate   null.Time
		RawDue    string
		Submitted bool
	}
)

// NewTask builds a Task from a raw due-date cell. Any trailing time-of-day
// component is discarded before parsing.
func NewTask(name, rawDue string) Task {
	due := strings.SplitN(strings.TrimSpace(rawDue), " ", 2)[0]
	t := Task{Name: name, RawDue: due}
	if d, err := time.Parse(DateLayout, due); err == nil {
		t.DueDate = null.TimeFrom(d)
	}
	return t
}
