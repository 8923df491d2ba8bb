package roster

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/trezcool/kumbusha/core"
)

const reminderTemplate = "deadline-reminder"

type (
	// TaskStatus is one actionable (task, display label) pair of a reminder.
	TaskStatus struct {
		Name  string
		Label string
	}

	reminderData struct {
		Name  string
		Tasks []TaskStatus
	}

	// Dispatcher walks the roster, classifies every task against "today" and
	// sends one consolidated reminder per student with actionable tasks.
	// Delivery failures are escalated per student; data-quality warnings are
	// batched into a single admin alert at the end of the run.
	Dispatcher struct {
		conf    *core.Config
		mailSvc core.EmailService
		alerter core.Alerter
		logger  core.Logger
		sentLog SentLog // optional; nil disables cross-run dedup
	}
)

func NewDispatcher(conf *core.Config, mailSvc core.EmailService, alerter core.Alerter, logger core.Logger, sentLog SentLog) *Dispatcher {
	return &Dispatcher{
		conf:    conf,
		mailSvc: mailSvc,
		alerter: alerter,
		logger:  logger,
		sentLog: sentLog,
	}
}

// Run processes students in roster order, one blocking send per student with
// actionable tasks. A failed send never aborts the loop: it is logged,
// escalated once and the next student is processed.
func (d *Dispatcher) Run(students []Student, today time.Time) {
	if len(students) == 0 {
		d.logger.Info("no students to monitor; nothing to do")
		return
	}
	d.logger.Info(fmt.Sprintf("checking deadlines for %d students; today is %s", len(students), today.Format(DateLayout)))

	var warnings []string
	for _, std := range students {
		due := make([]TaskStatus, 0, len(std.Tasks))
		for _, t := range std.Tasks {
			status, err := Classify(t, today)
			if err != nil {
				if badDate, ok := err.(*BadDateError); ok {
					w := fmt.Sprintf("student %s, task %q: %v; task skipped", std.Name, t.Name, badDate)
					d.logger.Warn(w)
					warnings = append(warnings, w)
				}
				continue
			}
			if status == StatusNone {
				continue
			}
			if d.alreadySent(std.Email, t.Name, today) {
				continue
			}
			due = append(due, TaskStatus{Name: t.Name, Label: status.Label(t.RawDue)})
		}
		if len(due) == 0 {
			continue
		}

		d.logger.Info(fmt.Sprintf("%s has %d critical deadline(s)", std.Name, len(due)))
		if err := d.sendReminder(std, due); err != nil {
			d.logger.Error(fmt.Sprintf("sending reminder to %s: %v", std.Email, err), err)
			d.alerter.Alert(
				"STUDENT REMINDER DELIVERY FAILURE",
				fmt.Sprintf("Sending the deadline reminder to %s failed:\n\n%v\n\nCheck the mail transport credentials.", std.Email, err),
			)
			continue
		}
		d.markSent(std.Email, due, today)
	}

	if len(warnings) > 0 {
		d.alerter.Alert("ROSTER DATA WARNINGS", batchWarnings(warnings))
	}
	d.logger.Info("reminder run complete")
}

func (d *Dispatcher) sendReminder(std Student, due []TaskStatus) error {
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject:      "URGENT: your final course deadline",
		TemplateName: reminderTemplate,
		TemplateData: reminderData{Name: std.Name, Tasks: due},
	}
	return d.mailSvc.Send(msg)
}

func (d *Dispatcher) alreadySent(email, task string, day time.Time) bool {
	if d.sentLog == nil {
		return false
	}
	sent, err := d.sentLog.WasSent(email, task, day)
	if err != nil {
		// a broken ledger must never block dispatch
		d.logger.Warn(fmt.Sprintf("checking sent log for %s: %v", email, err))
		return false
	}
	return sent
}

func (d *Dispatcher) markSent(email string, due []TaskStatus, day time.Time) {
	if d.sentLog == nil {
		return
	}
	for _, ts := range due {
		if err := d.sentLog.MarkSent(email, ts.Name, day); err != nil {
			d.logger.Warn(fmt.Sprintf("recording sent reminder for %s: %v", email, err))
		}
	}
}

// batchWarnings folds all per-row warnings into one admin alert body;
// low-severity data issues are too noisy to alert individually.
func batchWarnings(warnings []string) string {
	b := new(strings.Builder)
	b.WriteString("The following data problems were found in the student roster:\n\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
	fmt.Fprintf(b, "\nPlease check the %s due-date format in the roster file.", DateLayout)
	return b.String()
}
