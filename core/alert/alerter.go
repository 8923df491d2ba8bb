package alert

import (
	"fmt"
	"net/mail"

	"github.com/trezcool/kumbusha/core"
)

const subjPrefix = "[CRITICAL ALERT] "

// AdminAlerter emails a single-purpose critical notice to the administrator.
// It is best-effort, at-most-one-attempt: no retry, no queuing.
type AdminAlerter struct {
	conf    *core.Config
	mailSvc core.EmailService
	logger  core.Logger
}

var _ core.Alerter = (*AdminAlerter)(nil)

func NewAdminAlerter(conf *core.Config, mailSvc core.EmailService, logger core.Logger) *AdminAlerter {
	return &AdminAlerter{conf: conf, mailSvc: mailSvc, logger: logger}
}

// Alert attempts one send to the administrator address. When the address or
// the sender credentials are unset it degrades to a local diagnostic, and a
// failure during the send itself is only logged; an alert about a failed
// alert is never re-escalated.
func (a *AdminAlerter) Alert(subject, body string) {
	if a.conf.AdminEmail == "" || !a.conf.HasMailCredentials() {
		a.logger.Warn(fmt.Sprintf("admin alert %q dropped: admin email or mail credentials not configured", subject))
		return
	}

	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: a.conf.AdminEmail}},
		Subject: subjPrefix + subject,
		BodyStr: body,
	}
	if err := a.mailSvc.Send(msg); err != nil {
		a.logger.Error(fmt.Sprintf("sending admin alert %q: %v", subject, err), err)
		return
	}
	a.logger.Info("admin alert sent to " + a.conf.AdminEmail)
}
