package emailsvc

import (
	"net/mail"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/trezcool/kumbusha/core"
)

// smtpService delivers mail through an authenticated SMTP relay (STARTTLS).
type smtpService struct {
	dialer     *gomail.Dialer
	conf       *core.Config
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config, logger core.Logger) *smtpService {
	return &smtpService{
		dialer:     gomail.NewDialer(conf.SMTP.Host, conf.SMTP.Port, conf.SMTP.User, conf.SMTP.Password),
		conf:       conf,
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

func (svc *smtpService) Send(msg *core.EmailMessage) error {
	if err := msg.Render(svc.conf); err != nil {
		return errors.Wrap(err, "rendering email")
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", svc.conf.DefaultFromEmail.String())
	m.SetHeader("To", joinAddresses(msg.To)...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", joinAddresses(msg.Cc)...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", joinAddresses(msg.Bcc)...)
	}
	m.SetHeader("Subject", svc.subjPrefix+msg.Subject)
	m.SetBody("text/plain", msg.TextContent)
	if msg.HTMLContent != "" {
		m.AddAlternative("text/html", msg.HTMLContent)
	}

	if err := svc.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "sending email via %s", svc.conf.SMTP.Host)
	}
	svc.logger.Info("email sent to " + joinAddressString(msg.To))
	return nil
}

func joinAddresses(addrs []mail.Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return out
}
