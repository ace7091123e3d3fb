package libs

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"user-account/config"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg config.SMTPConfig) (*Mailer, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	from := cfg.From
	if from == "" {
		from = cfg.User
	}

	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   from,
	}, nil
}

func (m *Mailer) SendWelcome(toEmail, name string) error {
	if err := m.dialer.DialAndSend(welcomeMessage(m.from, toEmail, name)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func welcomeMessage(from, toEmail, name string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Welcome aboard")

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
    <h2>Hi %s,</h2>
    <p>Your account has been created. You can now sign in with <strong>%s</strong>.</p>
    <p style="color: #666; font-size: 12px;">This is an automated email. Please do not reply.</p>
</body>
</html>
	`, html.EscapeString(name), html.EscapeString(toEmail))

	msg.SetBody("text/html", body)
	return msg
}
