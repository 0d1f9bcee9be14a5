// Package mail sends transactional email over SMTP.
package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

var resetTemplate = template.Must(template.New("reset").Parse(`<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2>Восстановление пароля</h2>
  <p>Здравствуйте, {{.Name}}!</p>
  <p>Вы запросили сброс пароля для вашего аккаунта в CRM. Используйте код ниже,
  он действителен в течение одного часа:</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 2px;">{{.Token}}</p>
  <p>Если вы не запрашивали сброс, просто проигнорируйте это письмо.</p>
</body>
</html>`))

// Sender delivers password reset email.
type Sender struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

// NewSender creates an SMTP sender.
func NewSender(host string, port int, user, password, from string) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
	}
}

// SendPasswordReset emails the reset token to the user.
func (s *Sender) SendPasswordReset(to, name, token string) error {
	var body bytes.Buffer
	data := struct {
		Name  string
		Token string
	}{Name: name, Token: token}
	if err := resetTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Восстановление пароля")
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.host, s.port, s.user, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	return nil
}
