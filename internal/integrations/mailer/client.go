package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rentmyvroom/RMV-CoreService/pkg/logger"
)

// Client — SMTP клиент для отправки почтовых уведомлений.
type Client struct {
	host     string
	port     int
	username string
	password string
	from     string
	log      *logger.Logger
}

// NewClient создает SMTP клиент. Если host пустой, клиент считается
// не настроенным и Send возвращает ErrNotConfigured.
func NewClient(host string, port int, username, password, from string, log *logger.Logger) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		log:      log,
	}
}

// Send отправляет HTML письмо на указанный адрес
func (c *Client) Send(to, subject, htmlBody string) error {
	if c.host == "" {
		return fmt.Errorf("%w: Send - smtp host is empty", ErrNotConfigured)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", c.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", c.host, c.port)

	var auth smtp.Auth
	if c.username != "" {
		auth = smtp.PlainAuth("", c.username, c.password, c.host)
	}

	if err := smtp.SendMail(addr, auth, c.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("%w: Send - smtp.SendMail: %v", ErrSendFailed, err)
	}

	c.log.Debug("[Mailer] Send: письмо отправлено, to=%s, subject=%s", to, subject)

	return nil
}
