package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"bookfair/pkg/logger"
)

// EmailService renders and delivers notification emails.
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// SMTPEmailService is a real SMTP implementation of the EmailService interface
type SMTPEmailService struct {
	config *SMTPConfig
	tmpl   *template.Template
	log    *logger.Logger
}

const confirmationHTML = `
<h2>Reservation Confirmed</h2>
<p>Hi {{.RecipientName}},</p>
{{if .BusinessName}}<p>Business: <strong>{{.BusinessName}}</strong></p>{{end}}
<p>Your stall reservation for <strong>{{.ReservationDate.Format "January 2, 2006"}}</strong> has been confirmed.</p>
<table border="1" cellpadding="6" cellspacing="0">
	<tr><th>Stall</th><th>Name</th><th>Size</th><th>Location</th><th>Price</th></tr>
	{{range .Stalls}}
	<tr>
		<td>{{.StallNumber}}</td>
		<td>{{.StallName}}</td>
		<td>{{.Size}}</td>
		<td>{{.Location}}</td>
		<td>${{printf "%.2f" .Price}}</td>
	</tr>
	{{end}}
</table>
<p>Total Amount: <strong>${{printf "%.2f" .TotalAmount}}</strong></p>
<p>Reference: {{.ReservationID}}</p>
<p>Best regards,<br>The Book Fair Team</p>
`

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig, log *logger.Logger) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	tmpl, err := template.New(string(NotificationTypeReservationConfirmed)).Parse(confirmationHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}

	return &SMTPEmailService{
		config: config,
		tmpl:   tmpl,
		log:    log,
	}, nil
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.Username == "" {
		return fmt.Errorf("SMTP username is required")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SendNotification renders the notification and delivers it via SMTP
func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody, err := s.renderContent(notification)
	if err != nil {
		return fmt.Errorf("failed to render email content: %w", err)
	}

	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, htmlBody, textBody)
}

// SendHTML sends a multipart HTML email
func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Debug("Email sent", "to", to, "subject", subject)
	return nil
}

// sendWithSTARTTLS upgrades a plain connection before authenticating
func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		ServerName: s.config.Host,
	}
	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return w.Close()
}

// buildMessage creates the multipart email message with proper headers
func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var message strings.Builder
	message.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail))
	message.WriteString(fmt.Sprintf("To: %s\r\n", to))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	message.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%s\r\n", boundary))
	message.WriteString("\r\n")

	if textBody != "" {
		message.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		message.WriteString(textBody + "\r\n")
	}

	if htmlBody != "" {
		message.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		message.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		message.WriteString(htmlBody + "\r\n")
	}

	message.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return []byte(message.String())
}

// renderContent produces the HTML and plain-text bodies for a notification
func (s *SMTPEmailService) renderContent(notification *EmailNotification) (string, string, error) {
	var htmlBuf bytes.Buffer
	if err := s.tmpl.Execute(&htmlBuf, notification); err != nil {
		return "", "", err
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Hi %s,\n\n", notification.RecipientName))
	text.WriteString(fmt.Sprintf("Your stall reservation for %s has been confirmed.\n\n",
		notification.ReservationDate.Format("January 2, 2006")))
	for _, stall := range notification.Stalls {
		text.WriteString(fmt.Sprintf("- %s %s (%s, %s): $%.2f\n",
			stall.StallNumber, stall.StallName, stall.Size, stall.Location, stall.Price))
	}
	text.WriteString(fmt.Sprintf("\nTotal Amount: $%.2f\n", notification.TotalAmount))
	text.WriteString(fmt.Sprintf("Reference: %s\n\n", notification.ReservationID))
	text.WriteString("Best regards,\nThe Book Fair Team")

	return htmlBuf.String(), text.String(), nil
}

// NoopEmailService logs instead of sending. Used when SMTP is not
// configured, which keeps local development working without credentials.
type NoopEmailService struct {
	log *logger.Logger
}

func NewNoopEmailService(log *logger.Logger) *NoopEmailService {
	return &NoopEmailService{log: log}
}

func (s *NoopEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	s.log.InfoWithContext(ctx, "Email delivery skipped (SMTP not configured)", map[string]interface{}{
		"recipient": notification.RecipientEmail,
		"subject":   notification.Subject,
		"type":      notification.Type,
	})
	return nil
}

func (s *NoopEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	s.log.InfoWithContext(ctx, "Email delivery skipped (SMTP not configured)", map[string]interface{}{
		"recipient": to,
		"subject":   subject,
	})
	return nil
}
