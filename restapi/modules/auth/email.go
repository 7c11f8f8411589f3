package auth

import (
	"fmt"
	"net/smtp"
	"os"
)

// EmailConfig holds email service configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// LoadEmailConfig loads email configuration from environment
func LoadEmailConfig() *EmailConfig {
	return &EmailConfig{
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("SMTP_FROM_EMAIL", "noreply@healthsvc.local"),
		FromName:     getEnv("SMTP_FROM_NAME", "Health Services"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// EmailSender delivers reset codes. Tests substitute a recording fake.
type EmailSender interface {
	SendResetCode(to, code string) error
}

// SMTPSender sends reset codes over SMTP. When SMTP credentials are absent it
// prints the code to stdout instead, which keeps local development usable.
type SMTPSender struct {
	Config *EmailConfig
}

// SendResetCode emails the 6-digit reset code to the user.
func (s *SMTPSender) SendResetCode(to, code string) error {
	if s.Config.SMTPUsername == "" || s.Config.SMTPPassword == "" {
		fmt.Printf(`
════════════════════════════════════════════════════════════════
📧 EMAIL NOT CONFIGURED - PASSWORD RESET CODE
════════════════════════════════════════════════════════════════

Email:    %s
Code:     %s

Valid for: 10 minutes

════════════════════════════════════════════════════════════════
`, to, code)
		return nil
	}

	subject := "Your password reset code"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2>Password Reset Request</h2>
	<p>You requested to reset your password. Enter this code to continue:</p>
	<p style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">%s</p>
	<p>This code will expire in 10 minutes. Requesting a new code invalidates this one.</p>
	<p>If you didn't request this, please ignore this email.</p>
	<hr>
	<p style="color: #666; font-size: 12px;">Health Services</p>
</body>
</html>
`, code)

	return s.sendEmail(to, subject, body)
}

// sendEmail sends an email using SMTP
func (s *SMTPSender) sendEmail(to, subject, htmlBody string) error {
	config := s.Config
	auth := smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, config.SMTPHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		config.FromName, config.FromEmail, to, subject, htmlBody,
	))

	addr := fmt.Sprintf("%s:%s", config.SMTPHost, config.SMTPPort)
	return smtp.SendMail(addr, auth, config.FromEmail, []string{to}, msg)
}
