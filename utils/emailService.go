package utils

import (
	"fixdesk/config"
	"fmt"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: FixDesk <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

// HTML wrapper shared by all outgoing notifications
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #e0e0e0; border-radius: 8px; overflow: hidden;">
		<div style="background: #1a73e8; color: #ffffff; padding: 16px 24px;">
			<h2 style="margin: 0;">%s</h2>
		</div>
		<div style="padding: 24px; color: #333333; line-height: 1.5;">
			%s
		</div>
		<div style="padding: 12px 24px; background: #f5f5f5; color: #888888; font-size: 12px;">
			FixDesk Service Desk — this is an automated notification.
		</div>
	</div>`, title, bodyContent)
}
