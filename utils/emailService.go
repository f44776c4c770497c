package utils

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"coursetrack/config"
	"coursetrack/models"
	"coursetrack/models/course"
	"coursetrack/services/certificate"
)

// NewNotifier sends through SendGrid when an API key is configured and
// only logs otherwise.
func NewNotifier(cfg *config.Config, log *zap.Logger) certificate.Notifier {
	if cfg.SendgridAPIKey == "" {
		log.Warn("SENDGRID_API_KEY not set, certificate emails will only be logged")
		return &LogNotifier{log: log}
	}
	return &SendgridNotifier{
		client: sendgrid.NewSendClient(cfg.SendgridAPIKey),
		from:   mail.NewEmail(cfg.EmailSenderName, cfg.EmailSender),
		log:    log,
	}
}

// SendgridNotifier delivers certificate emails through the SendGrid v3 API.
type SendgridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
	log    *zap.Logger
}

func (n *SendgridNotifier) CertificateApproved(ctx context.Context, student models.User, c course.Course, cert course.Certificate) error {
	subject, text, body := certificateEmail(student, c, cert)
	message := mail.NewSingleEmail(n.from, subject, mail.NewEmail(student.Name, student.Email), text, body)

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send certificate email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send certificate email: status %d: %s", resp.StatusCode, resp.Body)
	}
	n.log.Info("certificate email sent", zap.String("to", student.Email), zap.String("certificate", cert.CertificateNumber))
	return nil
}

// LogNotifier records the email it would have sent.
type LogNotifier struct {
	log *zap.Logger
}

func (n *LogNotifier) CertificateApproved(_ context.Context, student models.User, c course.Course, cert course.Certificate) error {
	subject, _, _ := certificateEmail(student, c, cert)
	n.log.Info("certificate email",
		zap.String("to", student.Email),
		zap.String("subject", subject),
		zap.String("certificate_url", cert.CertificateURL),
	)
	return nil
}

func certificateEmail(student models.User, c course.Course, cert course.Certificate) (subject, text, body string) {
	subject = fmt.Sprintf("Your certificate for %s is ready", c.Title)
	text = fmt.Sprintf("Dear %s,\n\nCongratulations on completing %s. Your certificate %s is available at %s\n",
		student.Name, c.Title, cert.CertificateNumber, cert.CertificateURL)
	content := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>.</p>
		<div class="info-box">Certificate number: <strong>%s</strong></div>
		<a class="btn" href="%s">View certificate</a>
	`, html.EscapeString(student.Name), html.EscapeString(c.Title), html.EscapeString(cert.CertificateNumber), html.EscapeString(cert.CertificateURL))
	return subject, text, getEmailTemplate("Certificate Approved", content)
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F3A5F; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2E7D32; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2E7D32; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>COURSETRACK</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">This is an automated message, please do not reply.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
