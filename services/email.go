package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"
)

// EmailService sends the three notification templates over SMTP.
// With SMTP_HOST unset the service is disabled and every send is a
// logged no-op error, so local setups run without a relay.
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	useTLS   bool
	timeout  time.Duration
}

func NewEmailService() *EmailService {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}

	useTLS := true
	if v := os.Getenv("SMTP_TLS"); v != "" {
		useTLS, _ = strconv.ParseBool(v)
	}

	from := os.Getenv("SMTP_FROM_EMAIL")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}

	return &EmailService{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     from,
		useTLS:   useTLS,
		timeout:  15 * time.Second,
	}
}

func (s *EmailService) Enabled() bool {
	return s.host != ""
}

func (s *EmailService) send(ctx context.Context, to, subject, htmlBody string) error {
	if !s.Enabled() {
		return fmt.Errorf("SMTP_HOST not configured, email not sent")
	}

	tlsPolicy := mail.TLSMandatory
	if !s.useTLS {
		tlsPolicy = mail.NoTLS
	}

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.username),
		mail.WithPassword(s.password),
		mail.WithTLSPolicy(tlsPolicy),
		mail.WithTimeout(s.timeout),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat("MoneyKeeper", s.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	// The per-send timeout keeps one hung relay from stalling the
	// rest of a notifier cycle.
	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return client.DialAndSendWithContext(sendCtx, msg)
}

func (s *EmailService) SendReminderNotification(ctx context.Context, to, userName, content string, fireAt time.Time, kind string) error {
	subject := fmt.Sprintf("Reminder: %s", kind)
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #4285f4;">MoneyKeeper reminder</h2>
    <div style="background-color: #f8f9fa; padding: 20px; border-radius: 5px;">
        <h3>Hello %s!</h3>
        <p style="font-size: 16px; color: #333;">%s</p>
        <p><strong>When:</strong> %s</p>
        <p><strong>Kind:</strong> %s</p>
    </div>
    <p style="color: #666; font-size: 12px; text-align: center;">
        Automated message from MoneyKeeper. Please do not reply.
    </p>
</div>`, userName, content, fireAt.Format("02/01/2006 15:04"), kind)

	return s.send(ctx, to, subject, body)
}

func (s *EmailService) SendBudgetWarning(ctx context.Context, to, userName, categoryName string, spent, limit decimal.Decimal) error {
	subject := fmt.Sprintf("Budget warning: %s", categoryName)
	percentage := UsagePercent(spent, limit)
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #ff6b6b;">Budget warning</h2>
    <div style="background-color: #fff3cd; border: 1px solid #ffeaa7; padding: 20px; border-radius: 5px;">
        <h3>Hello %s!</h3>
        <p>Your spending on <strong>%s</strong> has reached <strong>%.1f%%</strong> of its budget.</p>
        <div style="background-color: white; padding: 15px; border-radius: 5px;">
            <p><strong>Spent:</strong> %s</p>
            <p><strong>Cap:</strong> %s</p>
            <p><strong>Remaining:</strong> %s</p>
        </div>
        <p style="color: #856404;">Keep an eye on this category to stay within budget.</p>
    </div>
</div>`, userName, categoryName, percentage, FormatVND(spent), FormatVND(limit), FormatVND(limit.Sub(spent)))

	return s.send(ctx, to, subject, body)
}

func (s *EmailService) SendGoalAchievement(ctx context.Context, to, userName, goalName string, target decimal.Decimal) error {
	subject := "Congratulations! Goal completed"
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #51cf66;">Goal completed</h2>
    <div style="background-color: #d4edda; border: 1px solid #c3e6cb; padding: 20px; border-radius: 5px;">
        <h3>Hello %s!</h3>
        <p>You completed the goal <strong>%s</strong> of <strong>%s</strong>!</p>
        <p>Keep the saving habit going and set yourself a new goal.</p>
    </div>
</div>`, userName, goalName, FormatVND(target))

	return s.send(ctx, to, subject, body)
}
