package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/shinelab/detailing-ops/internal/config"
	"github.com/sony/gobreaker"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

var (
	ErrMailUnavailable   = errors.New("mail server unavailable, try again later")
	ErrMailNotConfigured = errors.New("mail delivery is not configured")
)

// EmailService defines the interface for sending emails
type EmailService interface {
	SendPayslip(ctx context.Context, to string, data PayslipData) error
}

// PayslipData carries pre-formatted figures for the payslip template.
type PayslipData struct {
	EmployeeName     string
	Period           string
	Currency         string
	WorkingDays      int
	PresentDays      int
	PaidLeaveDays    int
	AbsentPaidDays   int
	AbsentUnpaidDays int
	UnpaidLeaveDays  int
	NotMarkedDays    int
	PayableDays      int
	HolidayDays      int
	HolidaysIncluded bool
	GrossSalary      string
	PerDaySalary     string
	Deductions       string
	NetSalary        string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	cb        *gobreaker.CircuitBreaker
	send      sendFunc
	backoff   time.Duration
}

// NewEmailService creates a new email service instance. Deliveries go through a circuit
// breaker so a failing SMTP relay is not retried on every request.
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	return newEmailService(cfg, smtp.SendMail, time.Second)
}

func newEmailService(cfg config.SMTPConfig, send sendFunc, backoff time.Duration) (*emailServiceImpl, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	settings := gobreaker.Settings{
		Name:        "SMTP",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		cb:        gobreaker.NewCircuitBreaker(settings),
		send:      send,
		backoff:   backoff,
	}, nil
}

// SendPayslip renders and sends the payslip notice
func (s *emailServiceImpl) SendPayslip(ctx context.Context, to string, data PayslipData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "payslip.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("Payslip for %s", data.Period), body.String())
}

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return ErrMailNotConfigured
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		_, err := s.cb.Execute(func() (interface{}, error) {
			return nil, s.send(addr, auth, from, []string{to}, message)
		})
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("Circuit breaker is open, skipping email send", "to", to, "subject", subject)
			return ErrMailUnavailable
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.backoff * time.Duration(1<<(attempt-1))):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
