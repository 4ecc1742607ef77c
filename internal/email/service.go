package emailService

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"sync"
)

const (
	subjectWelcome       = "Welcome to FinanceLedger"
	templateWelcome      = "welcome.html"
	subjectDebtReminder  = "Upcoming debt payments"
	templateDebtReminder = "debt_reminder.html"

	queueSize = 100
)

//go:embed templates/*.html
var templatesFS embed.FS

type EmailData interface {
	TemplateFileName() string
	Subject() string
}

type EmailSender interface {
	QueueEmail(to string, data EmailData)
}

type WelcomeData struct {
	UserName string
}

func (d WelcomeData) TemplateFileName() string {
	return templateWelcome
}

func (d WelcomeData) Subject() string {
	return subjectWelcome
}

type DebtReminderLine struct {
	Name           string
	Lender         string
	MinimumPayment string
	Currency       string
	DueDay         int
}

type DebtReminderData struct {
	UserName string
	Debts    []DebtReminderLine
}

func (d DebtReminderData) TemplateFileName() string {
	return templateDebtReminder
}

func (d DebtReminderData) Subject() string {
	return subjectDebtReminder
}

// SMTPConfig describes the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

type EmailTask struct {
	to      string
	data    EmailData
	subject string
}

// deliverFunc sends one rendered message.
type deliverFunc func(to, subject string, body []byte) error

type EmailService struct {
	templates *template.Template
	deliver   deliverFunc
	taskQueue chan EmailTask
	wg        sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewEmailService returns a service that delivers over SMTP.
func NewEmailService(cfg SMTPConfig) (*EmailService, error) {
	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)
	deliver := func(to, subject string, body []byte) error {
		message := []byte("From: " + cfg.From + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-version: 1.0;\r\n" +
			"Content-Type: text/html; charset=\"UTF-8\";\r\n\r\n")
		message = append(message, body...)
		return smtp.SendMail(cfg.Host+":"+cfg.Port, auth, cfg.From, []string{to}, message)
	}
	return newEmailService(deliver)
}

// NewLogEmailService renders every message and logs it instead of sending.
// It is used when no SMTP server is configured.
func NewLogEmailService() (*EmailService, error) {
	return newEmailService(func(to, subject string, body []byte) error {
		slog.Info("email not sent, SMTP disabled", "to", to, "subject", subject, "bytes", len(body))
		return nil
	})
}

func newEmailService(deliver deliverFunc) (*EmailService, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}
	return &EmailService{
		templates: tmpl,
		deliver:   deliver,
		taskQueue: make(chan EmailTask, queueSize),
	}, nil
}

// Start runs the delivery worker until ctx is cancelled or Close is called.
func (s *EmailService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
}

func (s *EmailService) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			if err := s.sendTemplatedEmail(task.to, task.data, task.subject); err != nil {
				slog.Error("error sending email", "to", task.to, "subject", task.subject, "error", err)
			}
		}
	}
}

// QueueEmail schedules a message. When the queue is full the message is dropped.
func (s *EmailService) QueueEmail(to string, data EmailData) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		slog.Warn("email service closed, dropping message", "to", to, "subject", data.Subject())
		return
	}

	select {
	case s.taskQueue <- EmailTask{to: to, data: data, subject: data.Subject()}:
	default:
		slog.Warn("email queue full, dropping message", "to", to, "subject", data.Subject())
	}
}

// Close drains the queue and waits for the worker to finish.
func (s *EmailService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.taskQueue)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *EmailService) render(data EmailData) ([]byte, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, data.TemplateFileName(), data); err != nil {
		return nil, fmt.Errorf("error executing template: %w", err)
	}
	return body.Bytes(), nil
}

func (s *EmailService) sendTemplatedEmail(to string, data EmailData, subject string) error {
	body, err := s.render(data)
	if err != nil {
		return err
	}
	if err := s.deliver(to, subject, body); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}
