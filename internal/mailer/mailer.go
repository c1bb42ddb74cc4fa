package mailer

import (
	"fmt"
	"log"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rental-backend/internal/config"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
)

// Mailer sends transactional mail through SendGrid from a single background
// worker fed by a buffered channel. Senders never block and never see
// delivery errors; failures are logged and counted.
type Mailer struct {
	client   *sendgrid.Client
	from     *mail.Email
	queue    chan *mail.SGMailV3
	stopOnce sync.Once
	done     chan struct{}
}

const queueSize = 128

// New returns a started mailer, or nil when no API key is configured. All
// methods are nil-safe, so the server runs without outbound mail.
func New(cfg *config.Config) *Mailer {
	if cfg.Mail.SendGridAPIKey == "" {
		log.Printf("[Mailer] No SendGrid API key configured, outbound mail disabled")
		return nil
	}
	m := &Mailer{
		client: sendgrid.NewSendClient(cfg.Mail.SendGridAPIKey),
		from:   mail.NewEmail(cfg.Mail.FromName, cfg.Mail.FromAddress),
		queue:  make(chan *mail.SGMailV3, queueSize),
		done:   make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Mailer) run() {
	defer close(m.done)
	for msg := range m.queue {
		resp, err := m.client.Send(msg)
		if err != nil {
			metrics.NotificationFailures.Inc()
			log.Printf("[Mailer] Send failed: %v", err)
			continue
		}
		if resp.StatusCode >= 400 {
			metrics.NotificationFailures.Inc()
			log.Printf("[Mailer] Send rejected: status %d", resp.StatusCode)
		}
	}
}

// Stop drains the queue and waits for the worker to finish.
func (m *Mailer) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() {
		close(m.queue)
		<-m.done
	})
}

func (m *Mailer) enqueue(msg *mail.SGMailV3) {
	if m == nil {
		return
	}
	select {
	case m.queue <- msg:
	default:
		metrics.NotificationFailures.Inc()
		log.Printf("[Mailer] Queue full, dropping message")
	}
}

// SendContractConfirmation mails the customer their new contract summary.
func (m *Mailer) SendContractConfirmation(c *models.Contract, customerEmail, customerName string) {
	if m == nil {
		return
	}
	subject := fmt.Sprintf("Rental contract %s confirmed", c.ContractNumber)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour rental contract %s is confirmed.\nStart: %s\nPlanned return: %s\nTotal: %.2f EUR\nDeposit: %.2f EUR\n\nThank you.",
		customerName, c.ContractNumber,
		c.StartAt.Format("2006-01-02 15:04"), c.PlannedEndAt.Format("2006-01-02 15:04"),
		c.TotalAmount, c.DepositAmount)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your rental contract <strong>%s</strong> is confirmed.</p><p>Start: %s<br>Planned return: %s<br>Total: %.2f EUR<br>Deposit: %.2f EUR</p><p>Thank you.</p>",
		customerName, c.ContractNumber,
		c.StartAt.Format("2006-01-02 15:04"), c.PlannedEndAt.Format("2006-01-02 15:04"),
		c.TotalAmount, c.DepositAmount)
	to := mail.NewEmail(customerName, customerEmail)
	m.enqueue(mail.NewSingleEmail(m.from, subject, to, plain, html))
}

// SendSettlement mails the customer their check-out settlement figures.
func (m *Mailer) SendSettlement(c *models.Contract, customerEmail, customerName string) {
	if m == nil {
		return
	}
	subject := fmt.Sprintf("Rental contract %s settled", c.ContractNumber)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour rental contract %s is settled.\nTotal charged: %.2f EUR\nDeductions: %.2f EUR\nDeposit refunded: %.2f EUR\n\nThank you.",
		customerName, c.ContractNumber, c.TotalAmount, c.DeductionTotal, c.RefundAmount)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your rental contract <strong>%s</strong> is settled.</p><p>Total charged: %.2f EUR<br>Deductions: %.2f EUR<br>Deposit refunded: %.2f EUR</p><p>Thank you.</p>",
		customerName, c.ContractNumber, c.TotalAmount, c.DeductionTotal, c.RefundAmount)
	to := mail.NewEmail(customerName, customerEmail)
	m.enqueue(mail.NewSingleEmail(m.from, subject, to, plain, html))
}
