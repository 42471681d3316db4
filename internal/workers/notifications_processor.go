// internal/workers/notifications_processor.go
package workers

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"
	"golang.org/x/time/rate"

	"github.com/ammerola/storefront/internal/adapters/queue"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/pkg/config"
	"github.com/ammerola/storefront/internal/pkg/logger"
)

// Mailer delivers one message to a set of recipients
type Mailer interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// smtpMailer sends through a plain SMTP relay
type smtpMailer struct {
	addr string
	auth smtp.Auth
}

// NewSMTPMailer creates a mailer for the configured relay. Empty credentials
// send unauthenticated.
func NewSMTPMailer(cfg config.NotificationsConfig) Mailer {
	m := &smtpMailer{addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)}
	if cfg.SMTPUser != "" {
		m.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return m
}

// Send delivers msg over one SMTP session. Cancelling ctx closes the
// connection, aborting the session at whatever command it reached.
func (m *smtpMailer) Send(ctx context.Context, from string, to []string, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return contextOr(ctx, fmt.Errorf("dial %s: %w", m.addr, err))
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := m.session(conn, from, to, msg); err != nil {
		conn.Close()
		return contextOr(ctx, err)
	}
	return nil
}

func (m *smtpMailer) session(conn net.Conn, from string, to []string, msg []byte) error {
	host, _, _ := net.SplitHostPort(m.addr)
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server does not support AUTH")
		}
		if err := c.Auth(m.auth); err != nil {
			return err
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// contextOr reports ctx's error in place of err once ctx is done
func contextOr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// NotificationProcessor mails low-stock alerts to the configured recipients
type NotificationProcessor struct {
	mailer     Mailer
	from       string
	recipients []string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewNotificationProcessor creates a new notification processor. A nil
// mailer only logs the alert.
func NewNotificationProcessor(mailer Mailer, cfg config.NotificationsConfig, log *slog.Logger) *NotificationProcessor {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &NotificationProcessor{
		mailer:     mailer,
		from:       cfg.From,
		recipients: cfg.Recipients,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst),
		logger:     log.With(slog.String("processor", "notification")),
	}
}

// SendLowStockAlert handles inventory:low_stock tasks
func (p *NotificationProcessor) SendLowStockAlert(ctx context.Context, t *asynq.Task) error {
	alert, err := queue.DecodeLowStock(t)
	if err != nil {
		return err
	}
	ctx = logger.WithItemID(ctx, alert.ItemID)

	subject, body := lowStockMessage(alert)

	if p.mailer == nil || len(p.recipients) == 0 {
		p.logger.InfoContext(ctx, "low stock alert would be sent",
			slog.String("subject", subject),
			slog.Int("stock_quantity", alert.StockQuantity))
		return nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		p.from, strings.Join(p.recipients, ", "), subject, body,
	))

	if err := p.mailer.Send(ctx, p.from, p.recipients, msg); err != nil {
		return fmt.Errorf("failed to send low stock alert: %w", err)
	}

	p.logger.InfoContext(ctx, "low stock alert sent",
		slog.Int("recipients", len(p.recipients)))

	return nil
}

func lowStockMessage(alert domain.LowStockAlert) (subject, body string) {
	subject = fmt.Sprintf("Low stock: %s (%d left)", alert.ProductName, alert.StockQuantity)
	body = fmt.Sprintf(
		"Item %d (%s) is down to %d units, below the threshold of %d.\r\n"+
			"Restock it from the manager tool with Add to Inventory.\r\n",
		alert.ItemID, alert.ProductName, alert.StockQuantity, alert.Threshold)
	return subject, body
}
