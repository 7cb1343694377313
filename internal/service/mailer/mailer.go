// Package mailer delivers sale invoice notices over SMTP.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/mamadbah2/posadmin/internal/config"
	"github.com/mamadbah2/posadmin/internal/domain/models"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends invoice notices from a fixed sender address.
type Mailer struct {
	dialer sender
	from   string
	logger *zap.Logger
}

// New returns a Mailer for cfg, or nil when SMTP is not configured.
func New(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	if !cfg.Enabled() {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// InvoiceSubject is the subject line of the invoice notice for folio.
func InvoiceSubject(folio string) string {
	return fmt.Sprintf("Factura de venta %s", folio)
}

// InvoiceBody is the plain-text body of the invoice notice for folio.
func InvoiceBody(folio string) string {
	return fmt.Sprintf("Hola,\n\nAdjunto la factura correspondiente a la venta %s.\n\nPor favor revisa el archivo PDF descargado.\n\nSaludos.", folio)
}

// SendInvoiceNotice mails the invoice notice to the sale's invoice address.
func (m *Mailer) SendInvoiceNotice(ctx context.Context, sale models.Sale) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", sale.InvoiceEmail)
	msg.SetHeader("Subject", InvoiceSubject(sale.Folio))
	msg.SetBody("text/plain", InvoiceBody(sale.Folio))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send invoice %s: %w", sale.Folio, err)
	}
	m.logger.Info("invoice notice sent", zap.String("folio", sale.Folio), zap.String("to", sale.InvoiceEmail))
	return nil
}
