// Package mail implementa ports.Mailer.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/ports"
	"github.com/marianodev72/sitio98plus-sub001/pkg/config"
	"github.com/marianodev72/sitio98plus-sub001/pkg/logger"
)

var (
	_ ports.Mailer = (*SMTPMailer)(nil)
	_ ports.Mailer = (*LogMailer)(nil)
)

// sender es la parte de gomail.Dialer que usa el mailer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envía los códigos de verificación por SMTP (STARTTLS si el servidor lo ofrece).
type SMTPMailer struct {
	from   string
	dialer sender
	log    *logger.Logger
}

// NewSMTPMailer construye el mailer a partir de la configuración SMTP.
func NewSMTPMailer(cfg config.MailConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		log:    log.Component("mail"),
	}
}

// New elige la implementación: sin host SMTP los códigos solo se registran en el log.
func New(cfg config.MailConfig, log *logger.Logger) ports.Mailer {
	if cfg.Host == "" {
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg, log)
}

func (m *SMTPMailer) SendVerificationCode(ctx context.Context, email, nombre, codigo string, minutosValidez int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := verificationMessage(m.from, email, nombre, codigo, minutosValidez)
	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error().Err(err).Str("to", email).Msg("no se pudo enviar el código de verificación")
		return fmt.Errorf("mail: enviar código a %s: %w", email, err)
	}
	m.log.Info().Str("to", email).Msg("código de verificación enviado")
	return nil
}

func verificationMessage(from, to, nombre, codigo string, minutos int) *gomail.Message {
	subject, text, html := renderVerification(nombre, codigo, minutos)
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)
	return msg
}

// LogMailer no envía nada: deja el código en el log. Solo para desarrollo.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.Component("mail")}
}

func (m *LogMailer) SendVerificationCode(_ context.Context, email, nombre, codigo string, minutosValidez int) error {
	m.log.Warn().
		Str("to", email).
		Str("nombre", nombre).
		Str("codigo", codigo).
		Int("minutos", minutosValidez).
		Msg("SMTP no configurado: código de verificación solo en log")
	return nil
}
