package ports

import "context"

// Mailer define el puerto de salida para el envío de correos transaccionales.
// Lo implementan el adaptador SMTP (gomail) y, en desarrollo, un mailer que solo registra en el log.
type Mailer interface {
	// SendVerificationCode envía el código de verificación del alta a email.
	SendVerificationCode(ctx context.Context, email, nombre, codigo string, minutosValidez int) error
}
