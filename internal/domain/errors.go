package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autenticado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
	ErrNotAuthorized       = errors.New("matrícula no habilitada para registrarse")
	ErrExpired             = errors.New("el código de verificación expiró")
	ErrCodeMismatch        = errors.New("código de verificación incorrecto")
	ErrTooManyAttempts     = errors.New("demasiados intentos fallidos")
	ErrUnsupportedFileType = errors.New("tipo de archivo no permitido")
	ErrFileTooLarge        = errors.New("el archivo supera el tamaño máximo")
)
