package verification

import "tecnoroute-be/internal/apperror"

var (
	ErrEmailRequired    = apperror.Validation("Email es requerido")
	ErrEmailAndCode     = apperror.Validation("Email y código son requeridos")
	ErrResetFields      = apperror.Validation("Email, código y nueva contraseña son requeridos")
	ErrEmailRegistered  = apperror.Validation("Este correo ya está registrado")
	ErrUnknownEmail     = apperror.NotFound("No existe una cuenta con este correo electrónico")
	ErrInvalidCode      = apperror.Validation("Código inválido o expirado")
	ErrPasswordTooShort = apperror.Validation("La contraseña debe tener al menos 8 caracteres")
)
