package user

import "tecnoroute-be/internal/apperror"

var (
	ErrEmailExists         = apperror.Conflict("Este correo ya está registrado")
	ErrEmailTaken          = apperror.Validation("Este correo ya está registrado por otro usuario")
	ErrInvalidCredentials  = apperror.Unauthorized("Correo o contraseña incorrectas")
	ErrCredentialsRequired = apperror.Validation("Email y password son requeridos")
	ErrPasswordMismatch    = apperror.Validation("Las contraseñas no coinciden.")
	ErrPasswordTooShort    = apperror.Validation("La contraseña debe tener al menos 6 caracteres")
	ErrNationalIDRequired  = apperror.Validation("La cédula es requerida para conductores.")
	ErrLicenseRequired     = apperror.Validation("La licencia es requerida para conductores.")
	ErrInvalidRole         = apperror.Validation("Rol no válido")
	ErrAdminSignup         = apperror.Forbidden("Solo un administrador puede registrar administradores")
	ErrDriverIdentityTaken = apperror.Conflict("La cédula o licencia ya está registrada")
	ErrUserNotFound        = apperror.NotFound("Usuario no encontrado")
	ErrNoProfile           = apperror.Forbidden("Usuario no tiene perfil")
	ErrNewPasswordRequired = apperror.Validation("new_password es requerido")
	ErrWrongPassword       = apperror.Validation("La contraseña actual es incorrecta")
	ErrPasswordLength      = apperror.Validation("La contraseña debe tener al menos 8 caracteres")
	ErrPasswordUpper       = apperror.Validation("La contraseña debe contener al menos una letra mayúscula")
	ErrPasswordDigit       = apperror.Validation("La contraseña debe contener al menos un número")
	ErrAdminOnly           = apperror.Forbidden("Solo administradores pueden gestionar clientes")
	ErrCustomerNotFound    = apperror.NotFound("Cliente no encontrado")
)
