package order

import "tecnoroute-be/internal/apperror"

var (
	ErrUserNotAuthenticated   = apperror.Unauthorized("Autenticación requerida")
	ErrCheckoutFieldsRequired = apperror.Validation("direccion_envio y telefono_contacto son requeridos")
	ErrCartNotFound           = apperror.NotFound("Carrito no encontrado")
	ErrEmptyCart              = apperror.Validation("El carrito está vacío")
	ErrOrderNotFound          = apperror.NotFound("Pedido no encontrado")
	ErrInvalidStatus          = apperror.Validation("Estado no válido")
	ErrDriverNotFound         = apperror.NotFound("Conductor no encontrado")
	ErrNotAssignedToTake      = apperror.Forbidden("Solo el conductor asignado puede tomar este pedido")
	ErrNotAssignedToDeliver   = apperror.Forbidden("Solo el conductor asignado puede marcar como entregado")
	ErrNotAuthorized          = apperror.Forbidden("No autorizado")
	ErrAdminOnlyAssign        = apperror.Forbidden("Solo administradores pueden asignar conductores")
	ErrAdminOnlyStats         = apperror.Forbidden("Solo administradores pueden ver estadísticas")
	ErrDriverIDRequired       = apperror.Validation("conductor_id es requerido")
	ErrDriverUnavailable      = apperror.NotFound("Conductor no encontrado o inactivo")
	ErrCannotEdit             = apperror.Forbidden("No autorizado para editar este pedido")
	ErrCannotDelete           = apperror.Forbidden("No autorizado para eliminar este pedido")
	ErrAddressRequired        = apperror.Validation("La dirección de envío es obligatoria")
	ErrPhoneRequired          = apperror.Validation("El teléfono de contacto es obligatorio")
	ErrAddressTooShort        = apperror.Validation("La dirección debe tener al menos 10 caracteres")
	ErrStatusChanged          = apperror.Conflict("El pedido cambió de estado, intente nuevamente")
)

func errInsufficientStock(productName string) error {
	return apperror.Validationf("Stock insuficiente para %s", productName)
}

func errTransitionNotAllowed(from, to Status) error {
	return apperror.Forbiddenf("Cambio de estado no permitido: %s -> %s", from, to)
}

func errNotEditable(current Status) error {
	return apperror.Validationf("No se puede editar un pedido en estado \"%s\". Solo los pedidos pendientes pueden ser editados.", current)
}

func errNotDeletable(current Status) error {
	return apperror.Validationf("No se puede eliminar un pedido en estado \"%s\". Solo los pedidos pendientes pueden ser eliminados.", current)
}
