package shipment

import "tecnoroute-be/internal/apperror"

var (
	ErrShipmentNotFound       = apperror.NotFound("Envío no encontrado")
	ErrInvalidStatus          = apperror.Validation("Estado no válido")
	ErrTrackingNumberRequired = apperror.Validation("Debe proporcionar un número de guía")
	ErrAssignIDsRequired      = apperror.Validation("vehiculo_id y conductor_id son requeridos")
	ErrVehicleUnavailable     = apperror.NotFound("Vehículo no encontrado o no disponible")
	ErrDriverUnavailable      = apperror.NotFound("Conductor no encontrado o no disponible")
	ErrNotAuthorized          = apperror.Forbidden("No autorizado")
	ErrAdminOnlyAssign        = apperror.Forbidden("Solo administradores pueden asignar vehículos y conductores")
	ErrOrderRequired          = apperror.Validation("El envío debe originarse en un pedido")
)
