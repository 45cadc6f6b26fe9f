package fleet

import "tecnoroute-be/internal/apperror"

var (
	ErrDriverNotFound       = apperror.NotFound("Conductor no encontrado")
	ErrVehicleNotFound      = apperror.NotFound("Vehículo no encontrado")
	ErrInvalidState         = apperror.Validation("Estado no válido")
	ErrInvalidType          = apperror.Validation("Tipo de vehículo no válido")
	ErrInvalidFuel          = apperror.Validation("Combustible no válido")
	ErrPlateRequired        = apperror.Validation("La placa es requerida")
	ErrPlateExists          = apperror.Conflict("Ya existe un vehículo con esta placa")
	ErrInvalidCapacity      = apperror.Validation("La capacidad debe ser mayor a 0")
	ErrDriverFieldsRequired = apperror.Validation("nombre, email, cedula y licencia son requeridos")
	ErrAdminOnly            = apperror.Forbidden("Solo administradores pueden gestionar la flota")
	ErrNotAuthorized        = apperror.Forbidden("No autorizado")
	ErrDriverIdentityTaken  = apperror.Conflict("La cédula o licencia ya está registrada")
	ErrDraftPlateTaken      = apperror.Conflict("Otro conductor ya registró esta placa")
	ErrRouteNotFound        = apperror.NotFound("Ruta no encontrada")
	ErrRouteFieldsRequired  = apperror.Validation("nombre, origen y destino son requeridos")
	ErrInvalidRouteValues   = apperror.Validation("Distancia, tiempo y costos no pueden ser negativos")
)

func errDriverHasVehicle(driverName, plate string) error {
	return apperror.Conflictf("El conductor %s ya está asignado al vehículo %s", driverName, plate)
}
