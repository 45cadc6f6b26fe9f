package category

import "tecnoroute-be/internal/apperror"

var (
	ErrNameRequired = apperror.Validation("El nombre de la categoría es requerido")
	ErrNameExists   = apperror.Conflict("Ya existe una categoría con ese nombre")
	ErrNotFound     = apperror.NotFound("Categoría no encontrada")
	ErrAdminOnly    = apperror.Forbidden("Solo administradores pueden gestionar categorías")
)
