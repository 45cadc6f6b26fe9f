package product

import "tecnoroute-be/internal/apperror"

var (
	ErrNotFound         = apperror.NotFound("Producto no encontrado")
	ErrNameRequired     = apperror.Validation("El nombre del producto es requerido")
	ErrNegativePrice    = apperror.Validation("El precio no puede ser negativo")
	ErrNegativeStock    = apperror.Validation("El stock no puede ser negativo")
	ErrCategoryNotFound = apperror.NotFound("Categoría no encontrada")
	ErrAdminOnly        = apperror.Forbidden("Solo administradores pueden gestionar productos")
)
