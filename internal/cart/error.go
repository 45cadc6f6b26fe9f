package cart

import "tecnoroute-be/internal/apperror"

var (
	ErrProductRequired      = apperror.Validation("producto_id es requerido")
	ErrItemAndQtyRequired   = apperror.Validation("item_id y cantidad son requeridos")
	ErrItemRequired         = apperror.Validation("item_id es requerido")
	ErrInvalidQuantity      = apperror.Validation("La cantidad debe ser al menos 1")
	ErrProductNotFound      = apperror.NotFound("Producto no encontrado")
	ErrInsufficientStock    = apperror.Validation("Stock insuficiente")
	ErrItemNotFound         = apperror.NotFound("Item no encontrado")
	ErrUserNotAuthenticated = apperror.Unauthorized("Autenticación requerida")
)
