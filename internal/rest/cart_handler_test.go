package rest

import (
	"net/http"
	"testing"

	"tecnoroute-be/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartHandlers(t *testing.T) {
	refreshed := &cart.Cart{ID: 3, UserID: 2, Total: decimal.NewFromInt(40), Items: []cart.Item{}}

	t.Run("AddDefaultsQuantityToOne", func(t *testing.T) {
		svc := new(MockCartService)
		r := newTestEngine(NewHandler(Services{Carts: svc}), 2, nil)

		svc.On("AddItem", mock.Anything, uint(2), uint(7), 1).Return(refreshed, nil)

		w := do(r, http.MethodPost, "/carrito/", `{"producto_id":7}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "40", decode(t, w)["total"])
		svc.AssertExpectations(t)
	})

	t.Run("AddRequiresProduct", func(t *testing.T) {
		svc := new(MockCartService)
		r := newTestEngine(NewHandler(Services{Carts: svc}), 2, nil)

		svc.On("AddItem", mock.Anything, uint(2), uint(0), 2).Return(nil, cart.ErrProductRequired)

		w := do(r, http.MethodPost, "/carrito/", `{"cantidad":2}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "producto_id es requerido", decode(t, w)["error"])
	})

	t.Run("UpdateToZeroIsForwarded", func(t *testing.T) {
		svc := new(MockCartService)
		r := newTestEngine(NewHandler(Services{Carts: svc}), 2, nil)

		svc.On("UpdateItem", mock.Anything, uint(2), uint(11), 0).Return(refreshed, nil)

		w := do(r, http.MethodPatch, "/carrito/", `{"item_id":11,"cantidad":0}`)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("UpdateRequiresQuantity", func(t *testing.T) {
		svc := new(MockCartService)
		r := newTestEngine(NewHandler(Services{Carts: svc}), 2, nil)

		w := do(r, http.MethodPatch, "/carrito/", `{"item_id":11}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "item_id y cantidad son requeridos", decode(t, w)["error"])
		svc.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RemoveByQuery", func(t *testing.T) {
		svc := new(MockCartService)
		r := newTestEngine(NewHandler(Services{Carts: svc}), 2, nil)

		svc.On("RemoveItem", mock.Anything, uint(2), uint(11)).Return(nil, cart.ErrItemNotFound)

		w := do(r, http.MethodDelete, "/carrito/?item_id=11", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Item no encontrado", decode(t, w)["error"])
	})

	t.Run("RemoveByBody", func(t *testing.T) {
		svc := new(MockCartService)
		r := newTestEngine(NewHandler(Services{Carts: svc}), 2, nil)

		svc.On("RemoveItem", mock.Anything, uint(2), uint(12)).Return(refreshed, nil)

		w := do(r, http.MethodDelete, "/carrito/", `{"item_id":12}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
