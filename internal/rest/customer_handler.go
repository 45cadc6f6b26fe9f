package rest

import (
	"net/http"

	"tecnoroute-be/internal/user"

	"github.com/gin-gonic/gin"
)

type updateCustomerRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"telefono"`
	Address   *string `json:"direccion"`
	City      *string `json:"ciudad"`
}

func (h *Handler) listCustomers(c *gin.Context) {
	f := user.CustomerFilter{
		Active: queryBool(c, "is_active"),
		City:   c.Query("ciudad"),
		Search: c.Query("search"),
	}

	list, err := h.users.ListCustomers(c.Request.Context(), actorID(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	if list == nil {
		list = []*user.Customer{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) activeCustomers(c *gin.Context) {
	list, err := h.users.ActiveCustomers(c.Request.Context(), actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if list == nil {
		list = []*user.Customer{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	customer, err := h.users.GetCustomer(c.Request.Context(), actorID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.users.UpdateCustomer(c.Request.Context(), actorID(c), id, user.UpdateCustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) deactivateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.users.DeactivateCustomer(c.Request.Context(), actorID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente desactivado exitosamente"})
}

func (h *Handler) deleteAccount(c *gin.Context) {
	if err := h.users.DeleteAccount(c.Request.Context(), actorID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cuenta eliminada exitosamente"})
}
