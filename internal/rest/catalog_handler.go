package rest

import (
	"net/http"

	"tecnoroute-be/internal/category"
	"tecnoroute-be/internal/product"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createCategoryRequest struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

type createProductRequest struct {
	CategoryID  uint            `json:"categoria" validate:"required"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imagen_url" validate:"omitempty,url"`
}

type updateProductRequest struct {
	CategoryID  *uint            `json:"categoria"`
	Name        *string          `json:"nombre"`
	Description *string          `json:"descripcion"`
	Price       *decimal.Decimal `json:"precio"`
	Stock       *int             `json:"stock"`
	ImageURL    *string          `json:"imagen_url" validate:"omitempty,url"`
	Active      *bool            `json:"activo"`
}

func (h *Handler) listCategories(c *gin.Context) {
	all := c.Query("todas") == "true"

	list, err := h.categories.List(c.Request.Context(), !all)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), actorID(c), category.CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) listProducts(c *gin.Context) {
	list, err := h.products.List(c.Request.Context(), product.Filter{
		CategoryID: queryUint(c, "categoria"),
		Search:     c.Query("search"),
		ActiveOnly: c.Query("incluir_inactivos") != "true",
		Limit:      queryInt(c, "limit", 0),
		Page:       queryInt(c, "page", 1),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) createProduct(c *gin.Context) {
	var req createProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.products.Create(c.Request.Context(), actorID(c), product.CreateInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.products.Update(c.Request.Context(), actorID(c), id, product.UpdateInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
