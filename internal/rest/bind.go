package rest

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

func newValidator() *validatorv10.Validate {
	v := validatorv10.New()
	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON decodes the body into out and validates it. On failure a 400 is
// written and false returned.
func (h *Handler) bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la solicitud inválido"})
		return false
	}

	if err := h.validate.Struct(out); err != nil {
		var ve validatorv10.ValidationErrors
		if !errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return false
		}
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fieldMessage(fe)
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  fieldMessage(ve[0]),
			"campos": fields,
		})
		return false
	}
	return true
}

func fieldMessage(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es requerido", fe.Field())
	case "email":
		return fmt.Sprintf("%s debe ser un correo válido", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s debe ser al menos %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s no puede ser mayor que %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s debe tener %s caracteres", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s no es válido", fe.Field())
}
