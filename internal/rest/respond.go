package rest

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"tecnoroute-be/internal/apperror"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errAuthRequired = apperror.Unauthorized("Autenticación requerida")
	errInvalidID    = apperror.Validation("Identificador inválido")
	errNotFound     = apperror.NotFound("No encontrado")
)

// writeError renders err as {"error": message} with the status of its kind.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		err = errNotFound
	}

	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("layer", "rest"),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(apperror.HTTPStatus(kind), gin.H{"error": apperror.Message(err)})
}

// requireUser rejects anonymous requests.
func requireUser(c *gin.Context) {
	if _, ok := utils.GetUserIDFromContext(c.Request.Context()); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperror.Message(errAuthRequired)})
		return
	}
	c.Next()
}

// actorID is the authenticated user, or 0 for anonymous requests.
func actorID(c *gin.Context) uint {
	id, _ := utils.GetUserIDFromContext(c.Request.Context())
	return id
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := utils.ToUint(c.Param("id"))
	if err != nil || id == 0 {
		writeError(c, errInvalidID)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return n
}

// queryUint returns nil when key is absent or not a positive integer.
func queryUint(c *gin.Context, key string) *uint {
	id, err := utils.ToUint(c.Query(key))
	if err != nil || id == 0 {
		return nil
	}
	return &id
}

func queryBool(c *gin.Context, key string) *bool {
	b, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &b
}
