package idempotency

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Keeper is the storage the middleware needs. *Store satisfies it.
type Keeper interface {
	Begin(ctx context.Context, key, method, path string) (bool, error)
	Get(ctx context.Context, key string) (*Record, error)
	Complete(ctx context.Context, key string, status int, body []byte) error
	Release(ctx context.Context, key string) error
}

const maxKeyLength = 255

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware replays the stored response of a completed request that carried
// the same Idempotency-Key. Requests without the header pass through. Keys
// are scoped per user. Only 2xx responses are kept; anything else releases
// the key so a corrected request can reuse it.
func Middleware(k Keeper) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderKey)
		if raw == "" {
			c.Next()
			return
		}
		if len(raw) > maxKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key demasiado larga"})
			return
		}

		ctx := c.Request.Context()
		log := logger.FromCtx(ctx).With(zap.String("layer", "middleware"), zap.String("idempotency_key", raw))

		userID, _ := utils.GetUserIDFromContext(ctx)
		key := fmt.Sprintf("%d:%s %s:%s", userID, c.Request.Method, c.FullPath(), raw)

		created, err := k.Begin(ctx, key, c.Request.Method, c.FullPath())
		if err != nil {
			log.Error("idempotency begin failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
			return
		}

		if !created {
			replay(c, k, key, log)
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		// the outcome must be recorded even if the client went away
		bg := context.WithoutCancel(ctx)
		status := w.Status()
		if status >= 200 && status < 300 {
			if err := k.Complete(bg, key, status, w.body.Bytes()); err != nil {
				log.Error("idempotency complete failed", zap.Error(err))
			}
			return
		}
		if err := k.Release(bg, key); err != nil {
			log.Error("idempotency release failed", zap.Error(err))
		}
	}
}

func replay(c *gin.Context, k Keeper, key string, log *zap.Logger) {
	rec, err := k.Get(c.Request.Context(), key)
	if err != nil {
		log.Error("idempotency lookup failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
		return
	}

	if rec == nil || rec.Status != StatusDone {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Una solicitud con esta Idempotency-Key está en proceso"})
		return
	}

	log.Info("replaying stored response", zap.Int("status", rec.ResponseStatus))
	c.Header("Idempotent-Replayed", "true")
	c.Data(rec.ResponseStatus, "application/json; charset=utf-8", []byte(rec.ResponseBody))
	c.Abort()
}
