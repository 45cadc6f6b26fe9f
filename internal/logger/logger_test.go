package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tecnoroute-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	core, observed := observer.New(zapcore.DebugLevel)
	t.Cleanup(Replace(zap.New(core)))
	return observed
}

func TestInit(t *testing.T) {
	t.Cleanup(Replace(nil))

	for _, env := range []string{"production", "staging", "development", ""} {
		t.Run("env="+env, func(t *testing.T) {
			Init(env)
			require.NotNil(t, log)
			assert.True(t, log.Core().Enabled(zapcore.ErrorLevel))
		})
	}

	t.Run("test env is silent", func(t *testing.T) {
		Init("test")
		assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("LOG_LEVEL override", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "warn")
		Init("production")
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("bad LOG_LEVEL keeps default", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")
		Init("production")
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})
}

func TestLLazyInit(t *testing.T) {
	t.Cleanup(Replace(nil))
	t.Setenv("APP_ENV", "test")

	assert.NotNil(t, L())
	assert.NotNil(t, log)
}

func TestReplaceRestores(t *testing.T) {
	prev := L()

	restore := Replace(zap.NewNop())
	assert.NotSame(t, prev, log)

	restore()
	assert.Same(t, prev, log)
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-7")
	assert.Equal(t, "req-7", RequestIDFrom(ctx))
	assert.Empty(t, RequestIDFrom(context.Background()))
}

func TestFromCtxFields(t *testing.T) {
	observed := observe(t)

	cases := []struct {
		name   string
		ctx    context.Context
		fields map[string]any
	}{
		{
			name:   "bare context",
			ctx:    context.Background(),
			fields: map[string]any{},
		},
		{
			name:   "request id",
			ctx:    WithRequestID(context.Background(), "req-1"),
			fields: map[string]any{"request_id": "req-1"},
		},
		{
			name: "request id and user",
			ctx: utils.SetUserContext(
				WithRequestID(context.Background(), "req-2"), 42, "ana@example.com", "conductor",
			),
			fields: map[string]any{"request_id": "req-2", "user_id": uint64(42)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			FromCtx(tc.ctx).Info("scoped")

			logs := observed.TakeAll()
			require.Len(t, logs, 1)
			assert.Equal(t, tc.fields, logs[0].ContextMap())
		})
	}
}

func TestSyncWithoutLogger(t *testing.T) {
	t.Cleanup(Replace(nil))
	assert.NotPanics(t, Sync)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	t.Run("generates when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pedidos/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/envios/", nil)
		req.Header.Set(RequestIDHeader, "edge-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "edge-123", seen)
		assert.Equal(t, "edge-123", w.Header().Get(RequestIDHeader))
	})
}
