package middleware

import (
	"net/http"

	"tecnoroute-be/internal/auth"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/user"
	"tecnoroute-be/internal/utils"

	"go.uber.org/zap"
)

// AuthMiddleware attaches the token's user to the context. Requests without a
// token pass through anonymously; an invalid token is rejected with 401.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			logger.FromCtx(r.Context()).Info("rejected access token",
				zap.String("layer", "middleware"),
				zap.Error(err),
			)
			utils.WriteJSONError(w, "Token inválido o expirado", http.StatusUnauthorized)
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
