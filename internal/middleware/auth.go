package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"efi_checklist/internal/config"
	"efi_checklist/internal/model"
	"efi_checklist/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionAuthMiddleware は Authorization: Bearer <token> を検証し、
// subject のセッションIDをコンテキストに格納します。
func SessionAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Session auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Se requiere el encabezado Authorization.", "", model.ErrUnauthorized))
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("Session auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Formato del encabezado Authorization inválido.", "", model.ErrUnauthorized))
				return
			}

			sessionID, err := parseSessionToken(headerParts[1], []byte(cfg.JWT.SecretKey), cfg.App.Name)
			if err != nil {
				logger.Warn("Session auth failed: Invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token de sesión inválido o expirado.", "", model.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), model.SessionIDKey, sessionID)
			ctx = WithLogger(ctx, logger.With("session_id", sessionID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseSessionToken は署名 (HS256)、有効期限、発行者を検証します。
func parseSessionToken(tokenString string, secret []byte, issuer string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, errors.New("token is not valid")
	}
	return uuid.Parse(claims.Subject)
}

func GetSessionIDFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(model.SessionIDKey).(uuid.UUID)
	if !ok {
		// ミドルウェアが通っていない
		return uuid.Nil, model.NewAppError("UNAUTHORIZED", "No hay una sesión activa.", "", model.ErrUnauthorized)
	}
	return value, nil
}
