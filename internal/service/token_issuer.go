package service

import (
	"fmt"
	"time"

	"efi_checklist/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs the bearer token that scopes requests to one session.
type TokenIssuer struct {
	issuer string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		issuer: cfg.App.Name,
		secret: []byte(cfg.JWT.SecretKey),
		ttl:    cfg.JWT.AccessTokenTTL,
		now:    time.Now,
	}
}

// Issue returns a HS256 token whose subject is the session id.
func (i *TokenIssuer) Issue(sessionID uuid.UUID) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := &jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   sessionID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("TokenIssuer.Issue: %w", err)
	}
	return signed, expiresAt, nil
}
