package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dlcaspar/apt-journal/backend/internal/common/jwtverify"
	"github.com/dlcaspar/apt-journal/backend/internal/observability/metrics"
)

// TokenIssuer signs HS256 tokens asserting a username claim. A zero ttl
// means issued tokens carry no expiry at all; the deployment opts into that
// by leaving JWT_DELTA_MINUTES unset.
type TokenIssuer struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenIssuer(jwtSecret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

func (ti *TokenIssuer) IssueToken(username string) (string, error) {
	now := ti.now()
	claims := jwt.MapClaims{
		"username": username,
		"iat":      now.Unix(),
	}
	if ti.ttl > 0 {
		claims["exp"] = now.Add(ti.ttl).Unix()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	metrics.TokensIssued.Inc()
	return tokenString, nil
}

func (ti *TokenIssuer) ParseToken(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret)
}
