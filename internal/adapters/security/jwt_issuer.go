package security

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

const issuer = "records-service"

type sessionClaims struct {
	Name string               `json:"name"`
	Role domain.Role          `json:"role"`
	Kind domain.PrincipalKind `json:"kind"`
	jwt.RegisteredClaims
}

// JWTIssuer signs RS256 session tokens. The jti claim is the session id; every
// other claim is informational since requests are authorized from the stored
// session.
type JWTIssuer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	now        func() time.Time
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

func NewJWTIssuer(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) *JWTIssuer {
	return &JWTIssuer{privateKey: privateKey, publicKey: publicKey, now: time.Now}
}

func (j *JWTIssuer) Issue(s domain.Session, ttl time.Duration) (string, error) {
	if s.ID == "" {
		return "", errors.New("session id is required")
	}
	issued := s.IssuedAt
	if issued.IsZero() {
		issued = j.now()
	}
	claims := sessionClaims{
		Name: s.DisplayName,
		Role: s.Role,
		Kind: s.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   strconv.FormatInt(s.PrincipalID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(j.privateKey)
}

func (j *JWTIssuer) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || claims.ID == "" {
		return "", errors.New("token carries no session id")
	}
	return claims.ID, nil
}
