package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer   = "folio-web"
	audience = "folio.admin"
)

var jwtSecret string

var ErrNoSecret = errors.New("JWT secret not initialized")

func InitJWT() error {
	secret, ok := os.LookupEnv("JWT_SECRET")
	if !ok || secret == "" {
		return fmt.Errorf("JWT_SECRET not specified")
	}

	SetSecret(secret)
	return nil
}

func SetSecret(secret string) {
	jwtSecret = secret
}

func JwtKeyFunc(token *jwt.Token) (interface{}, error) {
	if jwtSecret == "" {
		return nil, ErrNoSecret
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return []byte(jwtSecret), nil
}

func Authorize(username string, timeout time.Duration) (string, error) {
	if jwtSecret == "" {
		return "", ErrNoSecret
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   username,
		Audience:  []string{audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(timeout)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	return token.SignedString([]byte(jwtSecret))
}

// Verify checks a token issued by Authorize and returns its subject.
func Verify(signedToken string) (username string, err error) {
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(signedToken, claims, JwtKeyFunc,
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}

	return claims.Subject, nil
}
