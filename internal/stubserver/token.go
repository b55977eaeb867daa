package stubserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const idTokenExpiry = time.Hour * 24

// Claims carried by the stub's idToken. The client stores the token and
// may present it to /auth/verify; coaching endpoints ignore it.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
}

func newTokenIssuer(secret string) *tokenIssuer {
	if secret == "" {
		secret = "zenfit-stub-secret"
	}
	return &tokenIssuer{secret: []byte(secret)}
}

// Issue creates an idToken for the given user.
func (t *tokenIssuer) Issue(uid, email string) (string, error) {
	claims := &Claims{
		UID:   uid,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(idTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   email,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses the token and extracts its claims.
func (t *tokenIssuer) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, errors.New("invalid or malformed token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errors.New("token has expired")
	}
	return claims, nil
}
