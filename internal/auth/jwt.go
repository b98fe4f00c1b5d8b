package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTVerifier validates HS256 tokens whose subject claim carries the user id.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: no subject claim", ErrUnauthenticated)
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: subject is not a user id", ErrUnauthenticated)
	}

	return Identity{UserID: userID}, nil
}
