package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecretKey signs and verifies tokens. It is shared with the listings API, which
// issues the tokens the mobile app holds; SetSecret installs it at start-up.
var jwtSecretKey []byte

// ErrNoSecret is returned while no signing key has been configured.
var ErrNoSecret = errors.New("jwt secret is not configured")

// SetSecret installs the HS256 key.
func SetSecret(secret string) {
	jwtSecretKey = []byte(secret)
}

// GenerateToken creates a signed token for userID valid for ttl. The API only validates;
// feedctl --sign-as uses this to mint development tokens.
func GenerateToken(userID string, ttl time.Duration) (string, error) {
	if len(jwtSecretKey) == 0 {
		return "", ErrNoSecret
	}

	// 1. Create the claims. "sub" carries the user id.
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	// 2. Sign with HS256.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecretKey)
}

// ValidateToken parses and validates a token string and returns its subject.
func ValidateToken(tokenString string) (string, error) {
	if len(jwtSecretKey) == 0 {
		return "", ErrNoSecret
	}

	// 1. Parse, rejecting anything that is not HMAC signed.
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecretKey, nil
	})
	if err != nil {
		return "", err
	}

	// 2. The subject is the user id.
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid subject claim")
	}
	return claims.Subject, nil
}
