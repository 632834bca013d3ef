package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kidslabs/catalog/internal/common"
)

// accessTokenType is the "type" claim carried by access tokens. Tokens of any
// other type (refresh tokens) are rejected.
const accessTokenType = "access"

// GenerateToken signs an HS256 access token for subject. The catalog never
// issues tokens itself; this exists for tooling and tests that need tokens in
// the same shape the issuing service produces.
func GenerateToken(subject string, secretKey []byte, validityDuration time.Duration) (string, error) {
	issued := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"type": accessTokenType,
		"iat":  jwt.NewNumericDate(issued),
		"nbf":  jwt.NewNumericDate(issued),
		"exp":  jwt.NewNumericDate(issued.Add(validityDuration)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// SubjectFromToken validates tokenString and returns its subject. Numeric
// subjects are accepted and rendered in decimal. A valid token whose subject
// is empty, null or the number 0 names no user and yields "" with a nil
// error; a token without a sub claim is invalid.
func SubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	if typ, ok := claims["type"]; ok && typ != accessTokenType {
		return "", common.ErrInvalidToken
	}

	sub, ok := claims["sub"]
	if !ok {
		return "", common.ErrInvalidToken
	}

	switch v := sub.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		if v == 0 {
			return "", nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", common.ErrInvalidToken
	}
}
