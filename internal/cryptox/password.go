// Package cryptox implements salted, iterated password hashing.
//
// Hashes are stored in the werkzeug format so rows written by the previous
// backend keep validating:
//
//	pbkdf2:sha256:600000$<salt>$<hex digest>
package cryptox

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/kidslabs/catalog/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	MethodPBKDF2SHA256 = "pbkdf2:sha256"
	MethodPBKDF2SHA512 = "pbkdf2:sha512"

	DefaultIterations = 600000
	DefaultSaltLength = 16
)

var (
	ErrEmptyPassword     = errors.New("empty password")
	ErrUnsupportedMethod = errors.New("unsupported hash method")
	ErrMalformedHash     = errors.New("malformed password hash")
)

// PasswordHasher produces hashes with a fixed method, work factor and salt length.
type PasswordHasher struct {
	Method     string
	Iterations int
	SaltLength int
}

// NewPasswordHasher returns a pbkdf2:sha256 hasher. Non-positive arguments
// fall back to DefaultIterations and DefaultSaltLength.
func NewPasswordHasher(iterations, saltLength int) *PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if saltLength <= 0 {
		saltLength = DefaultSaltLength
	}
	return &PasswordHasher{Method: MethodPBKDF2SHA256, Iterations: iterations, SaltLength: saltLength}
}

// Hash derives a storable hash for password with a fresh random salt.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	newHash, err := hashFunc(h.Method)
	if err != nil {
		return "", err
	}

	salt, err := common.MakeRandString(h.SaltLength, common.AlphaNumeric)
	if err != nil {
		return "", fmt.Errorf("salt generation: %w", err)
	}

	digest := derive(password, salt, h.Iterations, newHash)
	return fmt.Sprintf("%s:%d$%s$%s", h.Method, h.Iterations, salt, hex.EncodeToString(digest)), nil
}

// CheckPassword reports whether password matches stored. Malformed or
// unsupported hashes never match.
func CheckPassword(password, stored string) bool {
	method, iterations, salt, want, err := parse(stored)
	if err != nil {
		return false
	}
	newHash, err := hashFunc(method)
	if err != nil {
		return false
	}
	got := derive(password, salt, iterations, newHash)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func derive(password, salt string, iterations int, newHash func() hash.Hash) []byte {
	return pbkdf2.Key([]byte(password), []byte(salt), iterations, newHash().Size(), newHash)
}

func hashFunc(method string) (func() hash.Hash, error) {
	switch method {
	case MethodPBKDF2SHA256:
		return sha256.New, nil
	case MethodPBKDF2SHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
}

// parse splits "pbkdf2:<hash>:<iterations>$<salt>$<hex>".
func parse(stored string) (method string, iterations int, salt string, digest []byte, err error) {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 || parts[1] == "" {
		return "", 0, "", nil, ErrMalformedHash
	}

	head := strings.Split(parts[0], ":")
	if len(head) != 3 {
		return "", 0, "", nil, ErrMalformedHash
	}
	iterations, err = strconv.Atoi(head[2])
	if err != nil || iterations <= 0 {
		return "", 0, "", nil, ErrMalformedHash
	}

	digest, err = hex.DecodeString(parts[2])
	if err != nil || len(digest) == 0 {
		return "", 0, "", nil, ErrMalformedHash
	}

	return head[0] + ":" + head[1], iterations, parts[1], digest, nil
}
