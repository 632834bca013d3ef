// Package auth resolves the caller of a request from its bearer token.
//
// Resolution never fails open: a request either carries a valid access token
// and yields an Authenticated caller, or it is Anonymous. Whether Anonymous is
// acceptable is decided by the route, not here.
package auth

import (
	"context"
	"strings"

	"github.com/kidslabs/catalog/internal/common"
)

// Caller is the identity behind a request. The zero value is Anonymous.
type Caller struct {
	id string
}

// Anonymous returns a caller with no identity.
func Anonymous() Caller { return Caller{} }

// Authenticated returns a caller identified by id.
func Authenticated(id string) Caller { return Caller{id: id} }

// UserID returns the caller's identity and whether there is one.
func (c Caller) UserID() (string, bool) { return c.id, c.id != "" }

func (c Caller) IsAuthenticated() bool { return c.id != "" }

func (c Caller) String() string {
	if c.id == "" {
		return "anonymous"
	}
	return "user:" + c.id
}

// Resolver turns an Authorization header into a Caller.
type Resolver struct {
	secretKey []byte
}

func NewResolver(secretKey []byte) *Resolver {
	return &Resolver{secretKey: secretKey}
}

// Resolve returns Anonymous together with common.ErrMissingToken when header
// is empty, or with a common.ErrInvalidToken / common.ErrTokenExpired error
// when the token cannot be trusted. A trusted token without a user identity
// resolves to Anonymous and a nil error.
func (r *Resolver) Resolve(header string) (Caller, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Anonymous(), common.ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return Anonymous(), common.ErrInvalidToken
	}

	subject, err := SubjectFromToken(strings.TrimSpace(token), r.secretKey)
	if err != nil {
		return Anonymous(), err
	}
	if subject == "" {
		return Anonymous(), nil
	}
	return Authenticated(subject), nil
}

type callerKey struct{}

// WithCaller returns a copy of ctx carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext returns the caller stored by WithCaller, or Anonymous.
func CallerFromContext(ctx context.Context) Caller {
	if c, ok := ctx.Value(callerKey{}).(Caller); ok {
		return c
	}
	return Anonymous()
}
