package auth

import (
	"context"

	"stocks-portfolio/models"
)

// GuestName is the display name of an anonymous visitor.
const GuestName = "Guest"

// Principal is the identity acting on a request. The zero value is an
// anonymous visitor.
type Principal struct {
	UserID  uint
	Login   string
	IsAdmin bool
}

// Anonymous is the principal of an unauthenticated request.
var Anonymous = Principal{}

func PrincipalFor(u models.User) Principal {
	return Principal{UserID: u.ID, Login: u.Login, IsAdmin: u.IsAdmin}
}

func (p Principal) Authenticated() bool {
	return p.UserID != 0
}

// ID returns the user id, or false for anonymous visitors.
func (p Principal) ID() (uint, bool) {
	return p.UserID, p.Authenticated()
}

// Admin reports administrator rights. Anonymous visitors are never admins.
func (p Principal) Admin() bool {
	return p.Authenticated() && p.IsAdmin
}

func (p Principal) Name() string {
	if !p.Authenticated() || p.Login == "" {
		return GuestName
	}
	return p.Login
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, Anonymous if none.
func FromContext(ctx context.Context) Principal {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok {
		return Anonymous
	}
	return p
}
