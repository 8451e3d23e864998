// Package session holds the authenticated identity of the person using the
// client: the bearer token, their user id and their role.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cinema-cli/model"
)

var ErrNotLoggedIn = errors.New("please log in first")

// Context is the identity passed explicitly to every authenticated operation.
type Context struct {
	Token  string     `json:"token"`
	UserId int        `json:"id"`
	Name   string     `json:"user"`
	Role   model.Role `json:"role"`
}

func FromLogin(res model.LoginResponse) Context {
	return Context{
		Token:  res.Token,
		UserId: res.Id,
		Name:   res.Name,
		Role:   res.Role,
	}
}

func (c Context) IsZero() bool {
	return c == Context{}
}

// HasUser reports whether bookings can be made on behalf of this session:
// it needs both a token and a user id.
func (c Context) HasUser() bool {
	return c.Token != "" && c.UserId > 0
}

func (c Context) IsAdmin() bool {
	return c.Role.IsAdmin()
}

// ExpiresAt reads the exp claim of the token without verifying its signature.
func (c Context) ExpiresAt() (time.Time, bool) {
	if c.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (c Context) Expired(now time.Time) bool {
	exp, ok := c.ExpiresAt()
	return ok && !now.Before(exp)
}

type contextKey struct{}

// NewContext attaches the session to ctx so outbound requests can carry its token.
func NewContext(ctx context.Context, sess Context) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

func FromContext(ctx context.Context) (Context, bool) {
	sess, ok := ctx.Value(contextKey{}).(Context)
	return sess, ok
}
