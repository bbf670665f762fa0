// Package auth resolves the caller identity attached to every procedure call.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context is the per-request identity handed to procedures.
type Context struct {
	UserID          string `json:"userId,omitempty"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	// Email is set only when the identity provider vouches for it.
	Email string `json:"email,omitempty"`
}

func Anonymous() Context { return Context{} }

func Authenticated(uid string) Context { return Context{UserID: uid, IsAuthenticated: true} }

func (c Context) WithEmail(email string) Context {
	c.Email = strings.TrimSpace(email)
	return c
}

type Mode string

const (
	ModeNone     Mode = "none"
	ModeFirebase Mode = "firebase"
	ModeDev      Mode = "dev"
)

const (
	DevCookie      = "FARMLINK_UID"
	DevHeader      = "X-User-Id"
	DevEmailHeader = "X-User-Email"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNone, ModeFirebase, ModeDev:
		return m, nil
	case "":
		return ModeFirebase, nil
	default:
		return "", fmt.Errorf("unknown auth mode %q (want none|firebase|dev)", s)
	}
}

// Identity is what a verified token proves about its holder.
type Identity struct {
	Subject string
	Email   string // empty unless verified by the provider
}

// TokenVerifier checks a bearer token and returns who it belongs to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type ContextFactory struct {
	mode     Mode
	verifier TokenVerifier
	log      *zap.Logger
}

func NewContextFactory(mode Mode, v TokenVerifier, log *zap.Logger) (*ContextFactory, error) {
	if mode == ModeFirebase && v == nil {
		return nil, fmt.Errorf("auth mode %s needs a token verifier", mode)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ContextFactory{mode: mode, verifier: v, log: log}, nil
}

func (f *ContextFactory) Mode() Mode { return f.mode }

// Create never fails: anything it cannot prove yields Anonymous.
func (f *ContextFactory) Create(c echo.Context) Context {
	switch f.mode {
	case ModeDev:
		if uid := strings.TrimSpace(c.Request().Header.Get(DevHeader)); uid != "" {
			return Authenticated(uid).WithEmail(c.Request().Header.Get(DevEmailHeader))
		}
		if ck, err := c.Cookie(DevCookie); err == nil && ck.Value != "" {
			return Authenticated(ck.Value)
		}
	case ModeFirebase:
		token := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
		if token == "" {
			return Anonymous()
		}
		id, err := f.verifier.Verify(c.Request().Context(), token)
		if err != nil {
			f.log.Debug("rejected bearer token", zap.Error(err))
			return Anonymous()
		}
		return Authenticated(id.Subject).WithEmail(id.Email)
	}
	return Anonymous()
}

func bearer(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
