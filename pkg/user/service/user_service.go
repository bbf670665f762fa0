package service

import (
	"context"
	"errors"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

var (
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("already exists")
	ErrNotRegistered = errors.New("caller has no user profile")
)

type NewUser struct {
	Email string
	Name  string
	Role  string
}

type UserService interface {
	// CreateUser registers a profile. An unregistered caller may only create
	// their own farmer profile, or claim a profile an admin created for their
	// verifiedEmail. Admins may create any profile.
	CreateUser(ctx context.Context, subject, verifiedEmail string, in NewUser) (*entities.User, error)
	Profile(ctx context.Context, subject string) (*entities.User, error)
	IsStaff(ctx context.Context, subject string) (bool, error)
	SetRole(ctx context.Context, email, role string) (*entities.User, error)

	CreateFarm(ctx context.Context, subject, name, location string) (*entities.Farm, error)
	ListFarms(ctx context.Context, subject string) ([]entities.Farm, error)
	GetFarm(ctx context.Context, subject, farmID string) (*entities.Farm, error)
}
