package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	repo "github.com/Chisowa/Farm-Link-Zambia/pkg/user/repository"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/user/service"
)

type userSvc struct {
	users repo.UserRepository
	farms repo.FarmRepository
}

func NewUserService(users repo.UserRepository, farms repo.FarmRepository) service.UserService {
	return &userSvc{users: users, farms: farms}
}

func (s *userSvc) lookup(ctx context.Context, subject string) (*entities.User, error) {
	u, err := s.users.FindByAuthUID(ctx, subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrNotRegistered
	}
	return u, err
}

func (s *userSvc) CreateUser(ctx context.Context, subject, verifiedEmail string, in service.NewUser) (*entities.User, error) {
	caller, err := s.lookup(ctx, subject)
	if err != nil && !errors.Is(err, service.ErrNotRegistered) {
		return nil, err
	}

	u := &entities.User{Email: strings.TrimSpace(in.Email), Name: strings.TrimSpace(in.Name), Role: in.Role}
	switch {
	case caller != nil && caller.Role == entities.RoleAdmin:
		// left unlinked until its owner registers with a verified email
	case caller != nil:
		return nil, fmt.Errorf("%w: identity already has a profile", service.ErrConflict)
	default:
		if invited, err := s.claim(ctx, subject, verifiedEmail, u.Email); invited != nil || err != nil {
			return invited, err
		}
		if in.Role != entities.RoleFarmer {
			return nil, fmt.Errorf("%w: only admins can create %s profiles", service.ErrForbidden, in.Role)
		}
		sub := subject
		u.AuthUID = &sub
	}

	if _, err := s.users.FindByEmail(ctx, u.Email); err == nil {
		return nil, fmt.Errorf("%w: email %s is taken", service.ErrConflict, u.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %v", service.ErrConflict, err)
		}
		return nil, err
	}
	return u, nil
}

// claim links an unlinked, admin-created profile to subject. It needs the
// identity provider to have verified the same email. A nil user and nil
// error means there is nothing to claim.
func (s *userSvc) claim(ctx context.Context, subject, verifiedEmail, email string) (*entities.User, error) {
	if verifiedEmail == "" || !strings.EqualFold(strings.TrimSpace(verifiedEmail), email) {
		return nil, nil
	}
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if u.AuthUID != nil {
		return nil, nil
	}
	sub := subject
	u.AuthUID = &sub
	if err := s.users.Save(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %v", service.ErrConflict, err)
		}
		return nil, err
	}
	return u, nil
}

func (s *userSvc) Profile(ctx context.Context, subject string) (*entities.User, error) {
	return s.lookup(ctx, subject)
}

func (s *userSvc) IsStaff(ctx context.Context, subject string) (bool, error) {
	u, err := s.lookup(ctx, subject)
	if errors.Is(err, service.ErrNotRegistered) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsStaff(), nil
}

func (s *userSvc) SetRole(ctx context.Context, email, role string) (*entities.User, error) {
	switch role {
	case entities.RoleAdmin, entities.RoleAgent, entities.RoleFarmer:
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	u.Role = role
	return u, s.users.Save(ctx, u)
}

func (s *userSvc) CreateFarm(ctx context.Context, subject, name, location string) (*entities.Farm, error) {
	u, err := s.lookup(ctx, subject)
	if err != nil {
		return nil, err
	}
	f := &entities.Farm{Name: strings.TrimSpace(name), Location: strings.TrimSpace(location), UserID: u.ID}
	if err := s.farms.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *userSvc) ListFarms(ctx context.Context, subject string) ([]entities.Farm, error) {
	u, err := s.lookup(ctx, subject)
	if err != nil {
		return nil, err
	}
	return s.farms.ListByUser(ctx, u.ID)
}

func (s *userSvc) GetFarm(ctx context.Context, subject, farmID string) (*entities.Farm, error) {
	u, err := s.lookup(ctx, subject)
	if err != nil {
		return nil, err
	}
	return s.farms.FindByID(ctx, farmID, u.ID)
}
