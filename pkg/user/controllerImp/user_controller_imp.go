package controllerImp

import (
	"context"
	"errors"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/user/controller"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/user/service"
)

type UserCtrl struct {
	s service.UserService
}

func New(s service.UserService) *UserCtrl { return &UserCtrl{s: s} }

var _ controller.UserController = (*UserCtrl)(nil)

func (h *UserCtrl) Register(r *rpc.Router) {
	g := r.Group("user")
	g.Query("whoami", "", rpc.NoInput(h.WhoAmI))
	g.Mutation("createUser", "user.create", rpc.Bind(h.CreateUser), rpc.RequireAuth)
	g.Query("getProfile", "", rpc.NoInput(h.GetProfile), rpc.RequireAuth)
	g.Mutation("createFarm", "user.createFarm", rpc.Bind(h.CreateFarm), rpc.RequireAuth)
	g.Query("listFarms", "", rpc.NoInput(h.ListFarms), rpc.RequireAuth)
	g.Query("getFarm", "user.getFarm", rpc.Bind(h.GetFarm), rpc.RequireAuth)
}

func (h *UserCtrl) RequireStaff(ctx context.Context, ac auth.Context) error {
	if !ac.IsAuthenticated {
		return rpc.NewError(rpc.CodeUnauthorized, "Authentication required")
	}
	ok, err := h.s.IsStaff(ctx, ac.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return rpc.NewError(rpc.CodeForbidden, "Only admins and extension agents can do this")
	}
	return nil
}

type CreateUserInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type CreateFarmInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type GetFarmInput struct {
	FarmID string `json:"farmId"`
}

type FarmList struct {
	Farms []entities.Farm `json:"farms"`
}

func (h *UserCtrl) WhoAmI(_ context.Context, ac auth.Context) (auth.Context, error) {
	return ac, nil
}

func (h *UserCtrl) CreateUser(ctx context.Context, ac auth.Context, in CreateUserInput) (*entities.User, error) {
	u, err := h.s.CreateUser(ctx, ac.UserID, ac.Email, service.NewUser{Email: in.Email, Name: in.Name, Role: in.Role})
	return u, mapErr(err)
}

func (h *UserCtrl) GetProfile(ctx context.Context, ac auth.Context) (*entities.User, error) {
	u, err := h.s.Profile(ctx, ac.UserID)
	return u, mapErr(err)
}

func (h *UserCtrl) CreateFarm(ctx context.Context, ac auth.Context, in CreateFarmInput) (*entities.Farm, error) {
	f, err := h.s.CreateFarm(ctx, ac.UserID, in.Name, in.Location)
	if errors.Is(err, service.ErrNotRegistered) {
		return nil, rpc.NewError(rpc.CodeForbidden, "Create a user profile before adding farms")
	}
	return f, mapErr(err)
}

func (h *UserCtrl) ListFarms(ctx context.Context, ac auth.Context) (*FarmList, error) {
	fs, err := h.s.ListFarms(ctx, ac.UserID)
	if errors.Is(err, service.ErrNotRegistered) {
		return &FarmList{Farms: []entities.Farm{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &FarmList{Farms: fs}, nil
}

func (h *UserCtrl) GetFarm(ctx context.Context, ac auth.Context, in GetFarmInput) (*entities.Farm, error) {
	f, err := h.s.GetFarm(ctx, ac.UserID, in.FarmID)
	if errors.Is(err, service.ErrNotRegistered) {
		return nil, rpc.NewError(rpc.CodeNotFound, "Farm not found")
	}
	return f, mapErr(err)
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrForbidden):
		return rpc.Wrap(rpc.CodeForbidden, "Only admins can create staff profiles", err)
	case errors.Is(err, service.ErrConflict):
		return rpc.Wrap(rpc.CodeConflict, "User already exists", err)
	case errors.Is(err, service.ErrNotRegistered):
		return rpc.Wrap(rpc.CodeNotFound, "User profile not found", err)
	}
	return err
}
