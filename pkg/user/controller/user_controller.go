package controller

import (
	"context"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
)

// UserController exposes user profiles and farms as the user.* procedures.
type UserController interface {
	Register(r *rpc.Router)
	// RequireStaff is a guard for catalogue curation procedures.
	RequireStaff(ctx context.Context, ac auth.Context) error
}
