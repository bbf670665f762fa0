package controller

import "github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"

// AfflictionController exposes one catalogue (pests or diseases) as procedures.
type AfflictionController interface {
	Register(r *rpc.Router)
}
