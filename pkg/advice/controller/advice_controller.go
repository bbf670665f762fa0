package controller

import "github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"

// AdviceController exposes the advice.* procedures.
type AdviceController interface {
	Register(r *rpc.Router)
}
