package controller

import "github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"

// KBController exposes the knowledge base as the knowledge.* procedures.
type KBController interface {
	Register(r *rpc.Router)
}
