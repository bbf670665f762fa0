package controller

import "github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"

// CropController exposes the crops.* procedures.
type CropController interface {
	Register(r *rpc.Router)
}
