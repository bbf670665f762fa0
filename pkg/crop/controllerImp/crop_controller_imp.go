package controllerImp

import (
	"context"
	"errors"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/crop/controller"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/crop/service"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
)

type CropCtrl struct {
	s      service.CropService
	guards []rpc.Guard
}

func New(s service.CropService, staff rpc.Guard) *CropCtrl {
	guards := []rpc.Guard{rpc.RequireAuth}
	if staff != nil {
		guards = append(guards, staff)
	}
	return &CropCtrl{s: s, guards: guards}
}

var _ controller.CropController = (*CropCtrl)(nil)

func (h *CropCtrl) Register(r *rpc.Router) {
	g := r.Group("crops")
	g.Query("getRecommendedCrops", "crops.getRecommendedCrops", rpc.Bind(h.GetRecommendedCrops))
	g.Query("getCropDetails", "crops.getCropDetails", rpc.Bind(h.GetCropDetails))
	g.Query("listCrops", "crops.listCrops", rpc.Bind(h.ListCrops))
	g.Mutation("createCrop", "crop.create", rpc.Bind(h.CreateCrop), h.guards...)
}

type RecommendInput struct {
	Location string `json:"location"`
	Season   string `json:"season"`
}

type DetailsInput struct {
	CropID string `json:"cropId"`
}

type ListInput struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (in *ListInput) ApplyDefaults() {
	if in.Limit == 0 {
		in.Limit = 10
	}
}

type CropList struct {
	Crops []entities.Crop `json:"crops"`
}

type CropPage struct {
	Crops []entities.Crop `json:"crops"`
	Total int64           `json:"total"`
}

func (h *CropCtrl) GetRecommendedCrops(ctx context.Context, _ auth.Context, in RecommendInput) (*CropList, error) {
	cs, err := h.s.Recommend(ctx, in.Location, in.Season)
	if errors.Is(err, service.ErrUnknownSeason) {
		return nil, rpc.Wrap(rpc.CodeBadRequest, "Season must be a month name or one of rainy, cool-dry, hot-dry", err)
	}
	if err != nil {
		return nil, err
	}
	return &CropList{Crops: cs}, nil
}

func (h *CropCtrl) GetCropDetails(ctx context.Context, _ auth.Context, in DetailsInput) (*entities.Crop, error) {
	c, err := h.s.Details(ctx, in.CropID)
	if err != nil {
		if e, _ := rpc.FromError(err); e.Code == rpc.CodeNotFound {
			return nil, rpc.Wrap(rpc.CodeNotFound, "Crop not found", err)
		}
		return nil, err
	}
	return c, nil
}

func (h *CropCtrl) ListCrops(ctx context.Context, _ auth.Context, in ListInput) (*CropPage, error) {
	cs, total, err := h.s.List(ctx, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return &CropPage{Crops: cs, Total: total}, nil
}

func (h *CropCtrl) CreateCrop(ctx context.Context, _ auth.Context, in entities.Crop) (*entities.Crop, error) {
	c, err := h.s.Create(ctx, &in)
	if errors.Is(err, service.ErrDuplicateName) {
		return nil, rpc.Wrap(rpc.CodeConflict, "Crop already exists", err)
	}
	return c, err
}
