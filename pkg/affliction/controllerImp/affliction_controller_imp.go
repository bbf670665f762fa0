package controllerImp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/controller"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/service"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"
)

type Ctrl[T affliction.Record] struct {
	kind   affliction.Kind[T]
	s      service.Service[T]
	guards []rpc.Guard
}

func New[T affliction.Record](kind affliction.Kind[T], s service.Service[T], staff rpc.Guard) *Ctrl[T] {
	guards := []rpc.Guard{rpc.RequireAuth}
	if staff != nil {
		guards = append(guards, staff)
	}
	return &Ctrl[T]{kind: kind, s: s, guards: guards}
}

var (
	_ controller.AfflictionController = (*Ctrl[entities.Pest])(nil)
	_ controller.AfflictionController = (*Ctrl[entities.Disease])(nil)
)

// Register adds identify<Noun>, get<Noun>Details, search<Noun>s and
// create<Noun> under the kind's group.
func (h *Ctrl[T]) Register(r *rpc.Router) {
	k := h.kind
	g := r.Group(k.Group)
	g.Query("identify"+k.Noun, "affliction.identify", rpc.Bind(h.Identify))
	g.Query("get"+k.Noun+"Details", k.Group+".get"+k.Noun+"Details", h.details)
	g.Query("search"+k.Noun+"s", "catalog.search", rpc.Bind(h.Search))
	g.Mutation("create"+k.Noun, schema.CreateID(k.Entity), rpc.Bind(h.Create), h.guards...)
}

type IdentifyInput struct {
	Symptoms     []string `json:"symptoms"`
	AffectedCrop string   `json:"affectedCrop"`
}

type SearchInput struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (in *SearchInput) ApplyDefaults() {
	if in.Limit == 0 {
		in.Limit = 20
	}
}

type SearchResult[T any] struct {
	Results []T `json:"results"`
}

func (h *Ctrl[T]) Identify(ctx context.Context, _ auth.Context, in IdentifyInput) (map[string][]affliction.Match, error) {
	ms, err := h.s.Identify(ctx, in.Symptoms, in.AffectedCrop)
	if err != nil {
		return nil, err
	}
	return map[string][]affliction.Match{h.kind.ResultKey: ms}, nil
}

// details reads the id under the kind's own field name (pestId, diseaseId).
func (h *Ctrl[T]) details(ctx context.Context, _ auth.Context, raw json.RawMessage) (any, error) {
	var in map[string]any
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, rpc.Wrap(rpc.CodeBadRequest, "Input does not match procedure", err)
	}
	id, _ := in[h.kind.IDField].(string)
	rec, err := h.s.Details(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, h.notFound(err)
	}
	return rec, nil
}

func (h *Ctrl[T]) Search(ctx context.Context, _ auth.Context, in SearchInput) (*SearchResult[T], error) {
	rs, err := h.s.Search(ctx, in.Query, in.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchResult[T]{Results: rs}, nil
}

func (h *Ctrl[T]) Create(ctx context.Context, _ auth.Context, in T) (*T, error) {
	rec, err := h.s.Create(ctx, &in)
	if errors.Is(err, service.ErrDuplicateName) {
		return nil, rpc.Wrap(rpc.CodeConflict, h.kind.Noun+" already exists", err)
	}
	return rec, err
}

func (h *Ctrl[T]) notFound(err error) error {
	if e, _ := rpc.FromError(err); e.Code == rpc.CodeNotFound {
		return rpc.Wrap(rpc.CodeNotFound, h.kind.Noun+" not found", err)
	}
	return err
}
