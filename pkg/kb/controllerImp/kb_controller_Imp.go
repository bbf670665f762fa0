package controllerImp

import (
	"context"
	"errors"
	"strings"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/controller"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/fetcher"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/service"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/serviceImp"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
)

type KBCtrl struct {
	s      service.KBService
	fetch  *fetcher.Fetcher
	guards []rpc.Guard
}

// New wires the knowledge procedures. staff guards the ingest mutations on
// top of RequireAuth.
func New(s service.KBService, f *fetcher.Fetcher, staff rpc.Guard) *KBCtrl {
	guards := []rpc.Guard{rpc.RequireAuth}
	if staff != nil {
		guards = append(guards, staff)
	}
	return &KBCtrl{s: s, fetch: f, guards: guards}
}

var _ controller.KBController = (*KBCtrl)(nil)

func (h *KBCtrl) Register(r *rpc.Router) {
	g := r.Group("knowledge")
	g.Mutation("ingestText", "knowledge.ingestText", rpc.Bind(h.IngestText), h.guards...)
	g.Mutation("ingestURL", "knowledge.ingestURL", rpc.Bind(h.IngestURL), h.guards...)
	g.Query("search", "knowledge.search", rpc.Bind(h.Search))
	g.Query("listDocuments", "", rpc.NoInput(h.ListDocuments))
}

type IngestTextInput struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	Tags      string `json:"tags"`
	SourceURL string `json:"sourceUrl"`
}

type IngestURLInput struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Tags  string `json:"tags"`
}

type SearchInput struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

func (in *SearchInput) ApplyDefaults() {
	if in.K == 0 {
		in.K = 6
	}
}

type IngestResult struct {
	Doc    *entities.KBDocument `json:"doc"`
	Chunks int                  `json:"chunks"`
}

type DocumentList struct {
	Documents []entities.KBDocument `json:"documents"`
}

type SearchResult struct {
	Results []service.Hit `json:"results"`
}

func (h *KBCtrl) IngestText(ctx context.Context, _ auth.Context, in IngestTextInput) (*IngestResult, error) {
	doc, n, err := h.s.UpsertDocument(ctx, strings.TrimSpace(in.Title), strings.TrimSpace(in.Tags), in.Text, strings.TrimSpace(in.SourceURL))
	if err != nil {
		return nil, mapErr(err)
	}
	return &IngestResult{Doc: doc, Chunks: n}, nil
}

func (h *KBCtrl) IngestURL(ctx context.Context, _ auth.Context, in IngestURLInput) (*IngestResult, error) {
	txt, title, err := h.fetch.Fetch(ctx, in.URL)
	if err != nil {
		return nil, mapErr(err)
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		title = t
	}
	if title == "" {
		title = in.URL
	}
	doc, n, err := h.s.UpsertDocument(ctx, title, strings.TrimSpace(in.Tags), txt, in.URL)
	if err != nil {
		return nil, mapErr(err)
	}
	return &IngestResult{Doc: doc, Chunks: n}, nil
}

func (h *KBCtrl) Search(ctx context.Context, _ auth.Context, in SearchInput) (*SearchResult, error) {
	hits, err := h.s.Search(ctx, in.Query, in.K)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Results: hits}, nil
}

func (h *KBCtrl) ListDocuments(ctx context.Context, _ auth.Context) (*DocumentList, error) {
	ds, err := h.s.Documents(ctx)
	if err != nil {
		return nil, err
	}
	return &DocumentList{Documents: ds}, nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, fetcher.ErrDomainNotAllowed):
		return rpc.NewError(rpc.CodeForbidden, "Domain is not in the allowed list")
	case errors.Is(err, fetcher.ErrTooLarge), errors.Is(err, fetcher.ErrUnsupportedType):
		return rpc.Wrap(rpc.CodeBadRequest, err.Error(), err)
	case errors.Is(err, fetcher.ErrUpstream):
		return rpc.Wrap(rpc.CodeBadGateway, "Could not fetch page", err)
	case errors.Is(err, serviceImp.ErrEmptyDocument):
		return rpc.Wrap(rpc.CodeBadRequest, "Document has no text", err)
	}
	return err
}
