// Package rpc is the typed procedure tree behind /trpc. Procedures are
// registered by dotted path, declare whether they are queries or mutations,
// and validate their input against a named schema before the handler runs.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"
)

type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

type Handler func(ctx context.Context, ac auth.Context, input json.RawMessage) (any, error)

// Guard runs before input validation; a non-nil error aborts the call.
type Guard func(ctx context.Context, ac auth.Context) error

type Procedure struct {
	Path    string
	Kind    Kind
	Schema  string
	Guards  []Guard
	Handler Handler
}

// Observer is told about every finished call. code is "OK" on success.
type Observer interface {
	ObserveCall(path string, kind Kind, code string, d time.Duration)
}

type Router struct {
	procs   map[string]*Procedure
	schemas *schema.Registry
	log     *zap.Logger
	obs     Observer
}

type Option func(*Router)

func WithObserver(o Observer) Option { return func(r *Router) { r.obs = o } }

func WithLogger(l *zap.Logger) Option { return func(r *Router) { r.log = l } }

func NewRouter(schemas *schema.Registry, opts ...Option) *Router {
	r := &Router{procs: map[string]*Procedure{}, schemas: schemas, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register adds p. Duplicate paths and unknown schema ids are programming
// errors and panic.
func (r *Router) Register(p Procedure) {
	if _, dup := r.procs[p.Path]; dup {
		panic(fmt.Sprintf("rpc: duplicate procedure %q", p.Path))
	}
	if p.Schema != "" && !r.schemas.Has(p.Schema) {
		panic(fmt.Sprintf("rpc: procedure %q uses unknown schema %q", p.Path, p.Schema))
	}
	r.procs[p.Path] = &p
}

type Group struct {
	r      *Router
	prefix string
}

func (r *Router) Group(prefix string) *Group { return &Group{r: r, prefix: prefix} }

func (g *Group) Query(name, schemaID string, h Handler, guards ...Guard) {
	g.r.Register(Procedure{Path: g.prefix + "." + name, Kind: KindQuery, Schema: schemaID, Guards: guards, Handler: h})
}

func (g *Group) Mutation(name, schemaID string, h Handler, guards ...Guard) {
	g.r.Register(Procedure{Path: g.prefix + "." + name, Kind: KindMutation, Schema: schemaID, Guards: guards, Handler: h})
}

// Procedures lists registered procedures sorted by path.
func (r *Router) Procedures() []Procedure {
	out := make([]Procedure, 0, len(r.procs))
	for _, p := range r.procs {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

var emptyObject = json.RawMessage(`{}`)

// UnknownPath is the observer label for calls to unregistered paths, which
// keeps caller-chosen strings out of metric labels.
const UnknownPath = "<unknown>"

// Call resolves path, checks kind and guards, validates raw and runs the
// handler. Any returned error is an *Error.
func (r *Router) Call(ctx context.Context, ac auth.Context, path string, kind Kind, raw json.RawMessage) (out any, err error) {
	start := time.Now()
	label := UnknownPath
	defer func() {
		if r.obs == nil {
			return
		}
		code := "OK"
		if err != nil {
			code = string(err.(*Error).Code)
		}
		r.obs.ObserveCall(label, kind, code, time.Since(start))
	}()

	p, ok := r.procs[path]
	if !ok {
		return nil, Errorf(CodeNotFound, "No procedure found on path %q", path)
	}
	label = p.Path
	if p.Kind != kind {
		return nil, Errorf(CodeMethodNotSupported, "Procedure %q is a %s", path, p.Kind)
	}
	for _, g := range p.Guards {
		if gerr := g(ctx, ac); gerr != nil {
			return nil, r.normalise(path, gerr)
		}
	}

	if t := bytes.TrimSpace(raw); len(t) == 0 || bytes.Equal(t, []byte("null")) {
		raw = emptyObject
	}
	if p.Schema != "" {
		if _, verr := r.schemas.Validate(p.Schema, raw); verr != nil {
			var pe *schema.ParseError
			if errors.As(verr, &pe) {
				return nil, Wrap(CodeParseError, "Invalid JSON input", verr)
			}
			return nil, r.normalise(path, verr)
		}
	}

	out, herr := p.Handler(ctx, ac, raw)
	if herr != nil {
		return nil, r.normalise(path, herr)
	}
	return out, nil
}

func (r *Router) normalise(path string, err error) *Error {
	e, expected := FromError(err)
	if !expected {
		r.log.Error("procedure failed", zap.String("path", path), zap.Error(err))
	} else if e.Cause != nil && e.Code.HTTPStatus() >= 500 {
		r.log.Warn("procedure failed", zap.String("path", path), zap.String("code", string(e.Code)), zap.Error(e.Cause))
	}
	return e
}

// RequireAuth rejects anonymous callers.
func RequireAuth(_ context.Context, ac auth.Context) error {
	if !ac.IsAuthenticated {
		return NewError(CodeUnauthorized, "Authentication required")
	}
	return nil
}
