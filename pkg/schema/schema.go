// Package schema holds the declarative contracts for every Farm-Link entity
// and procedure input. Schemas are JSON Schema (draft 2020-12) documents
// embedded in the binary; each entity additionally gets a "<entity>.create"
// variant derived by omitting the system-assigned fields.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var files embed.FS

const baseURL = "https://farmlink.local/schemas/"

// Entities with a derived create variant.
var Entities = []string{"user", "farm", "crop", "pest", "disease", "weather", "advice"}

// SystemFields are assigned by persistence and never accepted on create.
var SystemFields = []string{"id", "createdAt", "updatedAt"}

// CreateID names the create variant of an entity schema.
func CreateID(entity string) string { return entity + ".create" }

type Registry struct {
	compiled map[string]*jsonschema.Schema
	docs     map[string]any // resource URL -> decoded document
}

// New loads and compiles every embedded schema.
func New() (*Registry, error) {
	raw := map[string][]byte{}
	err := fs.WalkDir(files, "schemas", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".json" {
			return err
		}
		b, err := files.ReadFile(p)
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(path.Base(p), ".json")
		if _, dup := raw[id]; dup {
			return fmt.Errorf("duplicate schema id %q", id)
		}
		raw[id] = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load schemas: %w", err)
	}

	for _, e := range Entities {
		b, ok := raw[e]
		if !ok {
			return nil, fmt.Errorf("entity schema %q not found", e)
		}
		derived, err := omit(b, SystemFields...)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", CreateID(e), err)
		}
		raw[CreateID(e)] = derived
	}

	r := &Registry{compiled: map[string]*jsonschema.Schema{}, docs: map[string]any{}}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	for id, b := range raw {
		var doc any
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("schema %s: %w", id, err)
		}
		r.docs[urlOf(id)] = doc
		if err := c.AddResource(urlOf(id), bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("schema %s: %w", id, err)
		}
	}
	for id := range raw {
		s, err := c.Compile(urlOf(id))
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", id, err)
		}
		r.compiled[id] = s
	}
	return r, nil
}

// MustNew is New for package-level wiring and tests.
func MustNew() *Registry {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func urlOf(id string) string { return baseURL + id + ".json" }

// Has reports whether a schema with the given id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.compiled[id]
	return ok
}

// IDs lists registered schema ids in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.compiled))
	for id := range r.compiled {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Validate decodes raw JSON and checks it against schema id. It returns the
// decoded document on success, *ParseError for malformed JSON and
// *ValidationError when the document breaks the contract.
func (r *Registry) Validate(id string, raw []byte) (any, error) {
	s, ok := r.compiled[id]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", id)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := s.Validate(v); err != nil {
		return nil, r.translate(id, err)
	}
	return v, nil
}

// ValidateValue checks a Go value through its JSON encoding.
func (r *Registry) ValidateValue(id string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %T: %w", v, err)
	}
	_, err = r.Validate(id, b)
	return err
}

// omit removes the named properties from an object schema and from its
// required list.
func omit(b []byte, fields ...string) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	drop := map[string]bool{}
	for _, f := range fields {
		drop[f] = true
	}
	if props, ok := doc["properties"].(map[string]any); ok {
		for f := range drop {
			delete(props, f)
		}
	}
	if req, ok := doc["required"].([]any); ok {
		kept := make([]any, 0, len(req))
		for _, f := range req {
			if s, _ := f.(string); !drop[s] {
				kept = append(kept, f)
			}
		}
		doc["required"] = kept
	}
	if t, ok := doc["title"].(string); ok {
		doc["title"] = "Create" + t
	}
	return json.Marshal(doc)
}
