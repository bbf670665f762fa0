package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Issue is one field-level validation failure.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Keyword string `json:"keyword,omitempty"`
}

type ValidationError struct {
	Schema string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, is.Path+": "+is.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// ParseError reports input that is not JSON at all.
type ParseError struct{ Err error }

func (e *ParseError) Error() string { return "malformed JSON: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

var quotedRX = regexp.MustCompile(`'([^']*)'`)

func (r *Registry) translate(id string, err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate %s: %w", id, err)
	}
	out := &ValidationError{Schema: id}
	r.collect(ve, out)
	if len(out.Issues) == 0 {
		out.Issues = append(out.Issues, Issue{Message: ve.Message})
	}
	return out
}

func (r *Registry) collect(ve *jsonschema.ValidationError, out *ValidationError) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			r.collect(c, out)
		}
		return
	}
	keyword := lastSegment(ve.KeywordLocation)
	at := pointerToPath(ve.InstanceLocation)

	if keyword == "required" {
		for _, m := range quotedRX.FindAllStringSubmatch(ve.Message, -1) {
			out.Issues = append(out.Issues, Issue{Path: join(at, m[1]), Message: "Required", Keyword: keyword})
		}
		return
	}
	msg := ve.Message
	if custom := r.customMessage(ve.AbsoluteKeywordLocation); custom != "" {
		msg = custom
	}
	out.Issues = append(out.Issues, Issue{Path: at, Message: msg, Keyword: keyword})
}

// customMessage looks for an "errorMessage" on the schema node that owns the
// failing keyword.
func (r *Registry) customMessage(absLoc string) string {
	url, ptr, ok := strings.Cut(absLoc, "#")
	if !ok {
		return ""
	}
	doc, ok := r.docs[url]
	if !ok {
		return ""
	}
	i := strings.LastIndex(ptr, "/")
	if i < 0 {
		return ""
	}
	node, ok := resolvePointer(doc, ptr[:i])
	if !ok {
		return ""
	}
	m, _ := node.(map[string]any)
	s, _ := m["errorMessage"].(string)
	return s
}

func resolvePointer(doc any, ptr string) (any, bool) {
	if ptr == "" {
		return doc, true
	}
	cur := doc
	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[tok]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// pointerToPath turns "/forecast/0/date" into "forecast.0.date".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	segs := strings.Split(ptr, "/")
	for i, s := range segs {
		segs[i] = strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
	}
	return strings.Join(segs, ".")
}

func lastSegment(loc string) string {
	if i := strings.LastIndex(loc, "/"); i >= 0 {
		return loc[i+1:]
	}
	return loc
}

func join(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}
