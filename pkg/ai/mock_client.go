package ai

import (
	"context"
	"fmt"
	"strings"
)

type mockClient struct{}

// NewMock answers without calling any model. Every answer is labelled so it
// is never mistaken for real advice.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) Name() string { return "mock" }

func (m *mockClient) Answer(_ context.Context, q Question) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "[mock mode] No language model is configured. You asked: %q.", strings.TrimSpace(q.Query))
	if len(q.Notes) == 0 {
		b.WriteString(" No matching knowledge notes were found; contact your local extension officer.")
		return b.String(), nil
	}
	b.WriteString(" Related knowledge notes:")
	for _, n := range q.Notes {
		fmt.Fprintf(&b, "\n- %s: %s", n.Source, snippet(n.Text, 160))
	}
	return b.String(), nil
}

func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
