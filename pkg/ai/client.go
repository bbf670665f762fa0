package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is returned when the model could not produce an answer.
var ErrUnavailable = errors.New("language model unavailable")

// Note is one retrieved knowledge snippet offered to the model as context.
type Note struct {
	Source string
	Text   string
}

type Question struct {
	Query    string
	Language string
	Notes    []Note
}

type Client interface {
	Answer(ctx context.Context, q Question) (string, error)
	Name() string
}

const systemPrompt = "You are an agricultural extension officer advising smallholder farmers in Zambia. " +
	"Give practical, locally appropriate advice in short paragraphs or bullet points. " +
	"Prefer the KNOWLEDGE NOTES when they are relevant and say so when you are unsure."

func renderPrompt(q Question) string {
	var b strings.Builder
	lang := q.Language
	if lang == "" {
		lang = "en"
	}
	fmt.Fprintf(&b, "Answer in language code %q.\n\nQUESTION:\n%s\n", lang, strings.TrimSpace(q.Query))
	if len(q.Notes) > 0 {
		b.WriteString("\nKNOWLEDGE NOTES:\n")
		for i, n := range q.Notes {
			fmt.Fprintf(&b, "[%d] %s\n%s\n", i+1, n.Source, strings.TrimSpace(n.Text))
		}
	}
	return b.String()
}
