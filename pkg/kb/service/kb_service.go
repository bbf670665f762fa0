package service

import (
	"context"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

// Hit is a retrieved chunk with the document it came from.
type Hit struct {
	entities.KBChunk
	Score     float64 `json:"score"`
	DocTitle  string  `json:"docTitle,omitempty"`
	SourceURL string  `json:"sourceUrl,omitempty"`
}

// Source is how a hit is cited: its document URL, else its title.
func (h Hit) Source() string {
	if h.SourceURL != "" {
		return h.SourceURL
	}
	return h.DocTitle
}

type KBService interface {
	UpsertDocument(ctx context.Context, title, tags, text, sourceURL string) (*entities.KBDocument, int, error)
	Search(ctx context.Context, query string, k int) ([]Hit, error)
	// Documents lists ingested documents, newest first.
	Documents(ctx context.Context) ([]entities.KBDocument, error)
}
