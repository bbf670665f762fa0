package serviceImp

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/advice/repository"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/advice/service"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/ai"
	kbservice "github.com/Chisowa/Farm-Link-Zambia/pkg/kb/service"
)

type kbSearcher interface {
	Search(ctx context.Context, query string, k int) ([]kbservice.Hit, error)
}

type adviceSvc struct {
	r   repository.AdviceRepository
	llm ai.Client
	kb  kbSearcher
	log *zap.Logger
}

// New builds the advisor. kb may be nil, in which case answers carry no notes.
func New(r repository.AdviceRepository, llm ai.Client, kb kbSearcher, log *zap.Logger) service.AdviceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &adviceSvc{r: r, llm: llm, kb: kb, log: log}
}

func (s *adviceSvc) Ask(ctx context.Context, q service.Question) (*entities.Advice, error) {
	notes, sources := s.notes(ctx, q.Query)

	answer, err := s.llm.Answer(ctx, ai.Question{Query: q.Query, Language: q.Language, Notes: notes})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.llm.Name(), err)
	}

	a := &entities.Advice{
		UserID:           q.UserID,
		QueryText:        q.Query,
		ResponseText:     answer,
		Language:         q.Language,
		SourcedDocuments: sources,
	}
	if a.UserID == "" {
		a.UserID = service.AnonymousUser
	}
	if err := s.r.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// notes retrieves supporting chunks and the distinct sources they cite.
// Retrieval problems only cost the answer its context.
func (s *adviceSvc) notes(ctx context.Context, query string) ([]ai.Note, []string) {
	sources := []string{}
	if s.kb == nil {
		return nil, sources
	}
	hits, err := s.kb.Search(ctx, query, service.MaxNotes)
	if err != nil {
		s.log.Warn("knowledge search failed", zap.Error(err))
		return nil, sources
	}
	notes := make([]ai.Note, 0, len(hits))
	seen := map[string]bool{}
	for _, h := range hits {
		src := h.Source()
		notes = append(notes, ai.Note{Source: src, Text: h.Text})
		if src != "" && !seen[src] {
			seen[src] = true
			sources = append(sources, src)
		}
	}
	return notes, sources
}

func (s *adviceSvc) History(ctx context.Context, userID string, limit int) ([]entities.Advice, error) {
	return s.r.History(ctx, strings.TrimSpace(userID), limit)
}

func (s *adviceSvc) Feedback(ctx context.Context, adviceID, feedback string) error {
	return s.r.SetFeedback(ctx, adviceID, feedback)
}
