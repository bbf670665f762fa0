package serviceImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/repository"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/service"
)

type svc[T affliction.Record] struct {
	r    repository.Repository[T]
	kind affliction.Kind[T]
}

func New[T affliction.Record](r repository.Repository[T], kind affliction.Kind[T]) service.Service[T] {
	return &svc[T]{r: r, kind: kind}
}

func (s *svc[T]) Identify(ctx context.Context, symptoms []string, crop string) ([]affliction.Match, error) {
	all, err := s.r.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.kind.Group, err)
	}
	cands := make([]affliction.Candidate, len(all))
	for i := range all {
		cands[i] = s.kind.Candidate(&all[i])
	}
	return affliction.Rank(cands, symptoms, crop), nil
}

func (s *svc[T]) Details(ctx context.Context, id string) (*T, error) {
	return s.r.FindByID(ctx, id)
}

func (s *svc[T]) Search(ctx context.Context, q string, limit int) ([]T, error) {
	return s.r.Search(ctx, q, limit)
}

func (s *svc[T]) Create(ctx context.Context, rec *T) (*T, error) {
	s.kind.Reset(rec)
	name := s.kind.Candidate(rec).Name
	exists, err := s.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", service.ErrDuplicateName, name)
	}
	if err := s.r.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *svc[T]) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.r.FindByName(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	}
	return false, err
}
