package service

import (
	"context"
	"errors"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction"
)

var ErrDuplicateName = errors.New("an entry with this name already exists")

type Service[T affliction.Record] interface {
	Identify(ctx context.Context, symptoms []string, crop string) ([]affliction.Match, error)
	Details(ctx context.Context, id string) (*T, error)
	Search(ctx context.Context, q string, limit int) ([]T, error)
	Create(ctx context.Context, rec *T) (*T, error)
	// Exists reports whether an entry named name is already catalogued.
	Exists(ctx context.Context, name string) (bool, error)
}
