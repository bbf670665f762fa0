package repository

import (
	"context"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

type KBRepository interface {
	// CreateDoc stores d and its chunks in one transaction, setting DocID on
	// both.
	CreateDoc(ctx context.Context, d *entities.KBDocument, cs []entities.KBChunk) error
	ListDocs(ctx context.Context) ([]entities.KBDocument, error)
	AllChunks(ctx context.Context) ([]entities.KBChunk, error)
	DocsByIDs(ctx context.Context, ids []uint) (map[uint]entities.KBDocument, error)
}
