// Package catalog bulk-loads crops, pests and diseases from YAML documents or
// Excel workbooks. Every record is checked against its create schema and
// records whose name is already catalogued are skipped, so imports can be
// re-run.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Document is a parsed catalogue; records keep their wire (camelCase) field
// names until they pass validation.
type Document struct {
	Crops    []map[string]any `yaml:"crops"`
	Pests    []map[string]any `yaml:"pests"`
	Diseases []map[string]any `yaml:"diseases"`
}

func ParseYAML(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse catalogue yaml: %w", err)
	}
	return &doc, nil
}

// Default is the catalogue shipped with the binary.
func Default() (*Document, error) { return ParseYAML(bytes.NewReader(defaultCatalog)) }

// Store is what the importer needs from a catalogue service.
type Store[T any] interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, rec *T) (*T, error)
}

type RowError struct {
	Entity string `json:"entity"`
	Row    int    `json:"row"` // 1-based within its section
	Name   string `json:"name,omitempty"`
	Err    string `json:"error"`
}

type Counts struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type Report struct {
	Crops    Counts     `json:"crops"`
	Pests    Counts     `json:"pests"`
	Diseases Counts     `json:"diseases"`
	Invalid  []RowError `json:"invalid,omitempty"`
}

type Importer struct {
	schemas  *schema.Registry
	crops    Store[entities.Crop]
	pests    Store[entities.Pest]
	diseases Store[entities.Disease]
	log      *zap.Logger
}

func NewImporter(schemas *schema.Registry, crops Store[entities.Crop], pests Store[entities.Pest], diseases Store[entities.Disease], log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{schemas: schemas, crops: crops, pests: pests, diseases: diseases, log: log}
}

func (im *Importer) Import(ctx context.Context, doc *Document) (*Report, error) {
	rep := &Report{}
	var err error
	if rep.Crops, err = importSection(ctx, im, "crop", doc.Crops, im.crops, rep); err != nil {
		return rep, err
	}
	if rep.Pests, err = importSection(ctx, im, "pest", doc.Pests, im.pests, rep); err != nil {
		return rep, err
	}
	if rep.Diseases, err = importSection(ctx, im, "disease", doc.Diseases, im.diseases, rep); err != nil {
		return rep, err
	}
	return rep, nil
}

func importSection[T any](ctx context.Context, im *Importer, entity string, rows []map[string]any, store Store[T], rep *Report) (Counts, error) {
	var c Counts
	for i, row := range rows {
		name, _ := row["name"].(string)
		name = strings.TrimSpace(name)
		bad := func(err error) {
			rep.Invalid = append(rep.Invalid, RowError{Entity: entity, Row: i + 1, Name: name, Err: err.Error()})
			im.log.Warn("catalogue row rejected", zap.String("entity", entity), zap.Int("row", i+1), zap.Error(err))
		}

		b, err := json.Marshal(row)
		if err != nil {
			bad(err)
			continue
		}
		if _, err := im.schemas.Validate(schema.CreateID(entity), b); err != nil {
			bad(err)
			continue
		}
		var rec T
		if err := json.Unmarshal(b, &rec); err != nil {
			bad(err)
			continue
		}

		exists, err := store.Exists(ctx, name)
		if err != nil {
			return c, fmt.Errorf("%s %q: %w", entity, name, err)
		}
		if exists {
			c.Skipped++
			continue
		}
		if _, err := store.Create(ctx, &rec); err != nil {
			return c, fmt.Errorf("create %s %q: %w", entity, name, err)
		}
		c.Created++
	}
	return c, nil
}
