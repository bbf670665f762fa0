package serviceImp

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/embedder"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/repository"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/service"
)

var ErrEmptyDocument = errors.New("document has no text")

const chunkRunes = 1000

type Svc struct {
	r   repository.KBRepository
	emb embedder.Embedder
	log *zap.Logger
}

// New builds the knowledge-base service. emb may be nil, in which case
// retrieval falls back to keyword scoring.
func New(r repository.KBRepository, emb embedder.Embedder, log *zap.Logger) *Svc {
	if log == nil {
		log = zap.NewNop()
	}
	return &Svc{r: r, emb: emb, log: log}
}

var _ service.KBService = (*Svc)(nil)

// chunkText cuts text into pieces of roughly maxRunes, preferring to break at
// a newline, then at a space, and hard-cutting at twice the size.
func chunkText(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = chunkRunes
	}
	var parts []string
	cur := strings.Builder{}
	count := 0
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			parts = append(parts, s)
		}
		cur.Reset()
		count = 0
	}
	for _, r := range text {
		cur.WriteRune(r)
		count++
		switch {
		case count >= maxRunes && r == '\n':
			flush()
		case count >= maxRunes+maxRunes/5 && unicode.IsSpace(r):
			flush()
		case count >= 2*maxRunes:
			flush()
		}
	}
	flush()
	return parts
}

func (s *Svc) UpsertDocument(ctx context.Context, title, tags, text, sourceURL string) (*entities.KBDocument, int, error) {
	chs := chunkText(text, chunkRunes)
	if len(chs) == 0 {
		return nil, 0, ErrEmptyDocument
	}

	var embs [][]float32
	if s.emb != nil {
		var err error
		embs, err = s.emb.Embed(ctx, chs)
		if err != nil {
			// chunks are still searchable by keyword
			s.log.Warn("embedding failed, storing chunks without vectors", zap.String("title", title), zap.Error(err))
			embs = nil
		}
	}

	rows := make([]entities.KBChunk, len(chs))
	for i := range chs {
		var embBytes []byte
		if i < len(embs) {
			embBytes = embedder.FloatsToBytes(embs[i])
		}
		rows[i] = entities.KBChunk{Ord: i, Text: chs[i], Embedding: embBytes}
	}

	d := &entities.KBDocument{Title: title, Tags: tags, SourceURL: sourceURL}
	if err := s.r.CreateDoc(ctx, d, rows); err != nil {
		return nil, 0, err
	}
	return d, len(rows), nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// keywordScore is the share of distinct query tokens present in text.
func keywordScore(query []string, text string) float64 {
	if len(query) == 0 {
		return 0
	}
	have := map[string]bool{}
	for _, t := range tokens(text) {
		have[t] = true
	}
	hit := 0
	for _, q := range query {
		if have[q] {
			hit++
		}
	}
	return float64(hit) / float64(len(query))
}

func distinct(ts []string) []string {
	seen := map[string]bool{}
	out := ts[:0]
	for _, t := range ts {
		if len([]rune(t)) < 2 || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (s *Svc) Search(ctx context.Context, query string, k int) ([]service.Hit, error) {
	q := strings.TrimSpace(query)
	if q == "" || k <= 0 {
		return []service.Hit{}, nil
	}

	var qvec []float32
	if s.emb != nil {
		vec, err := s.emb.Embed(ctx, []string{q})
		if err == nil && len(vec) > 0 {
			qvec = vec[0]
		} else if err != nil {
			s.log.Warn("query embedding failed, using keyword scoring", zap.Error(err))
		}
	}

	chunks, err := s.r.AllChunks(ctx)
	if err != nil {
		return nil, err
	}

	hits := make([]service.Hit, 0, len(chunks))
	if len(qvec) > 0 {
		for _, ch := range chunks {
			if sc := cosine(qvec, embedder.BytesToFloats(ch.Embedding)); sc > 0 {
				hits = append(hits, service.Hit{KBChunk: ch, Score: sc})
			}
		}
	}
	if len(hits) == 0 {
		qt := distinct(tokens(q))
		for _, ch := range chunks {
			if sc := keywordScore(qt, ch.Text); sc > 0 {
				hits = append(hits, service.Hit{KBChunk: ch, Score: sc})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k < len(hits) {
		hits = hits[:k]
	}

	ids := make([]uint, 0, len(hits))
	seen := map[uint]bool{}
	for _, h := range hits {
		if !seen[h.DocID] {
			seen[h.DocID] = true
			ids = append(ids, h.DocID)
		}
	}
	meta, err := s.r.DocsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range hits {
		if d, ok := meta[hits[i].DocID]; ok {
			hits[i].DocTitle = d.Title
			hits[i].SourceURL = d.SourceURL
		}
	}
	return hits, nil
}

func (s *Svc) Documents(ctx context.Context) ([]entities.KBDocument, error) {
	ds, err := s.r.ListDocs(ctx)
	if ds == nil {
		ds = []entities.KBDocument{}
	}
	return ds, err
}
