// Package index builds the semantic index over the knowledge base and
// answers nearest-neighbor queries. The index stores only flat
// metadata; full records are rehydrated from the knowledge store.
package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"medrag/internal/domain"
)

// SemanticIndex owns the derived documents and their embeddings. It is
// built once at startup and is read-only afterwards.
type SemanticIndex struct {
	embedder domain.Embedder
	store    domain.VectorStore
}

// Build renders every entry into a document blob, prepares the
// embedder over the blob corpus, and upserts the vectors.
func Build(ctx context.Context, entries []domain.ConditionEntry, embedder domain.Embedder, store domain.VectorStore) (*SemanticIndex, error) {
	docs := make([]domain.IndexedDocument, 0, len(entries))
	corpus := make([]string, 0, len(entries))
	for i := range entries {
		doc := domain.IndexedDocument{
			ConditionName: entries[i].ConditionName,
			Text:          RenderDocument(&entries[i]),
		}
		docs = append(docs, doc)
		corpus = append(corpus, doc.Text)
	}

	if err := embedder.Prepare(ctx, corpus); err != nil {
		return nil, fmt.Errorf("prepare embedder: %w", err)
	}

	vectors := make([][]float64, len(docs))
	for i := range docs {
		vec, err := embedder.Embed(ctx, docs[i].Text)
		if err != nil {
			return nil, fmt.Errorf("embed %q: %w", docs[i].ConditionName, err)
		}
		vectors[i] = vec
	}

	dim := embedder.Dimension()
	if dim == 0 && len(vectors) > 0 {
		dim = len(vectors[0])
	}
	if err := store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear vector store: %w", err)
	}
	if err := store.Init(ctx, dim); err != nil {
		return nil, fmt.Errorf("init vector store: %w", err)
	}
	if err := store.Upsert(ctx, docs, vectors); err != nil {
		return nil, fmt.Errorf("upsert vectors: %w", err)
	}

	log.Info().Int("documents", len(docs)).Str("embedder", embedder.Name()).
		Msg("semantic index built")
	return &SemanticIndex{embedder: embedder, store: store}, nil
}

// Query embeds the text and returns up to k condition names ordered by
// descending similarity. No score cutoff is applied here; thresholding
// is the caller's concern.
func (ix *SemanticIndex) Query(ctx context.Context, text string, k int) ([]domain.SearchResult, error) {
	vec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	zero := true
	for _, v := range vec {
		if v != 0 {
			zero = false
			break
		}
	}
	if zero {
		// No vocabulary overlap at all; nothing useful to search for.
		return nil, nil
	}
	return ix.store.Search(ctx, vec, k)
}

// RenderDocument combines the condition name, symptoms, and suggested
// drug names into one blob. Queries often name a drug or symptom rather
// than the formal condition, so the richer blob improves retrieval.
func RenderDocument(e *domain.ConditionEntry) string {
	var b strings.Builder
	b.WriteString("Condition: ")
	b.WriteString(e.ConditionName)
	b.WriteString(". Symptoms: ")
	b.WriteString(strings.Join(e.Symptoms, ", "))
	b.WriteString(".")
	if len(e.SuggestedDrugs) > 0 {
		names := make([]string, 0, len(e.SuggestedDrugs))
		for _, d := range e.SuggestedDrugs {
			names = append(names, d.Name)
		}
		b.WriteString(" Suggested drugs: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(".")
	}
	return b.String()
}
