// Package resolve reconciles semantic search hits against the
// authoritative knowledge base, with a substring fallback so a stale or
// unreachable index degrades to keyword matching instead of failing.
package resolve

import (
	"context"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"medrag/internal/domain"
	"medrag/internal/knowledge"
)

// Index is the semantic retrieval surface the resolver depends on.
type Index interface {
	Query(ctx context.Context, text string, k int) ([]domain.SearchResult, error)
}

// Resolver maps a free-text clinical description to a condition entry.
// It holds only borrowed references and is safe for concurrent use.
type Resolver struct {
	store *knowledge.Store
	index Index
	topK  int
}

func New(store *knowledge.Store, index Index, topK int) *Resolver {
	if topK <= 0 {
		topK = 3
	}
	return &Resolver{store: store, index: index, topK: topK}
}

// Resolve returns the entry for the query text, or domain.ErrNoMatch.
//
// The semantic index is tried first and its top hit rehydrated through
// the knowledge base name map. Rehydration failure, empty retrieval,
// and embedding backend errors all fall through to a linear substring
// scan: condition names first, then symptoms, first match wins in
// knowledge base order.
func (r *Resolver) Resolve(ctx context.Context, query string) (*domain.ConditionEntry, error) {
	hits, err := r.index.Query(ctx, query, r.topK)
	if err != nil {
		// Treated the same as an empty retrieval so a dead embedding
		// backend degrades to keyword matching.
		log.Warn().Err(err).Str("query", query).Msg("semantic query failed; using substring fallback")
	}
	if len(hits) > 0 {
		if entry, ok := r.store.ByName(hits[0].ConditionName); ok {
			return entry, nil
		}
		log.Warn().Str("condition", hits[0].ConditionName).
			Msg("semantic hit missing from knowledge base; using substring fallback")
	}

	if entry := r.scan(query); entry != nil {
		return entry, nil
	}
	return nil, domain.ErrNoMatch
}

func (r *Resolver) scan(query string) *domain.ConditionEntry {
	q := fold(query)
	entries := r.store.Entries()
	for i := range entries {
		if name := fold(entries[i].ConditionName); name != "" && strings.Contains(q, name) {
			return &entries[i]
		}
	}
	for i := range entries {
		for _, sym := range entries[i].Symptoms {
			if s := fold(sym); s != "" && strings.Contains(q, s) {
				return &entries[i]
			}
		}
	}
	return nil
}

// fold lower-cases and strips diacritics so "migraine" matches
// "Migräne"-style spellings in either direction. The transformer chain
// is stateful, so each call builds its own.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
