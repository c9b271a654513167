package domain

import (
	"context"
	"errors"
)

// DrugRef names one suggested drug inside a knowledge base entry.
type DrugRef struct {
	Name string `json:"name"`
}

// ConditionEntry is one curated condition record. Entries are immutable
// after the knowledge base is loaded.
type ConditionEntry struct {
	ConditionName  string    `json:"condition_name"`
	Symptoms       []string  `json:"symptoms"`
	GeneralAdvice  string    `json:"general_advice"`
	SuggestedDrugs []DrugRef `json:"suggested_drugs"`
}

// IndexedDocument is the flat, embeddable derivation of a condition
// entry. Only the condition name travels as metadata; the full record
// is recovered from the knowledge base at resolve time.
type IndexedDocument struct {
	ConditionName string
	Text          string
}

// SearchResult pairs a condition name with its similarity score.
type SearchResult struct {
	ConditionName string
	Score         float64
}

// Medication is one fully detailed prescribed item.
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Timing       string `json:"timing"`
	Duration     string `json:"duration"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions"`
}

// Prescription is the successful outcome of one query.
type Prescription struct {
	Condition     string       `json:"condition"`
	GeneralAdvice string       `json:"general_advice"`
	Medications   []Medication `json:"medications"`
}

// ErrNoMatch is returned when neither semantic retrieval nor the
// substring fallback can map the query to a known condition.
var ErrNoMatch = errors.New("no matching condition in knowledge base")

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorStore persists document vectors and supports similarity search.
type VectorStore interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, docs []IndexedDocument, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Clear(ctx context.Context) error
}

// Completer is a text-generation backend: it accepts a prompt and
// returns a completion, which may be malformed or arrive late.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}
