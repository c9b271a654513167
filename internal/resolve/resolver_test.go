package resolve

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrag/internal/domain"
	"medrag/internal/knowledge"
)

type stubIndex struct {
	hits []domain.SearchResult
	err  error
}

func (s *stubIndex) Query(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	return s.hits, s.err
}

const testKB = `[
	{"condition_name": "Migraine", "symptoms": ["headache", "nausea"], "general_advice": "Rest.", "suggested_drugs": [{"name": "Ibuprofen"}]},
	{"condition_name": "Common Cold", "symptoms": ["cough", "runny nose"], "general_advice": "Fluids.", "suggested_drugs": []},
	{"condition_name": "Acid Reflux", "symptoms": ["acidity", "heartburn"], "general_advice": "Avoid spicy food.", "suggested_drugs": [{"name": "Antacid"}]}
]`

func loadStore(t *testing.T) *knowledge.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte(testKB), 0o644))
	store, err := knowledge.Load(path)
	require.NoError(t, err)
	return store
}

func TestResolveRehydratesTopHit(t *testing.T) {
	store := loadStore(t)
	ix := &stubIndex{hits: []domain.SearchResult{
		{ConditionName: "migraine", Score: 0.9},
		{ConditionName: "Common Cold", Score: 0.4},
	}}

	entry, err := New(store, ix, 3).Resolve(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "Migraine", entry.ConditionName)
}

func TestResolveFallsBackWhenRehydrationFails(t *testing.T) {
	store := loadStore(t)
	// Index knows a condition the store no longer has, as after a
	// partial reload.
	ix := &stubIndex{hits: []domain.SearchResult{{ConditionName: "Influenza", Score: 0.8}}}

	entry, err := New(store, ix, 3).Resolve(context.Background(), "I have a bad cough since monday")
	require.NoError(t, err)
	assert.Equal(t, "Common Cold", entry.ConditionName)
}

func TestResolveFallsBackOnEmptyRetrieval(t *testing.T) {
	store := loadStore(t)
	ix := &stubIndex{}

	entry, err := New(store, ix, 3).Resolve(context.Background(), "terrible nausea all morning")
	require.NoError(t, err)
	assert.Equal(t, "Migraine", entry.ConditionName)
}

func TestResolveFallsBackOnIndexError(t *testing.T) {
	store := loadStore(t)
	ix := &stubIndex{err: errors.New("embedding backend timeout")}

	entry, err := New(store, ix, 3).Resolve(context.Background(), "constant heartburn after meals")
	require.NoError(t, err)
	assert.Equal(t, "Acid Reflux", entry.ConditionName)
}

func TestResolveConditionNameBeatsSymptom(t *testing.T) {
	store := loadStore(t)
	ix := &stubIndex{}

	// "migraine" names a condition directly; even though "cough" is a
	// Common Cold symptom and Common Cold comes earlier in the file,
	// the name pass runs before the symptom pass.
	entry, err := New(store, ix, 3).Resolve(context.Background(), "a migraine with some cough")
	require.NoError(t, err)
	assert.Equal(t, "Migraine", entry.ConditionName)
}

func TestResolveNoMatch(t *testing.T) {
	store := loadStore(t)
	ix := &stubIndex{}

	_, err := New(store, ix, 3).Resolve(context.Background(), "I feel completely fine")
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	store := loadStore(t)
	ix := &stubIndex{}

	entry, err := New(store, ix, 3).Resolve(context.Background(), "WOKE UP WITH A HEADACHE")
	require.NoError(t, err)
	assert.Equal(t, "Migraine", entry.ConditionName)
}

func TestFoldStripsDiacritics(t *testing.T) {
	assert.Equal(t, "migraine", fold("  Migraïne "))
	assert.Equal(t, "nausea", fold("Nauséa"))
}
