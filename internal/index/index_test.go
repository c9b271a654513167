package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrag/internal/domain"
	"medrag/internal/embedding/tfidf"
	"medrag/internal/vectorstore/memory"
)

func testEntries() []domain.ConditionEntry {
	return []domain.ConditionEntry{
		{
			ConditionName:  "Migraine",
			Symptoms:       []string{"headache", "nausea", "sensitivity to light"},
			SuggestedDrugs: []domain.DrugRef{{Name: "Ibuprofen"}},
		},
		{
			ConditionName:  "Common Cold",
			Symptoms:       []string{"cough", "runny nose", "sore throat"},
			SuggestedDrugs: []domain.DrugRef{{Name: "Dextromethorphan Syrup"}},
		},
		{
			ConditionName: "Gastroenteritis",
			Symptoms:      []string{"vomiting", "diarrhoea", "abdominal pain"},
		},
	}
}

func buildIndex(t *testing.T) *SemanticIndex {
	t.Helper()
	ix, err := Build(context.Background(), testEntries(), tfidf.NewEmbedder(), memory.NewStorage())
	require.NoError(t, err)
	return ix
}

func TestQueryReturnsMostSimilarCondition(t *testing.T) {
	ix := buildIndex(t)

	hits, err := ix.Query(context.Background(), "pounding headache and nausea", 3)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Migraine", hits[0].ConditionName)
}

func TestQueryMatchesDrugName(t *testing.T) {
	ix := buildIndex(t)

	// The blob includes suggested drug names, so naming the drug finds
	// the condition.
	hits, err := ix.Query(context.Background(), "patient asked for ibuprofen", 3)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Migraine", hits[0].ConditionName)
}

func TestQueryRespectsK(t *testing.T) {
	ix := buildIndex(t)

	hits, err := ix.Query(context.Background(), "cough and headache", 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(hits), 2)
}

func TestQueryOrderedByDescendingScore(t *testing.T) {
	ix := buildIndex(t)

	hits, err := ix.Query(context.Background(), "cough with a mild headache", 3)
	require.NoError(t, err)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
}

func TestQueryWithNoVocabularyOverlap(t *testing.T) {
	ix := buildIndex(t)

	hits, err := ix.Query(context.Background(), "zzzz qqqq xxxx", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRenderDocument(t *testing.T) {
	e := &domain.ConditionEntry{
		ConditionName:  "Migraine",
		Symptoms:       []string{"headache", "nausea"},
		SuggestedDrugs: []domain.DrugRef{{Name: "Ibuprofen"}, {Name: "Ondansetron"}},
	}
	blob := RenderDocument(e)
	assert.Equal(t, "Condition: Migraine. Symptoms: headache, nausea. Suggested drugs: Ibuprofen, Ondansetron.", blob)

	noDrugs := &domain.ConditionEntry{ConditionName: "Dehydration", Symptoms: []string{"dizziness"}}
	assert.Equal(t, "Condition: Dehydration. Symptoms: dizziness.", RenderDocument(noDrugs))
}
