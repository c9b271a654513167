package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrag/internal/domain"
)

func TestInitRejectsInvalidDimension(t *testing.T) {
	s := NewStorage()
	assert.Error(t, s.Init(context.Background(), 0))
	assert.Error(t, s.Init(context.Background(), -1))
	assert.NoError(t, s.Init(context.Background(), 3))
}

func TestUpsertValidation(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 2))

	docs := []domain.IndexedDocument{{ConditionName: "A"}}
	assert.Error(t, s.Upsert(ctx, docs, nil), "length mismatch")
	assert.Error(t, s.Upsert(ctx, docs, [][]float64{{1, 2, 3}}), "dimension mismatch")
	assert.NoError(t, s.Upsert(ctx, docs, [][]float64{{1, 0}}))
}

func TestSearchOrdersByCosineSimilarity(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 2))
	require.NoError(t, s.Upsert(ctx, []domain.IndexedDocument{
		{ConditionName: "X"},
		{ConditionName: "Y"},
		{ConditionName: "Z"},
	}, [][]float64{
		{1, 0},
		{0, 1},
		{0.7071, 0.7071},
	}))

	hits, err := s.Search(ctx, []float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "X", hits[0].ConditionName)
	assert.Equal(t, "Z", hits[1].ConditionName)
	assert.Equal(t, "Y", hits[2].ConditionName)
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 2))
	require.NoError(t, s.Upsert(ctx, []domain.IndexedDocument{
		{ConditionName: "first"},
		{ConditionName: "second"},
	}, [][]float64{
		{0, 1},
		{0, 1},
	}))

	hits, err := s.Search(ctx, []float64{0, 1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "first", hits[0].ConditionName)
	assert.Equal(t, "second", hits[1].ConditionName)
}

func TestSearchRespectsTopK(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 1))
	require.NoError(t, s.Upsert(ctx, []domain.IndexedDocument{
		{ConditionName: "a"}, {ConditionName: "b"}, {ConditionName: "c"},
	}, [][]float64{{1}, {0.5}, {0.2}}))

	hits, err := s.Search(ctx, []float64{1}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	// topK larger than the corpus returns everything
	hits, err = s.Search(ctx, []float64{1}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 1))
	require.NoError(t, s.Upsert(ctx, []domain.IndexedDocument{{ConditionName: "a"}}, [][]float64{{1}}))
	require.NoError(t, s.Clear(ctx))

	hits, err := s.Search(ctx, []float64{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
