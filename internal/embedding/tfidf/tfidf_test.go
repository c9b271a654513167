package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = []string{
	"Condition: Migraine. Symptoms: headache, nausea.",
	"Condition: Common Cold. Symptoms: cough, runny nose.",
	"Condition: Gastroenteritis. Symptoms: vomiting, diarrhoea.",
}

func TestPrepareAndEmbed(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()
	require.NoError(t, e.Prepare(ctx, corpus))
	assert.Positive(t, e.Dimension())

	vec, err := e.Embed(ctx, "a pounding headache")
	require.NoError(t, err)
	assert.Len(t, vec, e.Dimension())

	// L2 normalized
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestEmbedBeforePrepareFails(t *testing.T) {
	e := NewEmbedder()
	_, err := e.Embed(context.Background(), "headache")
	assert.Error(t, err)
}

func TestPrepareEmptyCorpusFails(t *testing.T) {
	e := NewEmbedder()
	assert.Error(t, e.Prepare(context.Background(), nil))
}

func TestEmbedUnknownTokensIsZeroVector(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()
	require.NoError(t, e.Prepare(ctx, corpus))

	vec, err := e.Embed(ctx, "zzzz qqqq")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbedIsDeterministic(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()
	require.NoError(t, e.Prepare(ctx, corpus))

	a, err := e.Embed(ctx, "cough and runny nose")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "cough and runny nose")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
