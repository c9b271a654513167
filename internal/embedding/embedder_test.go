package embedding_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"medrag/internal/embedding"
	remote "medrag/internal/embedding/openai"
	"medrag/internal/embedding/tfidf"
)

func TestBackendsSatisfyEmbedder(t *testing.T) {
	var e embedding.Embedder = tfidf.NewEmbedder()
	require.Equal(t, "tfidf", e.Name())

	client, err := remote.NewClient(remote.Config{})
	require.NoError(t, err)
	e = client
	require.Equal(t, "openai", e.Name())
}
