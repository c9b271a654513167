// Package app assembles the pipeline components from configuration.
// Both entrypoints share this wiring.
package app

import (
	"context"
	"fmt"
	"time"

	"medrag/internal/config"
	"medrag/internal/domain"
	"medrag/internal/embedding"
	"medrag/internal/embedding/openai"
	"medrag/internal/embedding/tfidf"
	"medrag/internal/generate"
	"medrag/internal/index"
	"medrag/internal/knowledge"
	"medrag/internal/llm"
	"medrag/internal/resolve"
	"medrag/internal/service"
	"medrag/internal/vectorstore/memory"
	"medrag/internal/vectorstore/qdrant"
)

// App bundles the built pipeline and the readiness details the HTTP
// health endpoint and console header report.
type App struct {
	Prescriber    *service.Prescriber
	Store         *knowledge.Store
	EmbedderName  string
	GeneratorName string
}

// Build loads the knowledge base, constructs the semantic index, and
// wires the resolver, generator, and orchestrator. Configuration errors
// and knowledge base load errors abort startup.
func Build(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	store, err := knowledge.Load(cfg.KnowledgeBase.Path)
	if err != nil {
		return nil, err
	}

	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init: %w", err)
		}
		emb = client
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var vstore domain.VectorStore
	switch cfg.VectorStore.Type {
	case "memory", "":
		vstore = memory.NewStorage()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		vstore = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	ix, err := index.Build(ctx, store.Entries(), emb, vstore)
	if err != nil {
		return nil, fmt.Errorf("build semantic index: %w", err)
	}

	var completer llm.Completer
	switch cfg.Generator.Type {
	case "none", "":
		completer = nil
	case "openai":
		oc := cfg.Generator.OpenAI
		if oc == nil {
			oc = &config.OpenAIGeneratorConfig{}
		}
		client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKeyEnv:   oc.APIKeyEnv,
			BaseURL:     oc.BaseURL,
			Model:       oc.Model,
			Temperature: oc.Temperature,
			Timeout:     time.Duration(oc.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("openai generator init: %w", err)
		}
		completer = client
	case "ollama":
		oc := cfg.Generator.Ollama
		if oc == nil {
			oc = &config.OllamaGeneratorConfig{}
		}
		completer = llm.NewOllamaClient(llm.OllamaConfig{
			BaseURL:     oc.BaseURL,
			Model:       oc.Model,
			Temperature: oc.Temperature,
			Timeout:     time.Duration(oc.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Generator.Type)
	}

	resolver := resolve.New(store, ix, cfg.Pipeline.TopK)
	prescriber := service.NewPrescriber(resolver, generate.New(completer))

	generatorName := "none"
	if completer != nil {
		generatorName = completer.Name()
	}
	return &App{
		Prescriber:    prescriber,
		Store:         store,
		EmbedderName:  emb.Name(),
		GeneratorName: generatorName,
	}, nil
}
