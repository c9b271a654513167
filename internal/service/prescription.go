// Package service sequences resolution, generation, and fallback into
// one prescription per query.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"medrag/internal/domain"
	"medrag/internal/fallback"
	"medrag/internal/generate"
	"medrag/internal/metrics"
)

// Resolver maps query text to a knowledge base entry.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*domain.ConditionEntry, error)
}

// Prescriber is the public entry point of the pipeline. It is stateless
// across invocations; no query affects a later query.
type Prescriber struct {
	resolver  Resolver
	generator *generate.Generator
}

func NewPrescriber(resolver Resolver, generator *generate.Generator) *Prescriber {
	return &Prescriber{resolver: resolver, generator: generator}
}

// Generate turns a clinical description into a structured prescription.
//
// The only hard failure is domain.ErrNoMatch. A condition with no
// suggested drugs yields an empty medication list, and any generation
// failure is absorbed into the deterministic per-drug fallback, so a
// known condition always produces a usable result.
func (p *Prescriber) Generate(ctx context.Context, query string) (*domain.Prescription, error) {
	start := time.Now()

	entry, err := p.resolver.Resolve(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			log.Info().Str("query", query).Msg("no matching condition")
			metrics.QueriesTotal.WithLabelValues(metrics.OutcomeNoMatch).Inc()
			metrics.QueryDuration.Observe(time.Since(start).Seconds())
		}
		return nil, err
	}

	result := &domain.Prescription{
		Condition:     entry.ConditionName,
		GeneralAdvice: entry.GeneralAdvice,
		Medications:   []domain.Medication{},
	}

	if len(entry.SuggestedDrugs) == 0 {
		// A condition with no known drugs is a valid terminal result.
		log.Info().Str("condition", entry.ConditionName).Msg("no suggested drugs for condition")
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
		metrics.QueryDuration.Observe(time.Since(start).Seconds())
		return result, nil
	}

	meds, err := p.generator.Generate(ctx, entry, query)
	if err != nil {
		// Single attempt, then immediate fallback; latency and
		// availability win over extra generation attempts.
		log.Warn().Err(err).Str("query", query).Str("condition", entry.ConditionName).
			Msg("generation failed; using fallback formatter")
		metrics.GenerationFallbacks.Inc()
		meds = meds[:0]
		for _, drug := range entry.SuggestedDrugs {
			if drug.Name == "" {
				continue
			}
			meds = append(meds, fallback.Format(drug.Name))
		}
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeFallback).Inc()
	} else {
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeGenerated).Inc()
	}

	result.Medications = meds
	log.Info().Str("condition", entry.ConditionName).Int("medications", len(meds)).
		Dur("elapsed", time.Since(start)).Msg("prescription generated")
	metrics.QueryDuration.Observe(time.Since(start).Seconds())
	return result, nil
}
