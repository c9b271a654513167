// Package generate builds the constrained generation prompt and parses
// the backend's completion into validated medication objects.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"medrag/internal/domain"
)

// ErrGenerationFailed marks any backend, parsing, or validation failure
// on the generative path. The orchestrator recovers from it with the
// deterministic fallback; it is never surfaced to the caller.
var ErrGenerationFailed = errors.New("structured generation failed")

const promptTemplate = `You are a precise medical data structuring tool. Based on the provided CONTEXT, generate a JSON object for the user's prescription request.
Return ONLY valid JSON with this schema, no prose:
{
  "medications": [
    {
      "name": string (the exact drug name from the context),
      "dosage": string (a standard dosage, e.g. "500mg" or "10ml"),
      "frequency": string (how often to take it, e.g. "twice daily"),
      "timing": string (when to take it, e.g. "after meals"),
      "duration": string (total treatment duration, e.g. "7 days"),
      "quantity": integer (administrations per day multiplied by duration in days),
      "instructions": string (one brief, important instruction)
    }
  ]
}
Create exactly one medication object per drug in the CONTEXT's suggested drugs list. Never add drugs that are not listed and never omit a listed drug.

CONTEXT:
Condition: %s
Symptoms: %s
General advice: %s
Suggested drugs: %s

USER'S DESCRIPTION:
%q
`

// Generator elaborates an entry's suggested drugs into full dosing
// detail via a Completer backend. It is stateless.
type Generator struct {
	completer domain.Completer
}

func New(completer domain.Completer) *Generator {
	return &Generator{completer: completer}
}

// Generate runs one completion attempt and returns the validated
// medication list. Every failure mode (unavailable backend, timeout,
// malformed JSON, empty or invented medication list) is reported as
// ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, entry *domain.ConditionEntry, query string) ([]domain.Medication, error) {
	if g.completer == nil {
		return nil, fmt.Errorf("%w: no generation backend configured", ErrGenerationFailed)
	}

	raw, err := g.completer.Complete(ctx, BuildPrompt(entry, query))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	meds, err := parseMedications(raw, entry.SuggestedDrugs)
	if err != nil {
		log.Warn().Err(err).Str("condition", entry.ConditionName).Str("query", query).
			Str("backend", g.completer.Name()).Msg("completion did not validate")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return meds, nil
}

// BuildPrompt renders the schema-constrained prompt for one entry.
func BuildPrompt(entry *domain.ConditionEntry, query string) string {
	names := make([]string, 0, len(entry.SuggestedDrugs))
	for _, d := range entry.SuggestedDrugs {
		names = append(names, d.Name)
	}
	return fmt.Sprintf(promptTemplate,
		entry.ConditionName,
		strings.Join(entry.Symptoms, ", "),
		entry.GeneralAdvice,
		strings.Join(names, ", "),
		query,
	)
}

func parseMedications(raw string, suggested []domain.DrugRef) ([]domain.Medication, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, errors.New("no JSON object in completion")
	}

	var out struct {
		Medications []domain.Medication `json:"medications"`
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, fmt.Errorf("parse completion: %w", err)
	}
	if len(out.Medications) == 0 {
		return nil, errors.New("completion has no medications")
	}

	known := make(map[string]struct{}, len(suggested))
	for _, d := range suggested {
		known[strings.ToLower(strings.TrimSpace(d.Name))] = struct{}{}
	}

	meds := make([]domain.Medication, 0, len(out.Medications))
	for _, m := range out.Medications {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, errors.New("medication with empty name")
		}
		if _, ok := known[strings.ToLower(name)]; !ok {
			// Invented extras are dropped rather than failing the batch.
			log.Warn().Str("name", name).Msg("dropping medication not in suggested drugs")
			continue
		}
		if m.Quantity <= 0 {
			return nil, fmt.Errorf("medication %s has non-positive quantity %d", name, m.Quantity)
		}
		meds = append(meds, m)
	}
	if len(meds) == 0 {
		return nil, errors.New("no medication matched a suggested drug")
	}
	return meds, nil
}

// extractJSON strips code fences and surrounding prose, returning the
// outermost JSON object in the text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
