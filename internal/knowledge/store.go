// Package knowledge loads and indexes the curated condition records
// used by the prescription pipeline. The store is built once at startup
// and is read-only afterwards.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"medrag/internal/domain"
)

// Store owns every condition entry for the process lifetime and exposes
// a normalized name lookup for rehydrating semantic search hits.
type Store struct {
	entries []domain.ConditionEntry
	byName  map[string]*domain.ConditionEntry
	skipped int
}

// Load reads the knowledge base file, drops malformed records, and
// builds the name map. It fails when the file is missing, is not a JSON
// list of records, or contains no valid record at all.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", path, err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}

	s := &Store{byName: make(map[string]*domain.ConditionEntry, len(raw))}
	for i, rec := range raw {
		// Records are decoded one at a time so that a single bad
		// element (a bare string, a wrong-typed field) drops only
		// itself, not the whole file.
		var entry domain.ConditionEntry
		if err := json.Unmarshal(rec, &entry); err != nil {
			log.Warn().Int("record", i).Err(err).Msg("skipping unparsable knowledge base record")
			s.skipped++
			continue
		}
		if strings.TrimSpace(entry.ConditionName) == "" {
			s.skipped++
			continue
		}
		key := Normalize(entry.ConditionName)
		if _, exists := s.byName[key]; exists {
			// First entry wins; later duplicates are discarded.
			s.skipped++
			continue
		}
		s.entries = append(s.entries, entry)
		s.byName[key] = &s.entries[len(s.entries)-1]
	}
	// Appends above may have relocated the backing array; rebuild the
	// map against the final slice so pointers stay valid.
	for i := range s.entries {
		s.byName[Normalize(s.entries[i].ConditionName)] = &s.entries[i]
	}

	if len(s.entries) == 0 {
		return nil, fmt.Errorf("knowledge base %s: no valid records", path)
	}
	if s.skipped > 0 {
		log.Warn().Int("skipped", s.skipped).Int("loaded", len(s.entries)).
			Str("path", path).Msg("dropped malformed or duplicate knowledge base records")
	} else {
		log.Info().Int("loaded", len(s.entries)).Str("path", path).Msg("knowledge base loaded")
	}
	return s, nil
}

// Entries returns all valid entries in file order. Callers must not
// mutate the returned slice.
func (s *Store) Entries() []domain.ConditionEntry { return s.entries }

// Len reports the number of valid entries.
func (s *Store) Len() int { return len(s.entries) }

// Skipped reports how many raw records were dropped at load time.
func (s *Store) Skipped() int { return s.skipped }

// ByName looks up an entry by normalized condition name.
func (s *Store) ByName(name string) (*domain.ConditionEntry, bool) {
	e, ok := s.byName[Normalize(name)]
	return e, ok
}

// Normalize lower-cases and trims a condition name for map lookup.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
