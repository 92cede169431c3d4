// Package progress persists the vocabulary collection and learner status.
//
// State lives under two keys of a key-value backend: the ordered record list
// and a legacy id → status map kept for records imported before status was
// embedded. A record's effective status is its embedded field, else its
// status-map entry, else unmastered.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/heartmarshall/lexipath/internal/domain"
)

// Persisted keys.
const (
	KeyVocabulary = "vocab_app_data"
	KeyProgress   = "vocab_app_progress"
)

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// batchSetter is implemented by backends that can write both keys atomically.
type batchSetter interface {
	SetMany(ctx context.Context, entries map[string][]byte) error
}

// Store owns merge, status and delete semantics over the two persisted maps.
// Calls are serialized within a process; there is no cross-call transaction.
type Store struct {
	kv    kvStore
	codec Codec
	log   *slog.Logger
	mu    sync.Mutex
}

// NewStore creates a Store. A nil codec means JSON.
func NewStore(logger *slog.Logger, kv kvStore, codec Codec) *Store {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Store{
		kv:    kv,
		codec: codec,
		log:   logger.With("service", "progress"),
	}
}

// UpsertResult counts what an Upsert did.
type UpsertResult struct {
	Inserted int
	Updated  int
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Upsert merges records into the collection keyed by id. New ids are
// appended as given. For an existing id every field is overwritten except
// status: the stored effective status is kept, and only a record that had
// none takes the incoming status (or unmastered). Statuses outside the enum
// count as missing and examples are capped at domain.MaxExamples.
func (s *Store) Upsert(ctx context.Context, records []domain.VocabularyRecord) (UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res UpsertResult
	if len(records) == 0 {
		return res, nil
	}

	st, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	for _, in := range records {
		rec := in.Clone()
		if rec.ID == "" {
			rec.ID = domain.MakeID(rec.Word)
		}
		rec.FoldLegacyExample()
		if len(rec.Examples) > domain.MaxExamples {
			rec.Examples = domain.DedupExamples(rec.Examples, domain.MaxExamples)
		}
		if !rec.Status.IsValid() {
			rec.Status = ""
		}

		idx, ok := st.index[rec.ID]
		if !ok {
			st.append(rec)
			res.Inserted++
			continue
		}

		existing := st.records[idx]
		switch {
		case existing.Status.IsValid():
			rec.Status = existing.Status
		case st.statuses[rec.ID].IsValid():
			rec.Status = st.statuses[rec.ID]
		case rec.Status == "":
			rec.Status = domain.StatusUnmastered
		}
		st.records[idx] = rec
		res.Updated++
	}

	if err := s.saveRecords(ctx, st); err != nil {
		return UpsertResult{}, err
	}

	s.log.DebugContext(ctx, "vocabulary upserted",
		slog.Int("inserted", res.Inserted),
		slog.Int("updated", res.Updated),
		slog.Int("total", len(st.records)),
	)
	return res, nil
}

// UpdateStatus sets status on the embedded record field and in the status
// map. Each side is updated independently: an id missing from the record
// list still gets its status-map entry.
func (s *Store) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	if !status.IsValid() {
		return domain.NewValidationError("status", "must be mastered or unmastered")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return err
	}

	st.statuses[id] = status
	if idx, ok := st.index[id]; ok {
		st.records[idx].Status = status
	}

	return s.saveBoth(ctx, st)
}

// UpdateFields shallow-merges patch onto the record with id. It reports
// whether the record existed; a missing id is a no-op, not an error.
func (s *Store) UpdateFields(ctx context.Context, id string, patch domain.RecordPatch) (bool, error) {
	if patch.Status != nil && !patch.Status.IsValid() {
		return false, domain.NewValidationError("status", "must be mastered or unmastered")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	idx, ok := st.index[id]
	if !ok {
		return false, nil
	}
	if patch.IsEmpty() {
		return true, nil
	}

	patch.Apply(&st.records[idx])
	if err := s.saveRecords(ctx, st); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes one record and its status-map entry. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DeleteMany(ctx, []string{id})
	return err
}

// DeleteMany removes the records and status-map entries for ids and returns
// how many records were removed. Unknown ids are ignored.
func (s *Store) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	drop := make(map[string]struct{}, len(ids))
	statusChanged := false
	for _, id := range ids {
		drop[id] = struct{}{}
		if _, ok := st.statuses[id]; ok {
			delete(st.statuses, id)
			statusChanged = true
		}
	}

	kept := st.records[:0]
	removed := 0
	for _, r := range st.records {
		if _, ok := drop[r.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	st.records = kept

	if removed == 0 && !statusChanged {
		return 0, nil
	}
	if err := s.saveBoth(ctx, st); err != nil {
		return 0, err
	}

	s.log.DebugContext(ctx, "vocabulary deleted", slog.Int("requested", len(ids)), slog.Int("removed", removed))
	return removed, nil
}

// Clear removes both persisted keys.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, KeyVocabulary); err != nil {
		return fmt.Errorf("progress: clear vocabulary: %w", err)
	}
	if err := s.kv.Remove(ctx, KeyProgress); err != nil {
		return fmt.Errorf("progress: clear status map: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// MergeWithStatus resolves the effective status of each given record
// against the stored status map without writing anything.
func (s *Store) MergeWithStatus(ctx context.Context, records []domain.VocabularyRecord) ([]domain.VocabularyRecord, error) {
	s.mu.Lock()
	statuses, err := s.loadStatuses(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]domain.VocabularyRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
		out[i].Status = resolveStatus(r, statuses)
	}
	return out, nil
}

// Load returns every record in insertion order with its effective status.
func (s *Store) Load(ctx context.Context) ([]domain.VocabularyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.resolved(), nil
}

// Get returns one record with its effective status, or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (domain.VocabularyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return domain.VocabularyRecord{}, err
	}
	idx, ok := st.index[id]
	if !ok {
		return domain.VocabularyRecord{}, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	rec := st.records[idx].Clone()
	rec.Status = resolveStatus(rec, st.statuses)
	return rec, nil
}

// ExportRows returns one export row per record, first example only.
func (s *Store) ExportRows(ctx context.Context) ([]domain.ExportRow, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ExportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, domain.ExportRow{
			Vocabulary:         r.Word,
			Meaning:            r.MeaningEN,
			ChineseTranslation: r.MeaningCN,
			Pronunciation:      r.Pronunciation,
			Example:            r.FirstExample(),
			Synonyms:           r.Synonyms,
			Status:             r.Status,
		})
	}
	return rows, nil
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

type state struct {
	records  []domain.VocabularyRecord
	index    map[string]int
	statuses map[string]domain.Status
}

func (st *state) append(r domain.VocabularyRecord) {
	st.index[r.ID] = len(st.records)
	st.records = append(st.records, r)
}

func (st *state) resolved() []domain.VocabularyRecord {
	out := make([]domain.VocabularyRecord, len(st.records))
	for i, r := range st.records {
		out[i] = r.Clone()
		out[i].Status = resolveStatus(r, st.statuses)
	}
	return out
}

// resolveStatus treats a value outside the enum (older data stored "new")
// like a missing one.
func resolveStatus(r domain.VocabularyRecord, statuses map[string]domain.Status) domain.Status {
	if r.Status.IsValid() {
		return r.Status
	}
	if s := statuses[r.ID]; s.IsValid() {
		return s
	}
	return domain.StatusUnmastered
}

func (s *Store) load(ctx context.Context) (*state, error) {
	var stored []domain.VocabularyRecord
	if err := s.read(ctx, KeyVocabulary, &stored); err != nil {
		return nil, err
	}
	statuses, err := s.loadStatuses(ctx)
	if err != nil {
		return nil, err
	}

	st := &state{
		records:  make([]domain.VocabularyRecord, 0, len(stored)),
		index:    make(map[string]int, len(stored)),
		statuses: statuses,
	}
	for _, r := range stored {
		if r.ID == "" {
			r.ID = domain.MakeID(r.Word)
		}
		if _, dup := st.index[r.ID]; dup {
			continue
		}
		r.FoldLegacyExample()
		st.append(r)
	}
	return st, nil
}

func (s *Store) loadStatuses(ctx context.Context) (map[string]domain.Status, error) {
	statuses := map[string]domain.Status{}
	if err := s.read(ctx, KeyProgress, &statuses); err != nil {
		return nil, err
	}
	if statuses == nil {
		statuses = map[string]domain.Status{}
	}
	return statuses, nil
}

// read decodes key into v. A missing key leaves v untouched.
func (s *Store) read(ctx context.Context, key string, v any) error {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("progress: read %s: %w", key, err)
	}
	if err := s.codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("progress: decode %s (%s): %w", key, s.codec.Name(), err)
	}
	return nil
}

func (s *Store) encode(key string, v any) ([]byte, error) {
	data, err := s.codec.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("progress: encode %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) saveRecords(ctx context.Context, st *state) error {
	data, err := s.encode(KeyVocabulary, st.records)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, KeyVocabulary, data); err != nil {
		return fmt.Errorf("progress: write %s: %w", KeyVocabulary, err)
	}
	return nil
}

func (s *Store) saveBoth(ctx context.Context, st *state) error {
	vocab, err := s.encode(KeyVocabulary, st.records)
	if err != nil {
		return err
	}
	progress, err := s.encode(KeyProgress, st.statuses)
	if err != nil {
		return err
	}

	if b, ok := s.kv.(batchSetter); ok {
		if err := b.SetMany(ctx, map[string][]byte{KeyVocabulary: vocab, KeyProgress: progress}); err != nil {
			return fmt.Errorf("progress: write state: %w", err)
		}
		return nil
	}

	if err := s.kv.Set(ctx, KeyProgress, progress); err != nil {
		return fmt.Errorf("progress: write %s: %w", KeyProgress, err)
	}
	if err := s.kv.Set(ctx, KeyVocabulary, vocab); err != nil {
		return fmt.Errorf("progress: write %s: %w", KeyVocabulary, err)
	}
	return nil
}
