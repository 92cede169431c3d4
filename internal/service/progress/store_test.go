package progress

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lexipath/internal/adapter/kv"
	"github.com/heartmarshall/lexipath/internal/domain"
)

// ===========================================================================
// Helpers
// ===========================================================================

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// plainKV implements only Get/Set/Remove so the non-batched write path runs.
type plainKV struct {
	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte) error
	RemoveFunc func(ctx context.Context, key string) error
}

func (m *plainKV) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, domain.ErrNotFound
}

func (m *plainKV) Set(ctx context.Context, key string, value []byte) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	return nil
}

func (m *plainKV) Remove(ctx context.Context, key string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, key)
	}
	return nil
}

func rec(word string, status domain.Status) domain.VocabularyRecord {
	return domain.VocabularyRecord{ID: domain.MakeID(word), Word: word, Status: status}
}

func newStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	return NewStore(newTestLogger(), mem, nil), mem
}

func statusMap(t *testing.T, mem *kv.Memory) map[string]domain.Status {
	t.Helper()
	data, err := mem.Get(context.Background(), KeyProgress)
	if errors.Is(err, domain.ErrNotFound) {
		return map[string]domain.Status{}
	}
	require.NoError(t, err)
	m := map[string]domain.Status{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

// ===========================================================================
// Upsert
// ===========================================================================

func TestStore_Upsert_InsertsNewRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	res, err := s.Upsert(ctx, []domain.VocabularyRecord{
		rec("Pragmatic", domain.StatusUnmastered),
		rec("Ambiguous", domain.StatusUnmastered),
	})
	require.NoError(t, err)
	assert.Equal(t, UpsertResult{Inserted: 2}, res)

	all, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "id-pragmatic", all[0].ID)
	assert.Equal(t, "id-ambiguous", all[1].ID)
}

func TestStore_Upsert_PreservesMasteredStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.Upsert(ctx, []domain.VocabularyRecord{rec("Eloquent", domain.StatusUnmastered)})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(ctx, "id-eloquent", domain.StatusMastered))

	incoming := rec("Eloquent", domain.StatusUnmastered)
	incoming.MeaningEN = "Fluent or persuasive"
	res, err := s.Upsert(ctx, []domain.VocabularyRecord{incoming})
	require.NoError(t, err)
	assert.Equal(t, UpsertResult{Updated: 1}, res)

	got, err := s.Get(ctx, "id-eloquent")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMastered, got.Status)
	assert.Equal(t, "Fluent or persuasive", got.MeaningEN, "content fields are overwritten")
}

func TestStore_Upsert_IdempotentUnderStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	source := []domain.VocabularyRecord{
		rec("Pragmatic", domain.StatusUnmastered),
		rec("Ambiguous", domain.StatusUnmastered),
		rec("Eloquent", domain.StatusUnmastered),
	}
	_, err := s.Upsert(ctx, source)
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(ctx, "id-ambiguous", domain.StatusMastered))

	before, err := s.Load(ctx)
	require.NoError(t, err)

	for range 2 {
		_, err := s.Upsert(ctx, source)
		require.NoError(t, err)
	}

	after, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Status, after[i].Status, before[i].ID)
	}
}

func TestStore_Upsert_LegacyStatusMapIsPreserved(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := kv.NewMemory()
	s := NewStore(newTestLogger(), mem, nil)

	// Record written before status was embedded; mastery lives only in the map.
	legacy, _ := json.Marshal([]map[string]any{{"id": "id-scrutiny", "word": "Scrutiny", "example": "Under scrutiny."}})
	require.NoError(t, mem.Set(ctx, KeyVocabulary, legacy))
	require.NoError(t, mem.Set(ctx, KeyProgress, []byte(`{"id-scrutiny":"mastered"}`)))

	_, err := s.Upsert(ctx, []domain.VocabularyRecord{rec("Scrutiny", domain.StatusUnmastered)})
	require.NoError(t, err)

	got, err := s.Get(ctx, "id-scrutiny")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMastered, got.Status)
}

func TestStore_Upsert_ExistingWithoutStatusTakesIncoming(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := kv.NewMemory()
	s := NewStore(newTestLogger(), mem, nil)

	require.NoError(t, mem.Set(ctx, KeyVocabulary, []byte(`[{"id":"id-a","word":"a"}]`)))

	_, err := s.Upsert(ctx, []domain.VocabularyRecord{rec("a", domain.StatusMastered)})
	require.NoError(t, err)
	got, err := s.Get(ctx, "id-a")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMastered, got.Status)

	require.NoError(t, mem.Set(ctx, KeyVocabulary, []byte(`[{"id":"id-b","word":"b"}]`)))
	_, err = s.Upsert(ctx, []domain.VocabularyRecord{rec("b", "")})
	require.NoError(t, err)
	got, err = s.Get(ctx, "id-b")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnmastered, got.Status)
}

func TestStore_Upsert_FoldsLegacyExampleAndDerivesID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.Upsert(ctx, []domain.VocabularyRecord{{Word: "Give up", Example: "Never give up."}})
	require.NoError(t, err)

	got, err := s.Get(ctx, "id-give-up")
	require.NoError(t, err)
	assert.Equal(t, []string{"Never give up."}, got.Examples)
	assert.Empty(t, got.Example)
	assert.Equal(t, domain.StatusUnmastered, got.Status)
}

func TestStore_StatusOutsideEnumResolvesLikeMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name     string
		progress string
		want     domain.Status
	}{
		{name: "falls back to default", want: domain.StatusUnmastered},
		{name: "falls back to status map", progress: `{"3":"mastered"}`, want: domain.StatusMastered},
		{name: "invalid map entry is ignored too", progress: `{"3":"learning"}`, want: domain.StatusUnmastered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, mem := newStore(t)
			require.NoError(t, mem.Set(ctx, KeyVocabulary, []byte(`[{"id":"3","word":"Eloquent","status":"new"}]`)))
			if tt.progress != "" {
				require.NoError(t, mem.Set(ctx, KeyProgress, []byte(tt.progress)))
			}

			loaded, err := s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, loaded, 1)
			assert.Equal(t, tt.want, loaded[0].Status)

			_, err = s.Upsert(ctx, []domain.VocabularyRecord{{ID: "3", Word: "Eloquent", MeaningEN: "fluent"}})
			require.NoError(t, err)

			got, err := s.Get(ctx, "3")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, "fluent", got.MeaningEN)

			rows, err := s.ExportRows(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows[0].Status)
		})
	}
}

func TestStore_Upsert_DropsStatusOutsideEnumOnInsert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.Upsert(ctx, []domain.VocabularyRecord{rec("Pragmatic", "new")})
	require.NoError(t, err)

	got, err := s.Get(ctx, "id-pragmatic")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnmastered, got.Status)

	unmastered := domain.StatusUnmastered
	assert.True(t, domain.VocabularyFilter{Status: &unmastered}.Matches(got))
}

func TestStore_Upsert_CapsExamples(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	r := rec("Ambiguous", domain.StatusUnmastered)
	r.Examples = []string{"e1", "e2", "e2", "e3", "e4", "e5", "e6", "e7"}
	_, err := s.Upsert(ctx, []domain.VocabularyRecord{r})
	require.NoError(t, err)

	got, err := s.Get(ctx, "id-ambiguous")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2", "e3", "e4", "e5"}, got.Examples)
}

// ===========================================================================
// UpdateStatus / UpdateFields
// ===========================================================================

func TestStore_UpdateStatus_WritesBothMaps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, mem := newStore(t)

	_, err := s.Upsert(ctx, []domain.VocabularyRecord{rec("Eloquent", domain.StatusUnmastered)})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(ctx, "id-eloquent", domain.StatusMastered))

	got, err := s.Get(ctx, "id-eloquent")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMastered, got.Status)
	assert.Equal(t, domain.StatusMastered, statusMap(t, mem)["id-eloquent"])
}

func TestStore_UpdateStatus_UnknownIDOnlyTouchesStatusMap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, mem := newStore(t)

	require.NoError(t, s.UpdateStatus(ctx, "id-ghost", domain.StatusMastered))

	all, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, domain.StatusMastered, statusMap(t, mem)["id-ghost"])
}

func TestStore_UpdateStatus_InvalidStatus(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t)

	err := s.UpdateStatus(context.Background(), "id-x", "learning")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStore_UpdateFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	base := rec("Eloquent", domain.StatusMastered)
	base.MeaningCN = "雄辩的"
	_, err := s.Upsert(ctx, []domain.VocabularyRecord{base})
	require.NoError(t, err)

	pron := "/ˈeləkwənt/"
	found, err := s.UpdateFields(ctx, "id-eloquent", domain.RecordPatch{
		Pronunciation: &pron,
		Examples:      []string{"She made an eloquent appeal."},
	})
	require.NoError(t, err)
	assert.True(t, found)

	got, err := s.Get(ctx, "id-eloquent")
	require.NoError(t, err)
	assert.Equal(t, pron, got.Pronunciation)
	assert.Equal(t, "雄辩的", got.MeaningCN, "untouched fields survive")
	assert.Equal(t, domain.StatusMastered, got.Status)
	assert.Equal(t, []string{"She made an eloquent appeal."}, got.Examples)
}

func TestStore_UpdateFields_CapsExamples(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.Upsert(ctx, []domain.VocabularyRecord{rec("Eloquent", domain.StatusUnmastered)})
	require.NoError(t, err)

	found, err := s.UpdateFields(ctx, "id-eloquent", domain.RecordPatch{
		Examples: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
	})
	require.NoError(t, err)
	require.True(t, found)

	got, err := s.Get(ctx, "id-eloquent")
	require.NoError(t, err)
	assert.Len(t, got.Examples, domain.MaxExamples)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got.Examples)
}

func TestStore_UpdateFields_MissingIDIsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, mem := newStore(t)

	meaning := "x"
	found, err := s.UpdateFields(ctx, "id-none", domain.RecordPatch{MeaningEN: &meaning})
	require.NoError(t, err)
	assert.False(t, found)

	_, err = mem.Get(ctx, KeyVocabulary)
	assert.ErrorIs(t, err, domain.ErrNotFound, "nothing written")
}

// ===========================================================================
// Delete
// ===========================================================================

func TestStore_DeleteMany_RemovesFromBothMaps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, mem := newStore(t)

	_, err := s.Upsert(ctx, []domain.VocabularyRecord{
		rec("a", domain.StatusUnmastered),
		rec("b", domain.StatusUnmastered),
		rec("c", domain.StatusUnmastered),
	})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(ctx, "id-a", domain.StatusMastered))
	require.NoError(t, s.UpdateStatus(ctx, "id-b", domain.StatusMastered))

	removed, err := s.DeleteMany(ctx, []string{"id-a", "id-b"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	all, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "id-c", all[0].ID)

	statuses := statusMap(t, mem)
	assert.NotContains(t, statuses, "id-a")
	assert.NotContains(t, statuses, "id-b")
}

func TestStore_Delete_UnknownIDChangesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, mem := newStore(t)

	_, err := s.Upsert(ctx, []domain.VocabularyRecord{rec("a", domain.StatusUnmastered)})
	require.NoError(t, err)
	before, _ := mem.Get(ctx, KeyVocabulary)

	require.NoError(t, s.Delete(ctx, "id-nope"))

	after, _ := mem.Get(ctx, KeyVocabulary)
	assert.Equal(t, before, after)
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, mem := newStore(t)

	_, err := s.Upsert(ctx, []domain.VocabularyRecord{rec("a", domain.StatusUnmastered)})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(ctx, "id-a", domain.StatusMastered))

	require.NoError(t, s.Clear(ctx))

	_, err = mem.Get(ctx, KeyVocabulary)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = mem.Get(ctx, KeyProgress)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ===========================================================================
// Reads
// ===========================================================================

func TestStore_MergeWithStatus_Precedence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := kv.NewMemory()
	s := NewStore(newTestLogger(), mem, nil)

	require.NoError(t, mem.Set(ctx, KeyProgress, []byte(`{"id-a":"mastered","id-b":"mastered"}`)))

	in := []domain.VocabularyRecord{
		rec("a", domain.StatusUnmastered), // embedded wins
		rec("b", ""),                      // falls back to map
		rec("c", ""),                      // default
	}
	got, err := s.MergeWithStatus(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusUnmastered, got[0].Status)
	assert.Equal(t, domain.StatusMastered, got[1].Status)
	assert.Equal(t, domain.StatusUnmastered, got[2].Status)
	assert.Empty(t, in[1].Status, "input is not mutated")

	_, err = mem.Get(ctx, KeyVocabulary)
	assert.ErrorIs(t, err, domain.ErrNotFound, "read-only helper writes nothing")
}

func TestStore_Get_NotFound(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t)

	_, err := s.Get(context.Background(), "id-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ExportRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	r := domain.VocabularyRecord{
		Word: "Eloquent", MeaningEN: "Fluent", MeaningCN: "雄辩的", Pronunciation: "/e/",
		Examples: []string{"first", "second"}, Synonyms: "articulate, fluent",
	}
	_, err := s.Upsert(ctx, []domain.VocabularyRecord{r})
	require.NoError(t, err)

	rows, err := s.ExportRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.ExportRow{
		Vocabulary:         "Eloquent",
		Meaning:            "Fluent",
		ChineseTranslation: "雄辩的",
		Pronunciation:      "/e/",
		Example:            "first",
		Synonyms:           "articulate, fluent",
		Status:             domain.StatusUnmastered,
	}, rows[0])
}

// ===========================================================================
// Backends and codecs
// ===========================================================================

func TestStore_PlainBackendWritesBothKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	data := map[string][]byte{}
	backend := &plainKV{
		GetFunc: func(_ context.Context, key string) ([]byte, error) {
			if v, ok := data[key]; ok {
				return v, nil
			}
			return nil, domain.ErrNotFound
		},
		SetFunc: func(_ context.Context, key string, value []byte) error {
			data[key] = value
			return nil
		},
	}
	s := NewStore(newTestLogger(), backend, nil)

	require.NoError(t, s.UpdateStatus(ctx, "id-a", domain.StatusMastered))
	assert.Contains(t, data, KeyProgress)
	assert.Contains(t, data, KeyVocabulary)
}

func TestStore_BackendErrorPropagates(t *testing.T) {
	t.Parallel()
	boom := errors.New("disk full")
	backend := &plainKV{
		SetFunc: func(context.Context, string, []byte) error { return boom },
	}
	s := NewStore(newTestLogger(), backend, nil)

	_, err := s.Upsert(context.Background(), []domain.VocabularyRecord{rec("a", "")})
	assert.ErrorIs(t, err, boom)
}

func TestStore_CorruptDataIsAnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, KeyVocabulary, []byte("{not json")))
	s := NewStore(newTestLogger(), mem, nil)

	_, err := s.Load(ctx)
	require.Error(t, err)
}

func TestStore_MsgpackCodecRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore(newTestLogger(), kv.NewMemory(), MsgpackCodec{})

	r := rec("Eloquent", domain.StatusUnmastered)
	r.Examples = []string{"one"}
	_, err := s.Upsert(ctx, []domain.VocabularyRecord{r})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(ctx, "id-eloquent", domain.StatusMastered))

	got, err := s.Get(ctx, "id-eloquent")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMastered, got.Status)
	assert.Equal(t, []string{"one"}, got.Examples)
}

func TestCodecByName(t *testing.T) {
	t.Parallel()

	c, err := CodecByName("msgpack")
	require.NoError(t, err)
	assert.Equal(t, "msgpack", c.Name())

	c, err = CodecByName("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	_, err = CodecByName("gob")
	assert.Error(t, err)
}
