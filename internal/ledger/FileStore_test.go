package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dirpurge/internal/models"
	"dirpurge/internal/testutil"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T, path string) *FileStore {
	t.Helper()
	fs, err := NewFileStore(path, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	return fs
}

func record(file, date string, batch int) models.DeletionRecord {
	ts, _ := time.Parse(models.DateLayout, date)
	rec := models.NewDeletionRecord(file, 100, ts)
	rec.Batch = batch
	return rec
}

func TestFileStore_CreatesMissingFileAndParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".purge", "db.json")

	fs := newTestFileStore(t, path)
	defer fs.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())

	all, err := fs.Search(All())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStore_InsertPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	fs := newTestFileStore(t, path)
	id, err := fs.Insert(record("/x/a.tmp", "2026-10-17", 0))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NoError(t, fs.Close())

	// tmp file should be cleaned up
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	reopened := newTestFileStore(t, path)
	all, err := reopened.Search(All())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
	assert.Equal(t, "/x/a.tmp", all[0].File)
	assert.Equal(t, ".tmp", all[0].Ext)
}

func TestFileStore_InsertNumbersDocuments(t *testing.T) {
	fs := newTestFileStore(t, filepath.Join(t.TempDir(), "db.json"))

	first, err := fs.Insert(record("/x/a.tmp", "2026-10-17", 0))
	require.NoError(t, err)
	second, err := fs.Insert(record("/x/a.tmp", "2026-10-17", 0))
	require.NoError(t, err)

	assert.Equal(t, "1", first)
	assert.Equal(t, "2", second)
}

func TestFileStore_SearchOrdersEqualTimestampsByNumber(t *testing.T) {
	fs := newTestFileStore(t, filepath.Join(t.TempDir(), "db.json"))
	for i := 0; i < 10; i++ {
		_, err := fs.Insert(record("/x/a.tmp", "2026-10-17", 0))
		require.NoError(t, err)
	}

	all, err := fs.Search(All())
	require.NoError(t, err)
	require.Len(t, all, 10)
	assert.Equal(t, "9", all[8].ID)
	assert.Equal(t, "10", all[9].ID)
}

func TestFileStore_WritesTinyDBLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	fs := newTestFileStore(t, path)

	rec := record("/x/b.tmp", "2026-10-17", 0)
	rec.Error = models.ErrorWithCode(13)
	id, err := fs.Insert(rec)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var tables map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &tables))
	doc := tables[DefaultTable][id]
	require.NotNil(t, doc)
	assert.Equal(t, "/x/b.tmp", doc["file"])
	assert.Equal(t, "2026-10-17", doc["date"])
	assert.Equal(t, float64(13), doc["error"])
	assert.Equal(t, float64(0), doc["batch"])
}

func TestFileStore_LoadsExistingTinyDBLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	raw := `{"_default": {
		"1": {"ts": "2026-10-16T10:00:00.000001+02:00", "date": "2026-10-16", "file": "/a/x.log", "ext": ".log", "size": 5, "batch": 0},
		"2": {"ts": "2026-10-17T10:00:00.000001+02:00", "date": "2026-10-17", "file": "/a/y.log", "ext": ".log", "size": 7, "batch": 0, "error": true}
	}, "other": {"1": {"k": "v"}}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	fs := newTestFileStore(t, path)
	all, err := fs.Search(All())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "2", all[1].ID)
	require.NotNil(t, all[1].Error)
	assert.True(t, all[1].Error.Unclassified())

	// Numbering continues after the highest existing id.
	id, err := fs.Insert(record("/a/z.log", "2026-10-17", 0))
	require.NoError(t, err)
	assert.Equal(t, "3", id)

	// Unknown tables survive a rewrite.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"other"`)
}

func TestFileStore_UpdateOnlyTouchesMatchesAndBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	fs := newTestFileStore(t, path)

	_, err := fs.Insert(record("/x/old.tmp", "2026-10-16", 0))
	require.NoError(t, err)
	_, err = fs.Insert(record("/x/today0.tmp", "2026-10-17", 0))
	require.NoError(t, err)
	_, err = fs.Insert(record("/x/today1.tmp", "2026-10-17", 1))
	require.NoError(t, err)

	n, err := fs.Update(OnDate("2026-10-17"), func(rec *models.DeletionRecord) {
		rec.Batch++
		rec.File = "/tampered"
		rec.Size = 0
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	reopened := newTestFileStore(t, path)
	today, err := reopened.Search(OnDate("2026-10-17"))
	require.NoError(t, err)
	batches := map[string]int{}
	for _, rec := range today {
		batches[rec.File] = rec.Batch
		assert.Equal(t, int64(100), rec.Size)
	}
	assert.Equal(t, map[string]int{"/x/today0.tmp": 1, "/x/today1.tmp": 2}, batches)

	old, err := reopened.Search(OnDate("2026-10-16"))
	require.NoError(t, err)
	require.Len(t, old, 1)
	assert.Equal(t, 0, old[0].Batch)
}

func TestFileStore_UpdateWithoutMatchesDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	fs := newTestFileStore(t, path)

	n, err := fs.Update(OnDate("2026-10-17"), IncrementBatch)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestFileStore_SearchReturnsCopies(t *testing.T) {
	fs := newTestFileStore(t, filepath.Join(t.TempDir(), "db.json"))
	_, err := fs.Insert(record("/x/a.tmp", "2026-10-17", 0))
	require.NoError(t, err)

	found, err := fs.Search(All())
	require.NoError(t, err)
	found[0].Batch = 99

	again, err := fs.Search(All())
	require.NoError(t, err)
	assert.Equal(t, 0, again[0].Batch)
}

func TestFileStore_InsertRollsBackOnWriteError(t *testing.T) {
	comp := &testutil.MockCompressor{}
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "db.json"), comp, &testutil.MockLogger{})
	require.NoError(t, err)

	comp.CompressFn = func([]byte) ([]byte, error) { return nil, testutil.ErrBoom }
	_, err = fs.Insert(record("/x/a.tmp", "2026-10-17", 0))
	assert.ErrorIs(t, err, testutil.ErrBoom)

	all, err := fs.Search(All())
	require.NoError(t, err)
	assert.Empty(t, all)

	// the failed insert does not use up an id
	comp.CompressFn = nil
	id, err := fs.Insert(record("/x/a.tmp", "2026-10-17", 0))
	require.NoError(t, err)
	assert.Equal(t, "1", id)
}

func TestFileStore_StagingFailureKeepsLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	fs := newTestFileStore(t, path)
	_, err := fs.Insert(record("/x/a.tmp", "2026-10-17", 0))
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// a directory in the staging spot makes the write fail
	require.NoError(t, os.Mkdir(path+".tmp", 0755))
	_, err = fs.Insert(record("/x/b.tmp", "2026-10-17", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage ledger "+path)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	all, err := fs.Search(All())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFileStore_UpdateRollsBackOnWriteError(t *testing.T) {
	comp := &testutil.MockCompressor{}
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "db.json"), comp, &testutil.MockLogger{})
	require.NoError(t, err)
	_, err = fs.Insert(record("/x/a.tmp", "2026-10-17", 0))
	require.NoError(t, err)

	comp.CompressFn = func([]byte) ([]byte, error) { return nil, testutil.ErrBoom }
	_, err = fs.Update(All(), IncrementBatch)
	assert.ErrorIs(t, err, testutil.ErrBoom)

	all, err := fs.Search(All())
	require.NoError(t, err)
	assert.Equal(t, 0, all[0].Batch)
}

func TestFileStore_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0644))

	_, err := NewFileStore(path, &testutil.MockCompressor{}, &testutil.MockLogger{})
	assert.Error(t, err)
}

func TestFileStore_ZstdRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json.zst")

	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	fs, err := NewFileStore(path, comp, &testutil.MockLogger{})
	require.NoError(t, err)
	_, err = fs.Insert(record("/x/a.tmp", "2026-10-17", 0))
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, data[:4], "zstd frame magic")

	comp2, err := NewZstdCompressor()
	require.NoError(t, err)
	reopened, err := NewFileStore(path, comp2, &testutil.MockLogger{})
	require.NoError(t, err)
	defer reopened.Close()
	all, err := reopened.Search(All())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "/x/a.tmp", all[0].File)
}

func TestFileStore_CloseReleasesCompressor(t *testing.T) {
	comp := &testutil.MockCompressor{}
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "db.json"), comp, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, fs.Close())
	assert.True(t, comp.Closed)
}
