package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"dirpurge/internal/ledger/interfaces"
	"dirpurge/internal/models"
	"dirpurge/internal/providers"

	json "github.com/goccy/go-json"
)

// DefaultTable is the table holding deletion records, named the way TinyDB
// names its default table so existing ledgers load unchanged.
const DefaultTable = "_default"

// FileStore keeps the ledger as one JSON document file. The collection is
// held in memory and every mutation rewrites the file atomically.
type FileStore struct {
	path       string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	docs       map[string]*models.DeletionRecord
	// highest integer document id seen, TinyDB hands out lastID+1 next
	lastID int
	// tables other than DefaultTable, written back untouched
	foreign map[string]json.RawMessage
}

func NewFileStore(path string, compressor interfaces.CompressorInterface, logger providers.Logger) (*FileStore, error) {
	if err := touchLedger(path); err != nil {
		return nil, err
	}

	f := &FileStore{
		path:       path,
		compressor: compressor,
		logger:     logger,
		docs:       make(map[string]*models.DeletionRecord),
		foreign:    make(map[string]json.RawMessage),
	}
	if err := f.load(); err != nil {
		return nil, fmt.Errorf("load ledger %s: %w", path, err)
	}
	f.logger.Debugf(providers.TypeLedger, "Loaded %d ledger records from %s", len(f.docs), path)
	return f, nil
}

func (f *FileStore) Insert(rec models.DeletionRecord) (string, error) {
	next := f.lastID + 1
	id := strconv.Itoa(next)
	stored := cloneRecord(&rec)
	stored.ID = id
	f.docs[id] = &stored

	if err := f.save(); err != nil {
		delete(f.docs, id)
		return "", err
	}
	f.lastID = next
	return id, nil
}

func (f *FileStore) Update(match Predicate, apply Mutation) (int, error) {
	previous := make(map[string]int)
	for id, rec := range f.docs {
		if !match(rec) {
			continue
		}
		candidate := cloneRecord(rec)
		apply(&candidate)
		previous[id] = rec.Batch
		rec.Batch = candidate.Batch
	}
	if len(previous) == 0 {
		return 0, nil
	}

	if err := f.save(); err != nil {
		for id, batch := range previous {
			f.docs[id].Batch = batch
		}
		return 0, err
	}
	return len(previous), nil
}

func (f *FileStore) Search(match Predicate) ([]models.DeletionRecord, error) {
	out := make([]models.DeletionRecord, 0)
	for _, rec := range f.docs {
		if match(rec) {
			out = append(out, cloneRecord(rec))
		}
	}
	sortRecords(out)
	return out, nil
}

func (f *FileStore) Close() error {
	f.compressor.Close()
	return nil
}

func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	// A freshly touched ledger is empty, not corrupt.
	if len(data) == 0 {
		return nil
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}
	if len(decompressed) == 0 {
		return nil
	}

	var tables map[string]json.RawMessage
	if err := json.Unmarshal(decompressed, &tables); err != nil {
		return err
	}

	for name, raw := range tables {
		if name != DefaultTable {
			f.logger.Warnf(providers.TypeLedger, "Keeping unknown ledger table %q as is", name)
			f.foreign[name] = raw
			continue
		}
		var docs map[string]*models.DeletionRecord
		if err := json.Unmarshal(raw, &docs); err != nil {
			return fmt.Errorf("decode table %s: %w", name, err)
		}
		for id, rec := range docs {
			if rec == nil {
				continue
			}
			rec.ID = id
			f.docs[id] = rec
			if n, err := strconv.Atoi(id); err == nil && n > f.lastID {
				f.lastID = n
			}
		}
	}
	return nil
}

func (f *FileStore) save() error {
	tables := make(map[string]any, len(f.foreign)+1)
	for name, raw := range f.foreign {
		tables[name] = raw
	}
	tables[DefaultTable] = f.docs

	jsonData, err := json.Marshal(tables)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return fmt.Errorf("compress ledger: %w", err)
	}
	return replaceLedger(f.path, data)
}

// replaceLedger swaps the ledger at path for data. The new content is synced
// next to the old file and renamed over it, so a reader sees either the old
// ledger or the new one.
func replaceLedger(path string, data []byte) (err error) {
	staging := path + ".tmp"
	file, err := os.OpenFile(staging, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("stage ledger %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(staging)
		}
	}()

	if _, err = file.Write(data); err == nil {
		err = file.Sync()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write ledger %s: %w", path, err)
	}

	if err = os.Rename(staging, path); err != nil {
		return fmt.Errorf("replace ledger %s: %w", path, err)
	}
	return nil
}

// touchLedger creates the ledger file and its parent directories when absent.
func touchLedger(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("create ledger file: %w", err)
	}
	return file.Close()
}

func sortRecords(records []models.DeletionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].TS.Equal(records[j].TS) {
			return records[i].TS.Before(records[j].TS)
		}
		return lessID(records[i].ID, records[j].ID)
	})
}

// lessID orders integer ids numerically and anything else after them by text.
func lessID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
