package testutil

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"dirpurge/internal/models"
	"dirpurge/internal/providers"

	"github.com/spf13/afero"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Messages returns the formatted messages logged at level.
func (m *MockLogger) Messages(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e.Message())
		}
	}
	return out
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MemoryStore implements ledger.Store in memory. InsertErr makes every
// Insert fail.
type MemoryStore struct {
	mu        sync.Mutex
	Records   []models.DeletionRecord
	InsertErr error
	nextID    int
}

func (s *MemoryStore) Insert(rec models.DeletionRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertErr != nil {
		return "", s.InsertErr
	}
	s.nextID++
	rec.ID = fmt.Sprintf("%d", s.nextID)
	s.Records = append(s.Records, rec)
	return rec.ID, nil
}

func (s *MemoryStore) Update(match func(*models.DeletionRecord) bool, apply func(*models.DeletionRecord)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.Records {
		if match(&s.Records[i]) {
			candidate := s.Records[i]
			apply(&candidate)
			s.Records[i].Batch = candidate.Batch
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Search(match func(*models.DeletionRecord) bool) ([]models.DeletionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DeletionRecord, 0)
	for i := range s.Records {
		if match(&s.Records[i]) {
			out = append(out, s.Records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TS.Before(out[j].TS) })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// Files returns the file paths of all stored records in insertion order.
func (s *MemoryStore) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Records))
	for _, r := range s.Records {
		out = append(out, r.File)
	}
	return out
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                 sync.Mutex
	FilesDeleted       int
	BytesDeleted       int64
	FileFailures       map[string]int
	DirectoriesRemoved int
	DirectoryFailures  int
	RecordsRenumbered  int
	Durations          []time.Duration
	Flushes            int
	FlushErr           error
}

func (m *MockMetrics) IncFilesDeleted(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FilesDeleted++
	m.BytesDeleted += bytes
}

func (m *MockMetrics) IncFileFailures(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FileFailures == nil {
		m.FileFailures = make(map[string]int)
	}
	m.FileFailures[reason]++
}

func (m *MockMetrics) IncDirectoriesRemoved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DirectoriesRemoved++
}

func (m *MockMetrics) IncDirectoryFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DirectoryFailures++
}

func (m *MockMetrics) AddRecordsRenumbered(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordsRenumbered += count
}

func (m *MockMetrics) ObservePurgeDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Durations = append(m.Durations, d)
}

func (m *MockMetrics) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushes++
	return m.FlushErr
}

// FaultyFs wraps a real filesystem and fails Remove for selected paths with
// the given errno, the way the OS reports a refused unlink.
type FaultyFs struct {
	afero.Fs
	mu         sync.Mutex
	RemoveErrs map[string]error
	Removed    []string
}

func NewFaultyFs(base afero.Fs) *FaultyFs {
	return &FaultyFs{Fs: base, RemoveErrs: make(map[string]error)}
}

// FailRemove makes every Remove of path fail with err.
func (f *FaultyFs) FailRemove(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RemoveErrs[path] = err
}

func (f *FaultyFs) Remove(name string) error {
	f.mu.Lock()
	injected, ok := f.RemoveErrs[name]
	f.mu.Unlock()
	if ok {
		return &os.PathError{Op: "remove", Path: name, Err: injected}
	}
	if err := f.Fs.Remove(name); err != nil {
		return err
	}
	f.mu.Lock()
	f.Removed = append(f.Removed, name)
	f.mu.Unlock()
	return nil
}

// LstatIfPossible forwards to the wrapped filesystem so symlinks are not followed.
func (f *FaultyFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	if l, ok := f.Fs.(afero.Lstater); ok {
		return l.LstatIfPossible(name)
	}
	info, err := f.Fs.Stat(name)
	return info, false, err
}

// ErrBoom is a generic failure for tests that need an unclassified error.
var ErrBoom = errors.New("boom")
