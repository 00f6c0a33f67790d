package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dirpurge/internal/testutil"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 12, 30, 0, 0, time.Local)

type harness struct {
	root    string
	fs      *testutil.FaultyFs
	store   *testutil.MemoryStore
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
	session *Session
	deleter *Deleter
	tree    *TreePurger
	purge   *PurgeService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		root:    t.TempDir(),
		fs:      testutil.NewFaultyFs(afero.NewOsFs()),
		store:   &testutil.MemoryStore{},
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
		session: NewSessionWithClock(func() time.Time { return fixedNow }),
	}
	h.deleter = NewDeleter(h.fs, h.store, h.session, h.logger, h.metrics)
	h.tree = NewTreePurger(h.fs, h.deleter, h.logger, h.metrics)
	h.purge = NewPurgeService(h.fs, h.deleter, h.tree, h.logger)
	return h
}

// file creates rel under the harness root with size bytes and returns its path.
func (h *harness) file(t *testing.T, rel string, size int64) string {
	t.Helper()
	path := filepath.Join(h.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
	return path
}

func (h *harness) dir(t *testing.T, rel string) string {
	t.Helper()
	path := filepath.Join(h.root, rel)
	require.NoError(t, os.MkdirAll(path, 0755))
	return path
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
