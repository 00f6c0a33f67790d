package services

import (
	"errors"
	"path/filepath"
	"syscall"

	"dirpurge/internal/providers"

	"github.com/spf13/afero"
)

// TreePurger empties a directory subtree through the Deleter and removes
// the directories bottom-up.
type TreePurger struct {
	fs      afero.Fs
	deleter *Deleter
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewTreePurger(fs afero.Fs, deleter *Deleter, logger providers.Logger, metrics providers.MetricsProviderInterface) *TreePurger {
	return &TreePurger{fs: fs, deleter: deleter, logger: logger, metrics: metrics}
}

// PurgeDir deletes every file below path and then path itself. A directory
// that cannot be removed is reported and skipped. An aborting failure from
// a file stops the walk, after the directories on the way up have been
// tried, and is returned.
func (t *TreePurger) PurgeDir(path string) error {
	entries, err := afero.ReadDir(t.fs, path)
	if err != nil {
		return wrap(err, path, ReasonStat)
	}

	var abort error
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			abort = t.PurgeDir(child)
		} else {
			_, abort = t.deleter.PurgeFile(child)
		}
		if abort != nil {
			break
		}
	}

	t.removeDir(path)
	return abort
}

func (t *TreePurger) removeDir(path string) {
	err := t.fs.Remove(path)
	if err == nil {
		t.metrics.IncDirectoriesRemoved()
		t.logger.Debugf(providers.TypePurge, "Removed directory %s", path)
		return
	}

	t.metrics.IncDirectoryFailures()
	reason := err.Error()
	var errno syscall.Errno
	if errors.As(err, &errno) {
		reason = errno.Error()
	}
	t.logger.Errorf(providers.TypePurge, "Error trying to purge %s: %s [%d]", path, reason, errnoOf(err))
}
