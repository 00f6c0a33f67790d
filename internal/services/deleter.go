package services

import (
	"os"

	"dirpurge/internal/ledger"
	"dirpurge/internal/models"
	"dirpurge/internal/providers"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// Deleter removes single files and writes one ledger record per attempt.
type Deleter struct {
	fs      afero.Fs
	store   ledger.Store
	session *Session
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewDeleter(fs afero.Fs, store ledger.Store, session *Session, logger providers.Logger, metrics providers.MetricsProviderInterface) *Deleter {
	return &Deleter{fs: fs, store: store, session: session, logger: logger, metrics: metrics}
}

// PurgeFile deletes path and records the attempt. A permission failure is
// recorded with its errno and swallowed. Any other removal failure is
// recorded and then returned. A failed size lookup returns before anything
// is recorded.
func (d *Deleter) PurgeFile(path string) (models.DeletionRecord, error) {
	info, err := lstat(d.fs, path)
	if err != nil {
		d.metrics.IncFileFailures(string(ReasonStat))
		return models.DeletionRecord{}, wrap(err, path, ReasonStat)
	}

	rec := models.NewDeletionRecord(path, info.Size(), d.session.Now())
	// the batch belongs to the day the session started, even past midnight
	rec.Date = d.session.Today()
	outcome := classify(d.fs.Remove(path))

	switch outcome.Kind {
	case OutcomePermissionDenied:
		rec.Error = models.ErrorWithCode(outcome.Code)
	case OutcomeUnclassified:
		rec.Error = models.UnclassifiedError()
	}

	id, err := d.store.Insert(rec)
	if err != nil {
		return rec, wrap(err, path, ReasonLedger)
	}
	rec.ID = id

	switch outcome.Kind {
	case OutcomeDeleted:
		d.metrics.IncFilesDeleted(rec.Size)
		d.logger.Debugf(providers.TypePurge, "Deleted %s (%s)", path, humanize.IBytes(uint64(rec.Size)))
		return rec, nil
	case OutcomePermissionDenied:
		d.metrics.IncFileFailures(outcome.Kind.String())
		d.logger.Warnf(providers.TypePurge, "Permission denied deleting %s [%d]", path, outcome.Code)
		return rec, nil
	default:
		d.metrics.IncFileFailures(outcome.Kind.String())
		d.logger.Errorf(providers.TypePurge, "Failed to delete %s: %v", path, outcome.Cause)
		return rec, wrap(outcome.Cause, path, ReasonUnclassified)
	}
}

// lstat reports on path itself when the filesystem can, so a symlink is
// sized and removed as an entry instead of through its target.
func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}
