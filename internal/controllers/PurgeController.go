package controllers

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"dirpurge/internal/ledger"
	"dirpurge/internal/providers"
	"dirpurge/internal/services"

	"github.com/spf13/afero"
)

type PurgeController struct {
	logger  providers.Logger
	fs      afero.Fs
	store   ledger.Store
	session *services.Session
	purge   services.PurgeServiceInterface
	report  services.ReportServiceInterface
	metrics providers.MetricsProviderInterface
}

func NewPurgeController(logger providers.Logger, fs afero.Fs, store ledger.Store, session *services.Session, purge services.PurgeServiceInterface, report services.ReportServiceInterface, metrics providers.MetricsProviderInterface) *PurgeController {
	return &PurgeController{
		logger:  logger,
		fs:      fs,
		store:   store,
		session: session,
		purge:   purge,
		report:  report,
		metrics: metrics,
	}
}

// Run purges dir and prints the summary of the batch it produced. The
// summary is printed even when the purge aborts; the abort is returned.
func (pc *PurgeController) Run(w io.Writer, dir string, exts []string, patterns []string) error {
	root, err := pc.resolveRoot(dir)
	if err != nil {
		return err
	}

	renumbered, err := services.UpdateBatchNumbers(pc.store, pc.session.Today())
	if err != nil {
		return err
	}
	pc.metrics.AddRecordsRenumbered(renumbered)
	pc.logger.Debugf(providers.TypePurge, "Moved %d earlier records of %s back one batch", renumbered, pc.session.Today())

	pc.logger.Infof(providers.TypePurge, "Purging %s (%s)", root, describe(exts, patterns))
	started := time.Now()
	purgeErr := pc.purge.PurgeFiles(root, exts, patterns)
	pc.metrics.ObservePurgeDuration(time.Since(started))
	if purgeErr != nil {
		pc.logger.Errorf(providers.TypePurge, "Purge of %s aborted: %s", root, purgeErr)
	}

	summary, err := pc.report.LatestBatch()
	if err != nil {
		return err
	}
	if err := services.WriteSummary(w, summary, true); err != nil {
		return err
	}

	if err := pc.metrics.Flush(); err != nil {
		pc.logger.Warnf(providers.TypePurge, "Failed to write metrics: %s", err)
	}
	return purgeErr
}

func (pc *PurgeController) resolveRoot(dir string) (string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", &services.PurgeError{Path: dir, Reason: services.ReasonInvalidInput, Err: err}
	}
	info, err := pc.fs.Stat(root)
	if err != nil {
		return "", &services.PurgeError{Path: root, Reason: services.ReasonInvalidInput, Err: err}
	}
	if !info.IsDir() {
		return "", &services.PurgeError{Path: root, Reason: services.ReasonInvalidInput, Err: services.ErrNotDirectory}
	}
	return root, nil
}

// describe formats the purge filters for log lines.
func describe(exts []string, patterns []string) string {
	return fmt.Sprintf("extensions=%v patterns=%v", exts, patterns)
}
