package controllers

import (
	"io"

	"dirpurge/internal/models"
	"dirpurge/internal/providers"
	"dirpurge/internal/services"
)

type QueryController struct {
	logger providers.Logger
	report services.ReportServiceInterface
}

func NewQueryController(logger providers.Logger, report services.ReportServiceInterface) *QueryController {
	return &QueryController{logger: logger, report: report}
}

// Run prints a summary of the whole ledger, or of today's latest batch
// when latest is set.
func (qc *QueryController) Run(w io.Writer, latest bool, showErrors bool) error {
	var (
		summary models.Summary
		err     error
	)
	if latest {
		summary, err = qc.report.LatestBatch()
	} else {
		summary, err = qc.report.Query()
	}
	if err != nil {
		return err
	}

	qc.logger.Debugf(providers.TypeQuery, "Ledger holds %d deleted files and %d failures in scope", summary.Files, summary.Errors)
	return services.WriteSummary(w, summary, showErrors)
}
