package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"dirpurge/internal/ledger"
	"dirpurge/internal/models"
	"dirpurge/internal/providers"
)

type ReportServiceInterface interface {
	LatestBatch() (models.Summary, error)
	Query() (models.Summary, error)
}

type ReportService struct {
	store   ledger.Store
	session *Session
	logger  providers.Logger
}

func NewReportService(store ledger.Store, session *Session, logger providers.Logger) *ReportService {
	return &ReportService{store: store, session: session, logger: logger}
}

// LatestBatch summarizes the most recent run of today.
func (r *ReportService) LatestBatch() (models.Summary, error) {
	return r.summarize(ledger.And(ledger.OnDate(r.session.Today()), ledger.InBatch(0)))
}

// Query summarizes the whole ledger.
func (r *ReportService) Query() (models.Summary, error) {
	return r.summarize(ledger.All())
}

func (r *ReportService) summarize(match ledger.Predicate) (models.Summary, error) {
	records, err := r.store.Search(match)
	if err != nil {
		return models.Summary{}, wrap(err, "", ReasonLedger)
	}
	r.logger.Debugf(providers.TypeQuery, "Summarizing %d ledger records", len(records))
	return Aggregate(records), nil
}

// Aggregate totals the successful records overall and per extension and
// counts the failed ones. The result does not depend on record order.
func Aggregate(records []models.DeletionRecord) models.Summary {
	var summary models.Summary
	groups := make(map[string]*models.ExtensionSummary)

	for i := range records {
		rec := &records[i]
		if rec.Failed() {
			summary.Errors++
			continue
		}
		summary.Files++
		summary.Bytes += rec.Size

		group, ok := groups[rec.Ext]
		if !ok {
			group = &models.ExtensionSummary{Ext: rec.Ext}
			groups[rec.Ext] = group
		}
		group.Files++
		group.Bytes += rec.Size
	}

	summary.Extensions = make([]models.ExtensionSummary, 0, len(groups))
	for _, group := range groups {
		summary.Extensions = append(summary.Extensions, *group)
	}
	sort.Slice(summary.Extensions, func(i, j int) bool {
		return summary.Extensions[i].Ext < summary.Extensions[j].Ext
	})
	return summary
}

// WriteSummary prints summary in the operator-facing report format.
func WriteSummary(w io.Writer, summary models.Summary, showErrors bool) error {
	if summary.Files > 0 {
		if _, err := fmt.Fprintf(w, "Deleted %d files (%.2f MB)\n", summary.Files, models.Megabytes(summary.Bytes)); err != nil {
			return err
		}
		for _, group := range summary.Extensions {
			if _, err := fmt.Fprintf(w, "--- %s: %d files (%.2f MB)\n", extensionLabel(group.Ext), group.Files, models.Megabytes(group.Bytes)); err != nil {
				return err
			}
		}
	}

	if showErrors && summary.Errors > 0 {
		if _, err := fmt.Fprintf(w, "Errors in %d files.\n", summary.Errors); err != nil {
			return err
		}
	}
	return nil
}

func extensionLabel(ext string) string {
	if ext == "" {
		return "(NONE)"
	}
	return strings.ToUpper(ext)
}
