package providers

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dirpurge/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncFilesDeleted(bytes int64)
	IncFileFailures(reason string)
	IncDirectoriesRemoved()
	IncDirectoryFailures()
	AddRecordsRenumbered(count int)
	ObservePurgeDuration(duration time.Duration)
	Flush() error
}

type MetricsProvider struct {
	registry           *prometheus.Registry
	textfilePath       string
	filesDeleted       prometheus.Counter
	bytesDeleted       prometheus.Counter
	fileFailures       *prometheus.CounterVec
	directoriesRemoved prometheus.Counter
	directoryFailures  prometheus.Counter
	recordsRenumbered  prometheus.Counter
	purgeDuration      prometheus.Gauge
	lastRun            prometheus.Gauge
}

func (m *MetricsProvider) IncFilesDeleted(bytes int64) {
	m.filesDeleted.Inc()
	m.bytesDeleted.Add(float64(bytes))
}

func (m *MetricsProvider) IncFileFailures(reason string) {
	m.fileFailures.WithLabelValues(reason).Inc()
}

func (m *MetricsProvider) IncDirectoriesRemoved() {
	m.directoriesRemoved.Inc()
}

func (m *MetricsProvider) IncDirectoryFailures() {
	m.directoryFailures.Inc()
}

func (m *MetricsProvider) AddRecordsRenumbered(count int) {
	m.recordsRenumbered.Add(float64(count))
}

func (m *MetricsProvider) ObservePurgeDuration(duration time.Duration) {
	m.purgeDuration.Set(duration.Seconds())
	m.lastRun.SetToCurrentTime()
}

// Flush writes every collected metric to the textfile in the format read by
// the node exporter textfile collector.
func (m *MetricsProvider) Flush() error {
	if err := os.MkdirAll(filepath.Dir(m.textfilePath), 0755); err != nil {
		return fmt.Errorf("prepare metrics directory: %w", err)
	}
	return prometheus.WriteToTextfile(m.textfilePath, m.registry)
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &MetricsProvider{
		registry:     reg,
		textfilePath: conf.Metrics.TextfilePath,

		filesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "dirpurge_files_deleted_total",
			Help: "Number of files deleted in the last run",
		}),

		bytesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "dirpurge_bytes_deleted_total",
			Help: "Bytes freed by deleted files in the last run",
		}),

		fileFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dirpurge_file_failures_total",
			Help: "Failed file deletion attempts by reason",
		}, []string{"reason"}),

		directoriesRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "dirpurge_directories_removed_total",
			Help: "Directories removed after their contents were purged",
		}),

		directoryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "dirpurge_directory_failures_total",
			Help: "Directories that could not be removed",
		}),

		recordsRenumbered: factory.NewCounter(prometheus.CounterOpts{
			Name: "dirpurge_records_renumbered_total",
			Help: "Ledger records of today moved to an older batch",
		}),

		purgeDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dirpurge_purge_duration_seconds",
			Help: "Duration of the last purge run in seconds",
		}),

		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dirpurge_last_run_timestamp_seconds",
			Help: "Unix time the last purge run finished",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncFilesDeleted(_ int64)              {}
func (n *noopMetrics) IncFileFailures(_ string)             {}
func (n *noopMetrics) IncDirectoriesRemoved()               {}
func (n *noopMetrics) IncDirectoryFailures()                {}
func (n *noopMetrics) AddRecordsRenumbered(_ int)           {}
func (n *noopMetrics) ObservePurgeDuration(_ time.Duration) {}
func (n *noopMetrics) Flush() error                         { return nil }
