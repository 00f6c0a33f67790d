package models

const bytesPerMegabyte = 1024 * 1024

type ExtensionSummary struct {
	Ext   string `json:"ext"`
	Files int    `json:"files"`
	Bytes int64  `json:"bytes"`
}

// Summary aggregates a set of deletion records. Files, Bytes and Extensions
// only count successful deletions; Errors counts failed attempts.
type Summary struct {
	Files      int                `json:"files"`
	Bytes      int64              `json:"bytes"`
	Extensions []ExtensionSummary `json:"extensions"`
	Errors     int                `json:"errors"`
}

// Megabytes converts a byte count to binary megabytes.
func Megabytes(bytes int64) float64 {
	return float64(bytes) / bytesPerMegabyte
}
