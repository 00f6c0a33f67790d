package models

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// DateLayout is the calendar date format used for batch grouping.
const DateLayout = "2006-01-02"

// DeletionError marks a failed deletion attempt. On disk it is the literal
// true for an unclassified failure, or the OS error code otherwise.
type DeletionError struct {
	Code int
}

func UnclassifiedError() *DeletionError {
	return &DeletionError{}
}

func ErrorWithCode(code int) *DeletionError {
	return &DeletionError{Code: code}
}

func (e *DeletionError) Unclassified() bool {
	return e.Code == 0
}

func (e *DeletionError) MarshalJSON() ([]byte, error) {
	if e.Unclassified() {
		return []byte("true"), nil
	}
	return strconv.AppendInt(nil, int64(e.Code), 10), nil
}

func (e *DeletionError) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		if !v {
			return fmt.Errorf("deletion error: unexpected literal false")
		}
		e.Code = 0
		return nil
	default:
		code, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("deletion error: %w", err)
		}
		e.Code = code
		return nil
	}
}

// DeletionRecord is one ledger document, written once per attempted file
// deletion. Only Batch changes after the record is stored.
type DeletionRecord struct {
	ID    string         `json:"-"`
	TS    time.Time      `json:"ts"`
	Date  string         `json:"date"`
	File  string         `json:"file"`
	Ext   string         `json:"ext"`
	Size  int64          `json:"size"`
	Batch int            `json:"batch"`
	Error *DeletionError `json:"error,omitempty"`
}

// NewDeletionRecord builds the candidate record for a deletion attempt made at ts.
func NewDeletionRecord(path string, size int64, ts time.Time) DeletionRecord {
	return DeletionRecord{
		TS:    ts,
		Date:  ts.Format(DateLayout),
		File:  path,
		Ext:   Suffix(path),
		Size:  size,
		Batch: 0,
	}
}

func (r *DeletionRecord) Failed() bool {
	return r.Error != nil
}

// Suffix returns the final extension of path including the dot. Names made
// only of a leading dot and a word (".bashrc") and names ending in a dot
// have no suffix.
func Suffix(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == name || ext == "." {
		return ""
	}
	return ext
}
