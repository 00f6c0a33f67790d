package ledger

import (
	"testing"

	"dirpurge/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	rec := &models.DeletionRecord{Date: "2026-10-17", Batch: 1}

	assert.True(t, All()(rec))
	assert.True(t, OnDate("2026-10-17")(rec))
	assert.False(t, OnDate("2026-10-16")(rec))
	assert.True(t, InBatch(1)(rec))
	assert.False(t, InBatch(0)(rec))
	assert.True(t, And(OnDate("2026-10-17"), InBatch(1))(rec))
	assert.False(t, And(OnDate("2026-10-17"), InBatch(0))(rec))
	assert.True(t, And()(rec))
}

func TestIncrementBatch(t *testing.T) {
	rec := &models.DeletionRecord{Batch: 2}
	IncrementBatch(rec)
	assert.Equal(t, 3, rec.Batch)
}

func TestCloneRecord_CopiesError(t *testing.T) {
	rec := &models.DeletionRecord{Error: models.ErrorWithCode(13)}
	out := cloneRecord(rec)
	out.Error.Code = 1
	assert.Equal(t, 13, rec.Error.Code)
}
