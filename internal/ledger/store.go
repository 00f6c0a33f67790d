package ledger

import "dirpurge/internal/models"

// Predicate selects ledger records.
type Predicate = func(rec *models.DeletionRecord) bool

// Mutation changes a ledger record in place. Stores keep only the batch
// number a mutation produces; every other field is immutable once written.
type Mutation = func(rec *models.DeletionRecord)

// Store is the deletion ledger: an append-only collection of deletion
// records that can be searched and renumbered.
type Store interface {
	// Insert appends rec under a freshly generated identifier and returns it.
	Insert(rec models.DeletionRecord) (string, error)
	// Update applies apply to every record matching match and returns how many matched.
	Update(match Predicate, apply Mutation) (int, error)
	// Search returns copies of all records matching match, oldest first.
	Search(match Predicate) ([]models.DeletionRecord, error)
	Close() error
}

func All() Predicate {
	return func(*models.DeletionRecord) bool { return true }
}

func OnDate(date string) Predicate {
	return func(rec *models.DeletionRecord) bool { return rec.Date == date }
}

func InBatch(batch int) Predicate {
	return func(rec *models.DeletionRecord) bool { return rec.Batch == batch }
}

func And(predicates ...Predicate) Predicate {
	return func(rec *models.DeletionRecord) bool {
		for _, p := range predicates {
			if !p(rec) {
				return false
			}
		}
		return true
	}
}

func IncrementBatch(rec *models.DeletionRecord) {
	rec.Batch++
}

// cloneRecord copies rec so callers cannot alias stored state.
func cloneRecord(rec *models.DeletionRecord) models.DeletionRecord {
	out := *rec
	if rec.Error != nil {
		e := *rec.Error
		out.Error = &e
	}
	return out
}
