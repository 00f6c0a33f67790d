package services

import (
	"dirpurge/internal/ledger"
)

// UpdateBatchNumbers moves every record of today one batch back so the
// coming run can write batch 0. It must run once per purge session, before
// the first insert.
func UpdateBatchNumbers(store ledger.Store, today string) (int, error) {
	n, err := store.Update(ledger.OnDate(today), ledger.IncrementBatch)
	if err != nil {
		return 0, wrap(err, today, ReasonLedger)
	}
	return n, nil
}
