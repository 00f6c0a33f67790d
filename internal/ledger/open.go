package ledger

import (
	"fmt"

	"dirpurge/internal/ledger/interfaces"
	"dirpurge/internal/providers"
	"dirpurge/internal/structures"
)

// NewStore opens the ledger driver selected by ledger.driver.
func NewStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (Store, error) {
	switch conf.Ledger.Driver {
	case "", "json":
		return NewFileStore(conf.Ledger.Path, compressor, logger)
	case "sqlite":
		// sqlite manages its own pages; the compressor is not used
		compressor.Close()
		return NewSqliteStore(conf.Ledger.Path, logger)
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", conf.Ledger.Driver)
	}
}
