package portfolio

import (
	"fmt"

	"github.com/gamma-omg/stock-analysis/internal/config"
)

// OpenStore builds the configured store. Stores holding resources also
// implement io.Closer.
func OpenStore(cfg config.StoreReference) (Store, error) {
	switch s := cfg.Store.(type) {
	case config.FileStore:
		return NewFileStore(s.Dir), nil
	case config.SQLiteStore:
		return NewSQLiteStore(s.Path)
	default:
		return nil, fmt.Errorf("unknown portfolio store: %v", cfg.Store)
	}
}
