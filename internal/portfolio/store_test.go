package portfolio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "portfolios.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "data")),
		"sqlite": sqlite,
	}
}

func TestStore_saveLoad(t *testing.T) {
	ctx := context.Background()

	for kind, s := range stores(t) {
		t.Run(kind, func(t *testing.T) {
			_, err := s.Load(ctx, "missing")
			assert.ErrorIs(t, err, market.ErrNotFound)

			require.NoError(t, s.Save(ctx, "p1", []byte(`{"v":1}`)))
			require.NoError(t, s.Save(ctx, "p1", []byte(`{"v":2}`)))

			data, err := s.Load(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, `{"v":2}`, string(data))
		})
	}
}

func TestStore_rejectsBadNames(t *testing.T) {
	ctx := context.Background()

	for kind, s := range stores(t) {
		for i, name := range []string{"", "..", "a/b", `a\b`} {
			t.Run(fmt.Sprintf("%s_case_%d", kind, i), func(t *testing.T) {
				err := s.Save(ctx, name, []byte("{}"))
				assert.ErrorIs(t, err, market.ErrInvalidInput)

				_, err = s.Load(ctx, name)
				assert.ErrorIs(t, err, market.ErrInvalidInput)
			})
		}
	}
}

func TestFileStore_layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := NewFileStore(dir)

	require.NoError(t, s.Save(context.Background(), "AAPL_Portfolio", []byte("{}")))

	_, err := os.Stat(filepath.Join(dir, "AAPL_Portfolio_portfolio.json"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenStore(config.StoreReference{Store: config.FileStore{Dir: dir}})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = OpenStore(config.StoreReference{Store: config.SQLiteStore{Path: filepath.Join(dir, "p.db")}})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.(*SQLiteStore).Close())

	_, err = OpenStore(config.StoreReference{})
	require.Error(t, err)
}
