package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loginsight/internal/dataset"
)

func TestRunProducesLoadableLogs(t *testing.T) {
	for _, compress := range []string{"none", "gzip", "zstd"} {
		t.Run(compress, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "logs")
			require.NoError(t, run(300, path, 42, compress))

			store := dataset.New(dataset.Options{Logger: zerolog.Nop()})
			snap := store.LoadFile(context.Background(), path)
			assert.False(t, snap.Fallback)
			assert.Equal(t, 300, snap.Table.Len())
		})
	}
}

func TestRunReproducible(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")
	require.NoError(t, run(50, a, 7, "none"))
	require.NoError(t, run(50, b, 7, "none"))

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestRunRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, run(0, filepath.Join(dir, "x.csv"), 1, "none"))
	assert.Error(t, run(10, filepath.Join(dir, "y.csv"), 1, "brotli"))
}
