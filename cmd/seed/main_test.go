package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/songsvc/songs-service/internal/config"
	"github.com/songsvc/songs-service/internal/seed"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{Store: config.StoreConfig{Backend: config.BackendMemory}}
}

func writeSeedFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "songs.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunSeedsFromLocalFile(t *testing.T) {
	file := writeSeedFile(t, `[
  {"id": 1, "title": "a"},
  {"id": "1", "title": "same song"},
  {"id": 2, "title": "b"},
  {"title": "no id"},
  {"id": {"x": 1}}
]`)

	res, err := run(context.Background(), memoryConfig(), options{file: file, concurrency: 3})
	require.NoError(t, err)
	require.Equal(t, seed.Result{Inserted: 2, Skipped: 1, Invalid: 2}, res)
}

func TestRunBundledSeedFile(t *testing.T) {
	res, err := run(context.Background(), memoryConfig(), options{file: "../../data/songs.json", concurrency: 2})
	require.NoError(t, err)
	require.EqualValues(t, 5, res.Inserted)
	require.Zero(t, res.Skipped)
	require.Zero(t, res.Invalid)
}

func TestRunFailures(t *testing.T) {
	ctx := context.Background()

	_, err := run(ctx, memoryConfig(), options{file: filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)

	_, err = run(ctx, memoryConfig(), options{file: writeSeedFile(t, `{"id": 1}`)})
	require.Error(t, err, "seed file must be an array")

	// MinIO source and publishing both need an endpoint
	file := writeSeedFile(t, `[]`)
	_, err = run(ctx, memoryConfig(), options{file: file, minioKey: "songs.json"})
	require.ErrorContains(t, err, "MINIO_ENDPOINT")
	_, err = run(ctx, memoryConfig(), options{file: file, publish: true})
	require.ErrorContains(t, err, "MINIO_ENDPOINT")
}
