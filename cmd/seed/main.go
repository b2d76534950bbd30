// Command seed loads the song seed file into the configured store. Songs
// already present are left alone, so it is safe to run on every deploy.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/songsvc/songs-service/internal/config"
	"github.com/songsvc/songs-service/internal/seed"
	"github.com/songsvc/songs-service/internal/server"
	"github.com/songsvc/songs-service/internal/storage"
	"github.com/songsvc/songs-service/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.SetFormat(cfg.Log.Format)

	file := flag.String("file", cfg.Seed.File, "local seed file (JSON array of songs)")
	minioKey := flag.String("minio-key", "", "read the seed file from this MinIO object instead of -file")
	publish := flag.Bool("publish", false, "upload -file to MinIO under -minio-key before seeding")
	concurrency := flag.Int("concurrency", 8, "parallel inserts")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	opts := options{file: *file, minioKey: *minioKey, publish: *publish, concurrency: *concurrency}
	res, err := run(ctx, cfg, opts)
	stop()
	if err != nil {
		logger.Errorf("seed failed: %v", err)
		os.Exit(1)
	}
	logger.Infof("seed: %d inserted, %d already present, %d invalid", res.Inserted, res.Skipped, res.Invalid)
}

type options struct {
	file        string
	minioKey    string
	publish     bool
	concurrency int
}

func run(ctx context.Context, cfg *config.Config, opts options) (seed.Result, error) {
	file, minioKey := opts.file, opts.minioKey
	var objects *storage.MinIOStorage
	if minioKey != "" || opts.publish {
		var err error
		if objects, err = storage.NewMinIOStorage(ctx, cfg.Seed.MinIO); err != nil {
			return seed.Result{}, err
		}
		if minioKey == "" {
			minioKey = filepath.Base(file)
		}
	}

	if opts.publish {
		if err := upload(ctx, objects, file, minioKey); err != nil {
			return seed.Result{}, err
		}
		logger.Infof("published %s to %s/%s", file, cfg.Seed.MinIO.Bucket, minioKey)
	}

	var src io.ReadCloser
	var err error
	if objects != nil {
		src, err = objects.Open(ctx, minioKey)
	} else {
		src, err = os.Open(file)
	}
	if err != nil {
		return seed.Result{}, err
	}
	songs, err := seed.Decode(src)
	src.Close()
	if err != nil {
		return seed.Result{}, err
	}

	store, closeStore, err := server.OpenStore(ctx, cfg)
	if err != nil {
		return seed.Result{}, err
	}
	defer closeStore()

	return seed.Apply(ctx, store, songs, opts.concurrency)
}

func upload(ctx context.Context, objects *storage.MinIOStorage, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}
	return objects.Upload(ctx, key, f, st.Size(), "application/json")
}
