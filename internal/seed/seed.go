// Package seed loads songs from a JSON seed file into the store. Seeding is
// idempotent: songs whose id already exists are left untouched.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/songsvc/songs-service/internal/song"
	"github.com/songsvc/songs-service/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// Inserter is the part of the song store seeding needs.
type Inserter interface {
	InsertIfAbsent(ctx context.Context, s song.Song) (bool, error)
}

// Result counts what a seeding run did.
type Result struct {
	Inserted int64
	Skipped  int64
	Invalid  int64
}

// Decode reads a JSON array of song documents. Extended JSON values such as
// {"$oid": ...} are honoured.
func Decode(r io.Reader) ([]song.Song, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	out := make([]song.Song, 0, len(raw))
	for i, msg := range raw {
		var s song.Song
		if err := bson.UnmarshalExtJSON(msg, false, &s); err != nil {
			return nil, fmt.Errorf("decode seed song %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Apply inserts every song that is not yet present, running up to
// concurrency inserts at once. Songs without a usable id are counted as
// invalid and skipped; the first store error aborts the run.
func Apply(ctx context.Context, store Inserter, songs []song.Song, concurrency int) (Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	var res Result
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, s := range songs {
		if _, err := song.IDOf(s); err != nil {
			logger.Warnf("seed: skipping song %d: %v", i, err)
			atomic.AddInt64(&res.Invalid, 1)
			continue
		}
		s := s
		g.Go(func() error {
			inserted, err := store.InsertIfAbsent(ctx, s)
			if err != nil {
				if errors.Is(err, song.ErrInvalidID) || errors.Is(err, song.ErrMissingID) {
					atomic.AddInt64(&res.Invalid, 1)
					return nil
				}
				return err
			}
			if inserted {
				atomic.AddInt64(&res.Inserted, 1)
			} else {
				atomic.AddInt64(&res.Skipped, 1)
			}
			return nil
		})
	}
	err := g.Wait()
	return res, err
}
