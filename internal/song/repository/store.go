package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/songsvc/songs-service/internal/song"
)

var (
	// ErrDuplicateID is returned by Insert, and by UpdateByID when the partial
	// renames a song to an id that is already taken.
	ErrDuplicateID = errors.New("duplicate song id")
)

// StoreError wraps any failure of the underlying document store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("song store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// Store is the document store adapter used by the service layer.
// FindByID returns (nil, nil) when no song matches.
type Store interface {
	Count(ctx context.Context) (int64, error)
	FindAll(ctx context.Context) ([]song.Song, error)
	FindByID(ctx context.Context, id song.ID) (song.Song, error)
	Insert(ctx context.Context, s song.Song) (song.Song, error)
	UpdateByID(ctx context.Context, id song.ID, partial song.Song) (bool, error)
	DeleteByID(ctx context.Context, id song.ID) (bool, error)
	// InsertIfAbsent inserts s unless a song with the same id exists.
	InsertIfAbsent(ctx context.Context, s song.Song) (bool, error)
	Ping(ctx context.Context) error
}

// mergeFields drops keys a partial update must never touch.
func mergeFields(partial song.Song) song.Song {
	out := make(song.Song, len(partial))
	for k, v := range partial {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}

// renamedID reports the id a partial update assigns when it differs from id.
// A partial whose id is not a valid song id yields song.ErrInvalidID.
func renamedID(id song.ID, partial song.Song) (song.ID, bool, error) {
	v, ok := partial[song.IDField]
	if !ok {
		return "", false, nil
	}
	next, err := song.IDFromValue(v)
	if err != nil {
		return "", false, err
	}
	return next, next != id, nil
}
