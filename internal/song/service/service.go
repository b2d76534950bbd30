package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/songsvc/songs-service/internal/song"
	"github.com/songsvc/songs-service/internal/song/repository"
	"github.com/songsvc/songs-service/pkg/logger"
	"github.com/songsvc/songs-service/pkg/metrics"
)

// ConflictError reports a create, or an update that renames a song, for an
// id that is already taken.
type ConflictError struct {
	ID song.ID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("song with id %s already present", e.ID)
}

// IsConflict reports whether err is a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// Service defines the song operations used by the handler layer.
// Get returns (nil, nil) when the song does not exist; Update and Delete
// report existence through their boolean result.
type Service interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]song.Song, error)
	Get(ctx context.Context, id song.ID) (song.Song, error)
	Create(ctx context.Context, s song.Song) (song.ID, error)
	Update(ctx context.Context, id song.ID, partial song.Song) (bool, error)
	Delete(ctx context.Context, id song.ID) (bool, error)
	Ping(ctx context.Context) error
}

// New returns a Service backed by the given store.
func New(store repository.Store) Service {
	return &songService{store: store}
}

// NewMemoryService returns a Service backed by a fresh in-memory store.
func NewMemoryService() Service {
	return New(repository.NewMemoryStore())
}

type songService struct {
	store repository.Store
}

func record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.SongOperations.WithLabelValues(op, outcome).Inc()
}

func (s *songService) Count(ctx context.Context) (int64, error) {
	n, err := s.store.Count(ctx)
	record("count", err)
	return n, err
}

func (s *songService) List(ctx context.Context) ([]song.Song, error) {
	list, err := s.store.FindAll(ctx)
	record("list", err)
	return list, err
}

func (s *songService) Get(ctx context.Context, id song.ID) (song.Song, error) {
	doc, err := s.store.FindByID(ctx, id)
	record("get", err)
	return doc, err
}

// Create inserts doc after checking that its id is free. The store's own
// uniqueness constraint backs the check when two creates race.
func (s *songService) Create(ctx context.Context, doc song.Song) (song.ID, error) {
	id, err := song.IDOf(doc)
	if err != nil {
		metrics.SongOperations.WithLabelValues("create", "invalid").Inc()
		return "", err
	}
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		record("create", err)
		return "", err
	}
	if existing != nil {
		metrics.SongOperations.WithLabelValues("create", "conflict").Inc()
		return id, &ConflictError{ID: id}
	}
	if _, err := s.store.Insert(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			metrics.SongOperations.WithLabelValues("create", "conflict").Inc()
			return id, &ConflictError{ID: id}
		}
		record("create", err)
		return "", err
	}
	record("create", nil)
	logger.Debugf("song %s created", id)
	return id, nil
}

// Update merges partial into the song. A partial carrying a different id
// renames the song; renaming onto a taken id is a *ConflictError.
func (s *songService) Update(ctx context.Context, id song.ID, partial song.Song) (bool, error) {
	ok, err := s.store.UpdateByID(ctx, id, partial)
	switch {
	case errors.Is(err, song.ErrInvalidID):
		metrics.SongOperations.WithLabelValues("update", "invalid").Inc()
		return false, err
	case errors.Is(err, repository.ErrDuplicateID):
		metrics.SongOperations.WithLabelValues("update", "conflict").Inc()
		next, _ := song.IDOf(partial)
		return false, &ConflictError{ID: next}
	}
	record("update", err)
	return ok, err
}

func (s *songService) Delete(ctx context.Context, id song.ID) (bool, error) {
	ok, err := s.store.DeleteByID(ctx, id)
	record("delete", err)
	return ok, err
}

func (s *songService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
