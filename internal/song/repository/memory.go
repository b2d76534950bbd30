package repository

import (
	"context"
	"sync"

	"github.com/songsvc/songs-service/internal/song"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory Store used by unit tests and the "memory"
// backend. Songs keep insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	songs []song.Song
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.songs)), nil
}

func (m *MemoryStore) FindAll(ctx context.Context) ([]song.Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]song.Song, 0, len(m.songs))
	for _, s := range m.songs {
		out = append(out, copySong(s))
	}
	return out, nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id song.ID) (song.Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return copySong(m.songs[i]), nil
	}
	return nil, nil
}

func (m *MemoryStore) Insert(ctx context.Context, s song.Song) (song.Song, error) {
	id, err := song.IDOf(s)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(id) >= 0 {
		return nil, ErrDuplicateID
	}
	return m.insertLocked(s), nil
}

func (m *MemoryStore) InsertIfAbsent(ctx context.Context, s song.Song) (bool, error) {
	id, err := song.IDOf(s)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(id) >= 0 {
		return false, nil
	}
	m.insertLocked(s)
	return true, nil
}

func (m *MemoryStore) UpdateByID(ctx context.Context, id song.ID, partial song.Song) (bool, error) {
	next, renamed, err := renamedID(id, partial)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if renamed && m.indexOf(next) >= 0 {
		return false, ErrDuplicateID
	}
	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}
	for k, v := range mergeFields(partial) {
		m.songs[i][k] = v
	}
	return true, nil
}

func (m *MemoryStore) DeleteByID(ctx context.Context, id song.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}
	m.songs = append(m.songs[:i], m.songs[i+1:]...)
	return true, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) insertLocked(s song.Song) song.Song {
	doc := copySong(s)
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	m.songs = append(m.songs, doc)
	return copySong(doc)
}

// indexOf must be called with mu held.
func (m *MemoryStore) indexOf(id song.ID) int {
	for i, s := range m.songs {
		if v, ok := s[song.IDField]; ok && id.Matches(v) {
			return i
		}
	}
	return -1
}

func copySong(s song.Song) song.Song {
	out := make(song.Song, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
