package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/songsvc/songs-service/internal/song"
	"github.com/songsvc/songs-service/internal/song/repository"
	"github.com/songsvc/songs-service/internal/song/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(svc service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterSongRoutes(g, svc)
	return g
}

func do(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func TestSongLifecycle(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	w := do(g, http.MethodPost, "/song", `{"id": 1, "title": "A", "artist": "X"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Song created successfully"}`, w.Body.String())

	w = do(g, http.MethodGet, "/count", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = do(g, http.MethodPut, "/song/1", `{"title": "B"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Song updated successfully"}`, w.Body.String())

	w = do(g, http.MethodGet, "/song/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "B", got["title"])
	assert.Equal(t, "X", got["artist"], "PUT merges instead of replacing")
	assert.EqualValues(t, 1, got["id"])
	oid, ok := got["_id"].(map[string]interface{})
	require.True(t, ok, "_id rendered as extended JSON: %v", got["_id"])
	assert.NotEmpty(t, oid["$oid"])

	w = do(g, http.MethodDelete, "/song/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(g, http.MethodGet, "/song/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"song with id not found"}`, w.Body.String())
}

func TestListMatchesCount(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	w := do(g, http.MethodGet, "/song", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"songs":[]}`, w.Body.String())

	for _, body := range []string{`{"id":1,"title":"a"}`, `{"id":"two","title":"b"}`, `{"id":3}`} {
		require.Equal(t, http.StatusCreated, do(g, http.MethodPost, "/song", body).Code)
	}

	w = do(g, http.MethodGet, "/song", "")
	require.Equal(t, http.StatusOK, w.Code)
	songs, ok := decode(t, w)["songs"].([]interface{})
	require.True(t, ok)

	w = do(g, http.MethodGet, "/count", "")
	assert.EqualValues(t, len(songs), decode(t, w)["count"])
	assert.Len(t, songs, 3)
}

func TestCreateDuplicateReturnsFound(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	require.Equal(t, http.StatusCreated, do(g, http.MethodPost, "/song", `{"id": 5, "title": "A"}`).Code)

	w := do(g, http.MethodPost, "/song", `{"id": 5, "title": "again"}`)
	require.Equal(t, http.StatusFound, w.Code)
	assert.JSONEq(t, `{"message":"Song with id 5 already present"}`, w.Body.String())

	// "5" and 5 name the same song
	w = do(g, http.MethodPost, "/song", `{"id": "5"}`)
	require.Equal(t, http.StatusFound, w.Code)

	w = do(g, http.MethodGet, "/count", "")
	assert.JSONEq(t, `{"count":1}`, w.Body.String())
}

func TestCreateValidation(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	w := do(g, http.MethodPost, "/song", `{"title":"no id"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing 'id' in request data"}`, w.Body.String())

	w = do(g, http.MethodPost, "/song", `{"id": {"nested": true}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid song ID format"}`, w.Body.String())

	for _, body := range []string{`not json`, `[1,2]`, ``} {
		w = do(g, http.MethodPost, "/song", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.JSONEq(t, `{"message":"Invalid request body"}`, w.Body.String())
	}

	w = do(g, http.MethodGet, "/count", "")
	assert.JSONEq(t, `{"count":0}`, w.Body.String(), "store unchanged")
}

func TestGetByStringID(t *testing.T) {
	g := newRouter(service.NewMemoryService())
	require.Equal(t, http.StatusCreated, do(g, http.MethodPost, "/song", `{"id": "abc", "title": "S"}`).Code)

	w := do(g, http.MethodGet, "/song/abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "S", decode(t, w)["title"])
}

func TestUpdateAndDeleteRequireIntegerID(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	for _, path := range []string{"/song/abc", "/song/1.5", "/song/99999999999999999999"} {
		w := do(g, http.MethodPut, path, `{"title":"x"}`)
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.JSONEq(t, `{"message":"Invalid song ID format"}`, w.Body.String())

		w = do(g, http.MethodDelete, path, "")
		require.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	w := do(g, http.MethodPut, "/song/42", `{"title":"x"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"song not found"}`, w.Body.String())

	w = do(g, http.MethodDelete, "/song/42", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"song not found"}`, w.Body.String())

	require.Equal(t, http.StatusCreated, do(g, http.MethodPost, "/song", `{"id": 42}`).Code)
	w = do(g, http.MethodPut, "/song/42", `oops`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCannotDuplicateID(t *testing.T) {
	g := newRouter(service.NewMemoryService())
	require.Equal(t, http.StatusCreated, do(g, http.MethodPost, "/song", `{"id": 1, "title": "A"}`).Code)
	require.Equal(t, http.StatusCreated, do(g, http.MethodPost, "/song", `{"id": 2, "title": "B"}`).Code)

	w := do(g, http.MethodPut, "/song/1", `{"id": 2}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"message":"Song with id 2 already present"}`, w.Body.String())

	w = do(g, http.MethodPut, "/song/1", `{"id": {"x": 1}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid song ID format"}`, w.Body.String())

	w = do(g, http.MethodGet, "/song/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A", decode(t, w)["title"])

	require.Equal(t, http.StatusNoContent, do(g, http.MethodDelete, "/song/2", "").Code)
	require.Equal(t, http.StatusNotFound, do(g, http.MethodGet, "/song/2", "").Code)

	// renaming onto a free id moves the song
	require.Equal(t, http.StatusOK, do(g, http.MethodPut, "/song/1", `{"id": 7}`).Code)
	require.Equal(t, http.StatusNotFound, do(g, http.MethodGet, "/song/1", "").Code)
	w = do(g, http.MethodGet, "/song/7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A", decode(t, w)["title"])
	assert.JSONEq(t, `{"count":1}`, do(g, http.MethodGet, "/count", "").Body.String())
}

// brokenService fails every store round trip.
type brokenService struct{}

var errStore = &repository.StoreError{Op: "test", Err: errors.New("connection refused")}

func (brokenService) Count(context.Context) (int64, error)            { return 0, errStore }
func (brokenService) List(context.Context) ([]song.Song, error)       { return nil, errStore }
func (brokenService) Get(context.Context, song.ID) (song.Song, error) { return nil, errStore }
func (brokenService) Create(context.Context, song.Song) (song.ID, error) {
	return "", errStore
}
func (brokenService) Update(context.Context, song.ID, song.Song) (bool, error) {
	return false, errStore
}
func (brokenService) Delete(context.Context, song.ID) (bool, error) { return false, errStore }
func (brokenService) Ping(context.Context) error                    { return errStore }

func TestStoreFailures(t *testing.T) {
	g := newRouter(brokenService{})

	w := do(g, http.MethodGet, "/song/1", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid song ID format"}`, w.Body.String())

	cases := []struct{ method, path, body string }{
		{http.MethodGet, "/count", ""},
		{http.MethodGet, "/song", ""},
		{http.MethodPost, "/song", `{"id": 1}`},
		{http.MethodPut, "/song/1", `{"title":"x"}`},
		{http.MethodDelete, "/song/1", ""},
	}
	for _, tc := range cases {
		w := do(g, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusInternalServerError, w.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "connection refused")
	}
}
