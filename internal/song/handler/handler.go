package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/songsvc/songs-service/internal/song"
	"github.com/songsvc/songs-service/internal/song/service"
	"github.com/songsvc/songs-service/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	msgInvalidID     = "Invalid song ID format"
	msgMissingID     = "Missing 'id' in request data"
	msgInvalidBody   = "Invalid request body"
	msgIDNotFound    = "song with id not found"
	msgNotFound      = "song not found"
	msgCreated       = "Song created successfully"
	msgUpdated       = "Song updated successfully"
	msgInternalError = "Internal server error"
)

type songHandler struct {
	svc service.Service
}

// RegisterSongRoutes registers the count and /song CRUD endpoints.
func RegisterSongRoutes(r gin.IRouter, svc service.Service) {
	h := &songHandler{svc: svc}
	r.GET("/count", h.count)
	r.GET("/song", h.list)
	r.GET("/song/:id", h.get)
	r.POST("/song", h.create)
	r.PUT("/song/:id", h.update)
	r.DELETE("/song/:id", h.delete)
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func internalError(c *gin.Context, op string, err error) {
	logger.Errorf("%s: %v", op, err)
	message(c, http.StatusInternalServerError, msgInternalError)
}

// writeDocument renders v as relaxed Extended JSON so store types such as
// ObjectID come out as {"$oid": "..."}.
func writeDocument(c *gin.Context, status int, v interface{}) {
	b, err := bson.MarshalExtJSON(v, false, false)
	if err != nil {
		internalError(c, "encode response", err)
		return
	}
	c.Data(status, "application/json; charset=utf-8", b)
}

// readDocument parses the request body as a JSON object.
func readDocument(c *gin.Context) (song.Song, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	var doc song.Song
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (h *songHandler) count(c *gin.Context) {
	n, err := h.svc.Count(c.Request.Context())
	if err != nil {
		internalError(c, "count songs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *songHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		internalError(c, "list songs", err)
		return
	}
	if list == nil {
		list = []song.Song{}
	}
	writeDocument(c, http.StatusOK, bson.M{"songs": list})
}

func (h *songHandler) get(c *gin.Context) {
	id, err := song.ParseID(c.Param("id"))
	if err != nil {
		message(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	doc, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		logger.Warnf("lookup song %q: %v", id, err)
		message(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	if doc == nil {
		message(c, http.StatusNotFound, msgIDNotFound)
		return
	}
	writeDocument(c, http.StatusOK, doc)
}

func (h *songHandler) create(c *gin.Context) {
	doc, err := readDocument(c)
	if err != nil {
		message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	id, err := h.svc.Create(c.Request.Context(), doc)
	switch {
	case err == nil:
		message(c, http.StatusCreated, msgCreated)
	case errors.Is(err, song.ErrMissingID):
		message(c, http.StatusBadRequest, msgMissingID)
	case errors.Is(err, song.ErrInvalidID):
		message(c, http.StatusBadRequest, msgInvalidID)
	case service.IsConflict(err):
		// duplicates are reported with 302 Found, not 409
		message(c, http.StatusFound, "Song with id "+id.String()+" already present")
	default:
		internalError(c, "create song", err)
	}
}

func (h *songHandler) update(c *gin.Context) {
	id, err := song.ParseIntID(c.Param("id"))
	if err != nil {
		message(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	partial, err := readDocument(c)
	if err != nil {
		message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	found, err := h.svc.Update(c.Request.Context(), id, partial)
	var ce *service.ConflictError
	switch {
	case err == nil:
	case errors.Is(err, song.ErrInvalidID):
		message(c, http.StatusBadRequest, msgInvalidID)
		return
	case errors.As(err, &ce):
		// unlike create, a rename clash uses 409
		message(c, http.StatusConflict, "Song with id "+ce.ID.String()+" already present")
		return
	default:
		internalError(c, "update song", err)
		return
	}
	if !found {
		message(c, http.StatusNotFound, msgNotFound)
		return
	}
	message(c, http.StatusOK, msgUpdated)
}

func (h *songHandler) delete(c *gin.Context) {
	id, err := song.ParseIntID(c.Param("id"))
	if err != nil {
		message(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	found, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		internalError(c, "delete song", err)
		return
	}
	if !found {
		message(c, http.StatusNotFound, msgNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
