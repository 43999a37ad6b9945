package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/services"
)

type LibraryHandler struct {
	library *services.LibraryService
	auth    *services.AuthService
	logger  *zap.Logger
}

func NewLibraryHandler(library *services.LibraryService, auth *services.AuthService, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{
		library: library,
		auth:    auth,
		logger:  logger.With(zap.String("handler", "library")),
	}
}

func (h *LibraryHandler) Search(c *gin.Context) {
	articles, err := h.library.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *LibraryHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	article, err := h.library.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// setBookmark toggles the article on the actor's bookmark list. The article
// must exist; the update is idempotent either direction.
func (h *LibraryHandler) setBookmark(c *gin.Context, on bool) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	article, err := h.library.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	actor := currentActor(c)
	if err := h.auth.ToggleBookmark(c.Request.Context(), actor.ID, article.ID, on); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articleId": article.ID.Hex(), "bookmarked": on})
}

func (h *LibraryHandler) AddBookmark(c *gin.Context)    { h.setBookmark(c, true) }
func (h *LibraryHandler) RemoveBookmark(c *gin.Context) { h.setBookmark(c, false) }
