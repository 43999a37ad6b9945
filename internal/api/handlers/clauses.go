package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/internal/services"
)

type ClauseHandler struct {
	clauses *services.ClauseService
	docs    *services.DocumentService
	audit   *services.AuditService
	logger  *zap.Logger
}

func NewClauseHandler(clauses *services.ClauseService, docs *services.DocumentService, audit *services.AuditService, logger *zap.Logger) *ClauseHandler {
	return &ClauseHandler{
		clauses: clauses,
		docs:    docs,
		audit:   audit,
		logger:  logger.With(zap.String("handler", "clause")),
	}
}

// loadClause fetches a clause and its document, enforcing the read
// predicate on the document.
func (h *ClauseHandler) loadClause(c *gin.Context) (*models.Clause, *models.Document, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return nil, nil, err
	}
	clause, err := h.clauses.Get(c.Request.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := h.docs.Get(c.Request.Context(), clause.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	if !services.CanAccessDocument(currentActor(c), doc) {
		return nil, nil, apperr.Forbidden("Access denied")
	}
	return clause, doc, nil
}

func (h *ClauseHandler) ListForDocument(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	doc, err := h.docs.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if !services.CanAccessDocument(currentActor(c), doc) {
		writeError(c, h.logger, apperr.Forbidden("Access denied"))
		return
	}

	clauses, err := h.clauses.ListForDocument(c.Request.Context(), doc.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, clauses)
}

type statusRequest struct {
	Status           string           `json:"status"`
	DisputeReason    string           `json:"disputeReason"`
	Reviewer         *models.Reviewer `json:"reviewer"`
	ExpectedRevision *int             `json:"expectedRevision"`
}

// UpdateStatus moves a clause between AGREED, PENDING and DISPUTED. An
// expectedRevision in the body turns on the optimistic-concurrency guard.
func (h *ClauseHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, apperr.Validation("Invalid request body"))
		return
	}
	status := models.ClauseStatus(req.Status)
	if !status.Valid() {
		writeError(c, h.logger, apperr.Validation("Invalid status"))
		return
	}

	clause, _, err := h.loadClause(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	actor := currentActor(c)
	reviewer := models.Reviewer{Name: actor.Name}
	if req.Reviewer != nil {
		if req.Reviewer.Name != "" {
			reviewer.Name = req.Reviewer.Name
		}
		reviewer.Designation = req.Reviewer.Designation
		reviewer.Organization = req.Reviewer.Organization
	}

	updated, err := h.clauses.UpdateStatus(c.Request.Context(), clause, services.StatusUpdate{
		Status:           status,
		DisputeReason:    req.DisputeReason,
		Reviewer:         reviewer,
		UpdatedBy:        actor.ID,
		ExpectedRevision: req.ExpectedRevision,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.audit.Record(services.AuditEntry{
		ActorID:    actor.ID.Hex(),
		ActorRole:  string(actor.Role),
		Action:     "CLAUSE_STATUS_CHANGE",
		EntityType: "CLAUSE",
		EntityID:   updated.ID.Hex(),
		Metadata:   map[string]interface{}{"status": updated.Status},
	})

	c.JSON(http.StatusOK, updated)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *ClauseHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		writeError(c, h.logger, apperr.Validation("Comment text is required"))
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	clause, err := h.clauses.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	doc, err := h.docs.Get(c.Request.Context(), clause.DocumentID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	actor := currentActor(c)
	if !services.CanCommentOnDocument(actor, doc) {
		writeError(c, h.logger, apperr.Forbidden("Commenting not allowed"))
		return
	}

	comment, err := h.clauses.AddComment(c.Request.Context(), clause, actor.ID, req.Text)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.audit.Record(services.AuditEntry{
		ActorID:    actor.ID.Hex(),
		ActorRole:  string(actor.Role),
		Action:     "COMMENT_ADD",
		EntityType: "CLAUSE",
		EntityID:   clause.ID.Hex(),
		Metadata:   map[string]interface{}{"documentId": doc.ID.Hex()},
	})

	c.JSON(http.StatusCreated, comment)
}

func (h *ClauseHandler) ListComments(c *gin.Context) {
	clause, _, err := h.loadClause(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	comments, err := h.clauses.ListComments(c.Request.Context(), clause.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
