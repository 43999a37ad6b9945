package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/internal/services"
)

type AnnotationHandler struct {
	annotations *services.AnnotationService
	docs        *services.DocumentService
	audit       *services.AuditService
	logger      *zap.Logger
}

func NewAnnotationHandler(annotations *services.AnnotationService, docs *services.DocumentService, audit *services.AuditService, logger *zap.Logger) *AnnotationHandler {
	return &AnnotationHandler{
		annotations: annotations,
		docs:        docs,
		audit:       audit,
		logger:      logger.With(zap.String("handler", "annotation")),
	}
}

func (h *AnnotationHandler) loadAccessible(c *gin.Context) (*models.Document, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return nil, err
	}
	doc, err := h.docs.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if !services.CanAccessDocument(currentActor(c), doc) {
		return nil, apperr.Forbidden("Access denied")
	}
	return doc, nil
}

func (h *AnnotationHandler) ListForDocument(c *gin.Context) {
	doc, err := h.loadAccessible(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	annotations, err := h.annotations.ListForDocument(c.Request.Context(), doc.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, annotations)
}

type annotationRequest struct {
	ClauseID string   `json:"clauseId"`
	Page     *int     `json:"page"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
}

func (h *AnnotationHandler) Create(c *gin.Context) {
	doc, err := h.loadAccessible(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var req annotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, apperr.Validation("Invalid request body"))
		return
	}
	if req.ClauseID == "" || req.Page == nil || req.X == nil || req.Y == nil || req.Width == nil || req.Height == nil {
		writeError(c, h.logger, apperr.Validation("Annotation fields are required"))
		return
	}
	clauseID, err := parseIDs([]string{req.ClauseID})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	actor := currentActor(c)
	annotation := &models.Annotation{
		DocumentID: doc.ID,
		ClauseID:   clauseID[0],
		Page:       *req.Page,
		X:          *req.X,
		Y:          *req.Y,
		Width:      *req.Width,
		Height:     *req.Height,
		CreatedBy:  actor.ID,
	}
	if err := h.annotations.Create(c.Request.Context(), annotation); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.audit.Record(services.AuditEntry{
		ActorID:    actor.ID.Hex(),
		ActorRole:  string(actor.Role),
		Action:     "CLAUSE_ANNOTATION_ADD",
		EntityType: "DOCUMENT",
		EntityID:   doc.ID.Hex(),
		Metadata:   map[string]interface{}{"clauseId": annotation.ClauseID.Hex(), "page": annotation.Page},
	})

	c.JSON(http.StatusCreated, annotation)
}
