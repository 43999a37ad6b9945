package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/internal/services"
)

type CaseHandler struct {
	cases  *services.CaseService
	audit  *services.AuditService
	logger *zap.Logger
}

func NewCaseHandler(cases *services.CaseService, audit *services.AuditService, logger *zap.Logger) *CaseHandler {
	return &CaseHandler{
		cases:  cases,
		audit:  audit,
		logger: logger.With(zap.String("handler", "case")),
	}
}

type caseRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	LawyerIDs     []string `json:"lawyerIds"`
	ClientIDs     []string `json:"clientIds"`
	GovernmentIDs []string `json:"governmentIds"`
	DocumentIDs   []string `json:"documentIds"`
	Status        string   `json:"status"`
}

func (h *CaseHandler) Create(c *gin.Context) {
	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		writeError(c, h.logger, apperr.Validation("Case title is required"))
		return
	}

	actor := currentActor(c)
	lawyers, err := parseIDs(req.LawyerIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if lawyers == nil {
		lawyers = []primitive.ObjectID{actor.ID}
	}
	clients, err := parseIDs(req.ClientIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if clients == nil {
		clients = []primitive.ObjectID{}
	}
	government, err := parseIDs(req.GovernmentIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if government == nil {
		government = []primitive.ObjectID{}
	}
	documents, err := parseIDs(req.DocumentIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if documents == nil {
		documents = []primitive.ObjectID{}
	}

	caseFile := &models.Case{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   actor.ID,
		Members: models.MemberLists{
			Lawyers:    lawyers,
			Clients:    clients,
			Government: government,
		},
		Documents: documents,
	}
	if err := h.cases.Create(c.Request.Context(), caseFile); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.audit.Record(services.AuditEntry{
		ActorID:    actor.ID.Hex(),
		ActorRole:  string(actor.Role),
		Action:     "CASE_CREATE",
		EntityType: "CASE",
		EntityID:   caseFile.ID.Hex(),
		Metadata:   map[string]interface{}{"title": caseFile.Title},
	})

	c.JSON(http.StatusCreated, caseFile)
}

func (h *CaseHandler) List(c *gin.Context) {
	cases, err := h.cases.ListForActor(c.Request.Context(), currentActor(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cases)
}

// Assign replaces the member and document lists the request provides and
// optionally moves the case status.
func (h *CaseHandler) Assign(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	caseFile, err := h.cases.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	actor := currentActor(c)
	if !services.CanAccessCase(actor, caseFile) {
		writeError(c, h.logger, apperr.Forbidden("Access denied"))
		return
	}

	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, apperr.Validation("Invalid request body"))
		return
	}
	lawyers, err := parseIDs(req.LawyerIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	clients, err := parseIDs(req.ClientIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	government, err := parseIDs(req.GovernmentIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	documents, err := parseIDs(req.DocumentIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	err = h.cases.UpdateAssignments(c.Request.Context(), caseFile, services.Assignment{
		Lawyers:    lawyers,
		Clients:    clients,
		Government: government,
		Documents:  documents,
		Status:     models.CaseStatus(req.Status),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.audit.Record(services.AuditEntry{
		ActorID:    actor.ID.Hex(),
		ActorRole:  string(actor.Role),
		Action:     "CASE_ASSIGN_UPDATE",
		EntityType: "CASE",
		EntityID:   caseFile.ID.Hex(),
		Metadata:   map[string]interface{}{"status": caseFile.Status},
	})

	c.JSON(http.StatusOK, caseFile)
}
