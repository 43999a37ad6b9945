package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/config"
	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/internal/services"
	"github.com/attorneycare/server/internal/utils"
)

type DocumentHandler struct {
	docs    *services.DocumentService
	clauses *services.ClauseService
	audit   *services.AuditService
	uploads config.UploadConfig
	logger  *zap.Logger
}

func NewDocumentHandler(
	docs *services.DocumentService,
	clauses *services.ClauseService,
	audit *services.AuditService,
	uploads config.UploadConfig,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		docs:    docs,
		clauses: clauses,
		audit:   audit,
		uploads: uploads,
		logger:  logger.With(zap.String("handler", "document")),
	}
}

// loadAccessible fetches a document and enforces the read predicate.
func (h *DocumentHandler) loadAccessible(c *gin.Context, param string) (*models.Document, error) {
	id, err := pathID(c, param)
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

// Upload receives a multipart contract file. A parentId continues an
// existing lineage; the parent must exist and the new document gets the
// next version in the chain.
func (h *DocumentHandler) Upload(c *gin.Context) {
	actor := currentActor(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, h.logger, apperr.Validation("Document file is required"))
		return
	}
	if fileHeader.Size > h.uploads.MaxBytes {
		writeError(c, h.logger, apperr.Validation("File exceeds the 20 MiB limit"))
		return
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if !utils.AllowedUploadType(mimeType) {
		writeError(c, h.logger, apperr.Validation("Only PDF and DOCX files are allowed"))
		return
	}

	var parentID *primitive.ObjectID
	if raw := c.PostForm("parentId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			writeError(c, h.logger, apperr.Validation("Invalid parentId"))
			return
		}
		parentID = &id
	}

	version, resolvedParent, err := h.docs.ResolveVersion(c.Request.Context(), parentID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	storagePath := filepath.Join(h.uploads.Dir, utils.UploadFilename(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, storagePath); err != nil {
		writeError(c, h.logger, err)
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}

	doc := &models.Document{
		Title:       title,
		Filename:    fileHeader.Filename,
		MimeType:    mimeType,
		StoragePath: storagePath,
		SizeBytes:   fileHeader.Size,
		UploadedBy:  actor.ID,
		Version:     version,
		ParentID:    resolvedParent,
		Access: models.AccessLists{
			Lawyers:    []primitive.ObjectID{actor.ID},
			Clients:    []primitive.ObjectID{},
			Government: []primitive.ObjectID{},
		},
		ReadOnlyForClients:      c.PostForm("readOnlyForClients") != "false",
		ClientCommentingAllowed: c.PostForm("clientCommentingAllowed") == "true",
	}
	if err := h.docs.Create(c.Request.Context(), doc); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.audit.Record(services.AuditEntry{
		ActorID:    actor.ID.Hex(),
		ActorRole:  string(actor.Role),
		Action:     "DOCUMENT_UPLOAD",
		EntityType: "DOCUMENT",
		EntityID:   doc.ID.Hex(),
		Metadata:   map[string]interface{}{"filename": doc.Filename, "version": doc.Version},
	})

	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.docs.ListForActor(c.Request.Context(), currentActor(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.loadAccessible(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) Versions(c *gin.Context) {
	doc, err := h.loadAccessible(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	root, versions, err := h.docs.Versions(c.Request.Context(), doc)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rootId": root.Hex(), "versions": versions})
}

// Compare reports the clause indexes whose text differs between two
// documents the actor can read.
func (h *DocumentHandler) Compare(c *gin.Context) {
	doc, err := h.loadAccessible(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	otherID, err := pathID(c, "otherId")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	other, err := h.docs.Get(c.Request.Context(), otherID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if !services.CanAccessDocument(currentActor(c), other) {
		writeError(c, h.logger, apperr.Forbidden("Access denied"))
		return
	}

	changed, err := h.docs.Compare(c.Request.Context(), doc.ID, other.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"baseId":         doc.ID.Hex(),
		"compareId":      other.ID.Hex(),
		"changedIndexes": changed,
	})
}

func (h *DocumentHandler) Download(c *gin.Context) {
	doc, err := h.loadAccessible(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.FileAttachment(doc.StoragePath, doc.Filename)
}

type accessRequest struct {
	LawyerIDs     []string `json:"lawyerIds"`
	ClientIDs     []string `json:"clientIds"`
	GovernmentIDs []string `json:"governmentIds"`
}

// UpdateAccess replaces the role-scoped access lists the request provides.
func (h *DocumentHandler) UpdateAccess(c *gin.Context) {
	doc, err := h.loadAccessible(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var req accessRequest
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

	if err := h.docs.UpdateAccess(c.Request.Context(), doc, lawyers, clients, government); err != nil {
		writeError(c, h.logger, err)
		return
	}

	actor := currentActor(c)
	h.audit.Record(services.AuditEntry{
		ActorID:    actor.ID.Hex(),
		ActorRole:  string(actor.Role),
		Action:     "DOCUMENT_ACCESS_UPDATE",
		EntityType: "DOCUMENT",
		EntityID:   doc.ID.Hex(),
		Metadata:   map[string]interface{}{"access": doc.Access},
	})

	c.JSON(http.StatusOK, doc)
}

type splitRequest struct {
	Clauses []string `json:"clauses"`
}

// SplitClauses bulk-creates the document's clauses from the given texts.
func (h *DocumentHandler) SplitClauses(c *gin.Context) {
	doc, err := h.loadAccessible(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Clauses) == 0 {
		writeError(c, h.logger, apperr.Validation("Clauses array is required"))
		return
	}

	created, err := h.clauses.Split(c.Request.Context(), doc.ID, req.Clauses)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	actor := currentActor(c)
	h.audit.Record(services.AuditEntry{
		ActorID:    actor.ID.Hex(),
		ActorRole:  string(actor.Role),
		Action:     "CLAUSE_SPLIT",
		EntityType: "DOCUMENT",
		EntityID:   doc.ID.Hex(),
		Metadata:   map[string]interface{}{"clauses": len(created)},
	})

	c.JSON(http.StatusCreated, created)
}
