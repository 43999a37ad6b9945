package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/db"
	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/pkg/metrics"
)

type ClauseService struct {
	store   *db.EntityStore
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewClauseService(store *db.EntityStore, logger *zap.Logger, collector *metrics.Collector) *ClauseService {
	return &ClauseService{
		store:   store,
		logger:  logger.With(zap.String("service", "clause")),
		metrics: collector,
	}
}

// mapSplitError converts a duplicate-key failure on the per-document clause
// index into the conflict a repeated split reports.
func mapSplitError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict("Document clauses already exist")
	}
	return err
}

// Split bulk-creates the document's clauses from the given texts, indexed
// in order, all starting PENDING at revision 1. A document can only be
// split once; the unique documentId+index index rejects a second attempt.
func (s *ClauseService) Split(ctx context.Context, docID primitive.ObjectID, texts []string) ([]models.Clause, error) {
	now := time.Now()
	clauses := make([]models.Clause, len(texts))
	rows := make([]interface{}, len(texts))
	for i, text := range texts {
		clauses[i] = models.Clause{
			DocumentID: docID,
			Index:      i,
			Text:       strings.TrimSpace(text),
			Status:     models.ClausePending,
			Revision:   1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		rows[i] = clauses[i]
	}

	res, err := s.store.Clauses().InsertMany(ctx, rows)
	if err != nil {
		return nil, mapSplitError(err)
	}
	for i, id := range res.InsertedIDs {
		clauses[i].ID = id.(primitive.ObjectID)
	}

	s.metrics.IncrementCounter("clauses.split", nil)
	return clauses, nil
}

func (s *ClauseService) Get(ctx context.Context, id primitive.ObjectID) (*models.Clause, error) {
	var clause models.Clause
	err := s.store.Clauses().FindOne(ctx, bson.M{"_id": id}).Decode(&clause)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Clause not found")
	}
	if err != nil {
		return nil, err
	}
	return &clause, nil
}

func (s *ClauseService) ListForDocument(ctx context.Context, docID primitive.ObjectID) ([]models.Clause, error) {
	cursor, err := s.store.Clauses().Find(ctx, bson.M{"documentId": docID},
		options.Find().SetSort(bson.D{{Key: "index", Value: 1}}))
	if err != nil {
		return nil, err
	}
	clauses := []models.Clause{}
	if err := cursor.All(ctx, &clauses); err != nil {
		return nil, err
	}
	return clauses, nil
}

// noMatchError classifies an update that matched nothing: under a revision
// guard a still-existing clause means the guard failed (stale revision),
// anything else means the clause is gone.
func noMatchError(guarded, exists bool) error {
	if guarded && exists {
		return apperr.Conflict("Clause was modified by another update")
	}
	return apperr.NotFound("Clause not found")
}

// StatusUpdate carries one clause status change.
type StatusUpdate struct {
	Status           models.ClauseStatus
	DisputeReason    string
	Reviewer         models.Reviewer
	UpdatedBy        primitive.ObjectID
	ExpectedRevision *int
}

// UpdateStatus applies the change and bumps the clause revision. When the
// caller supplies ExpectedRevision the write is guarded: a concurrent
// update that already moved the revision makes this one fail with Conflict
// instead of silently clobbering it. Without it the write is
// last-write-wins.
func (s *ClauseService) UpdateStatus(ctx context.Context, clause *models.Clause, update StatusUpdate) (*models.Clause, error) {
	filter := bson.M{"_id": clause.ID}
	if update.ExpectedRevision != nil {
		filter["revision"] = *update.ExpectedRevision
	}

	now := time.Now()
	res := s.store.Clauses().FindOneAndUpdate(ctx, filter, bson.M{
		"$set": bson.M{
			"status":        update.Status,
			"disputeReason": update.DisputeReason,
			"reviewer":      update.Reviewer,
			"updatedBy":     update.UpdatedBy,
			"updatedAt":     now,
		},
		"$inc": bson.M{"revision": 1},
	}, options.FindOneAndUpdate().SetReturnDocument(options.After))

	var updated models.Clause
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			guarded := update.ExpectedRevision != nil
			exists := false
			if guarded {
				// The filter carries the revision, so a miss is ambiguous:
				// re-check whether the clause is still there.
				if _, getErr := s.Get(ctx, clause.ID); getErr == nil {
					exists = true
				}
			}
			return nil, noMatchError(guarded, exists)
		}
		return nil, err
	}

	s.metrics.IncrementCounter("clauses.status_changes", map[string]string{"status": string(update.Status)})
	return &updated, nil
}

func (s *ClauseService) AddComment(ctx context.Context, clause *models.Clause, authorID primitive.ObjectID, text string) (*models.Comment, error) {
	comment := &models.Comment{
		ClauseID:   clause.ID,
		DocumentID: clause.DocumentID,
		AuthorID:   authorID,
		Text:       strings.TrimSpace(text),
		CreatedAt:  time.Now(),
	}
	res, err := s.store.Comments().InsertOne(ctx, comment)
	if err != nil {
		return nil, err
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)

	s.metrics.IncrementCounter("clauses.comments", nil)
	return comment, nil
}

func (s *ClauseService) ListComments(ctx context.Context, clauseID primitive.ObjectID) ([]models.Comment, error) {
	cursor, err := s.store.Comments().Find(ctx, bson.M{"clauseId": clauseID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
