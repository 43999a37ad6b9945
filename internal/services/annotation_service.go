package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/db"
	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/pkg/metrics"
)

type AnnotationService struct {
	store   *db.EntityStore
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewAnnotationService(store *db.EntityStore, logger *zap.Logger, collector *metrics.Collector) *AnnotationService {
	return &AnnotationService{
		store:   store,
		logger:  logger.With(zap.String("service", "annotation")),
		metrics: collector,
	}
}

func normalized(v float64) bool { return v >= 0 && v <= 1 }

// Create stores the annotation after checking the rectangle is normalized
// to the page.
func (s *AnnotationService) Create(ctx context.Context, a *models.Annotation) error {
	if a.Page < 0 {
		return apperr.Validation("Annotation page must not be negative")
	}
	if !normalized(a.X) || !normalized(a.Y) || !normalized(a.Width) || !normalized(a.Height) {
		return apperr.Validation("Annotation coordinates must be normalized to [0,1]")
	}

	a.CreatedAt = time.Now()
	res, err := s.store.Annotations().InsertOne(ctx, a)
	if err != nil {
		return err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)

	s.metrics.IncrementCounter("annotations.created", nil)
	return nil
}

func (s *AnnotationService) ListForDocument(ctx context.Context, docID primitive.ObjectID) ([]models.Annotation, error) {
	cursor, err := s.store.Annotations().Find(ctx, bson.M{"documentId": docID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	annotations := []models.Annotation{}
	if err := cursor.All(ctx, &annotations); err != nil {
		return nil, err
	}
	return annotations, nil
}
