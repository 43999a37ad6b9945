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

type CaseService struct {
	store   *db.EntityStore
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewCaseService(store *db.EntityStore, logger *zap.Logger, collector *metrics.Collector) *CaseService {
	return &CaseService{
		store:   store,
		logger:  logger.With(zap.String("service", "case")),
		metrics: collector,
	}
}

func (s *CaseService) Create(ctx context.Context, c *models.Case) error {
	now := time.Now()
	c.Title = strings.TrimSpace(c.Title)
	c.Status = models.CaseActive
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := s.store.Cases().InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)

	s.metrics.IncrementCounter("cases.created", nil)
	return nil
}

func (s *CaseService) Get(ctx context.Context, id primitive.ObjectID) (*models.Case, error) {
	var c models.Case
	err := s.store.Cases().FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Case not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CaseService) ListForActor(ctx context.Context, actor Actor) ([]models.Case, error) {
	var filter bson.M
	switch actor.Role {
	case models.RoleLawyer:
		filter = bson.M{"$or": bson.A{
			bson.M{"createdBy": actor.ID},
			bson.M{"members.lawyers": actor.ID},
		}}
	case models.RoleClient:
		filter = bson.M{"members.clients": actor.ID}
	case models.RoleGovernment:
		filter = bson.M{"members.government": actor.ID}
	default:
		return []models.Case{}, nil
	}

	cursor, err := s.store.Cases().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	cases := []models.Case{}
	if err := cursor.All(ctx, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// Assignment carries a partial update to a case: nil slices leave the
// corresponding list untouched, an empty status leaves the status alone.
type Assignment struct {
	Lawyers    []primitive.ObjectID
	Clients    []primitive.ObjectID
	Government []primitive.ObjectID
	Documents  []primitive.ObjectID
	Status     models.CaseStatus
}

func (s *CaseService) UpdateAssignments(ctx context.Context, c *models.Case, a Assignment) error {
	if a.Lawyers != nil {
		c.Members.Lawyers = a.Lawyers
	}
	if a.Clients != nil {
		c.Members.Clients = a.Clients
	}
	if a.Government != nil {
		c.Members.Government = a.Government
	}
	if a.Documents != nil {
		c.Documents = a.Documents
	}
	if a.Status != "" && a.Status.Valid() {
		c.Status = a.Status
	}
	c.UpdatedAt = time.Now()

	_, err := s.store.Cases().UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{
		"$set": bson.M{
			"members":   c.Members,
			"documents": c.Documents,
			"status":    c.Status,
			"updatedAt": c.UpdatedAt,
		},
	})
	return err
}
