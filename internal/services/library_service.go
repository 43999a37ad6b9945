package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/db"
	"github.com/attorneycare/server/internal/db/models"
)

//go:embed library_seed.json
var librarySeed []byte

type LibraryService struct {
	store  *db.EntityStore
	logger *zap.Logger
}

func NewLibraryService(store *db.EntityStore, logger *zap.Logger) *LibraryService {
	return &LibraryService{
		store:  store,
		logger: logger.With(zap.String("service", "library")),
	}
}

// SeedIfEmpty loads the embedded reference articles when the collection
// holds nothing, so a fresh deployment starts with a usable library.
func (s *LibraryService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.store.Articles().CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("Library already seeded, skipping")
		return nil
	}

	var articles []models.LibraryArticle
	if err := json.Unmarshal(librarySeed, &articles); err != nil {
		return err
	}
	now := time.Now()
	rows := make([]interface{}, len(articles))
	for i := range articles {
		articles[i].CreatedAt = now
		rows[i] = articles[i]
	}
	if _, err := s.store.Articles().InsertMany(ctx, rows); err != nil {
		return err
	}

	s.logger.Info("Seeded library articles", zap.Int("count", len(articles)))
	return nil
}

// Search lists articles by article number, filtered by a case-insensitive
// match over the searchable fields when q is set.
func (s *LibraryService) Search(ctx context.Context, q string) ([]models.LibraryArticle, error) {
	filter := bson.M{}
	if q != "" {
		pattern := primitive.Regex{Pattern: q, Options: "i"}
		filter = bson.M{"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
			bson.M{"articleNumber": pattern},
			bson.M{"section": pattern},
		}}
	}

	cursor, err := s.store.Articles().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "articleNumber", Value: 1}}))
	if err != nil {
		return nil, err
	}
	articles := []models.LibraryArticle{}
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *LibraryService) Get(ctx context.Context, id primitive.ObjectID) (*models.LibraryArticle, error) {
	var article models.LibraryArticle
	err := s.store.Articles().FindOne(ctx, bson.M{"_id": id}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Article not found")
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}
