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

type DocumentService struct {
	store   *db.EntityStore
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewDocumentService(store *db.EntityStore, logger *zap.Logger, collector *metrics.Collector) *DocumentService {
	return &DocumentService{
		store:   store,
		logger:  logger.With(zap.String("service", "document")),
		metrics: collector,
	}
}

// NextVersion computes the version a new upload in an existing lineage
// gets: one past whichever of the parent and its latest child is ahead.
// latestChildVersion is 0 when the parent has no children yet.
func NextVersion(parentVersion, latestChildVersion int) int {
	v := parentVersion
	if latestChildVersion > v {
		v = latestChildVersion
	}
	if v < 1 {
		v = 1
	}
	return v + 1
}

// RootID resolves the lineage root: the document's parent if it has one,
// otherwise the document itself.
func RootID(d *models.Document) primitive.ObjectID {
	if d.ParentID != nil {
		return *d.ParentID
	}
	return d.ID
}

// DiffClauses returns the indexes where the trimmed clause text differs
// between the two sequences, a missing clause counting as empty text. Both
// inputs must already be ordered by ascending index. The compare is
// positional, so reordering clauses produces spurious diffs.
func DiffClauses(base, compare []models.Clause) []int {
	n := len(base)
	if len(compare) > n {
		n = len(compare)
	}
	changed := []int{}
	for i := 0; i < n; i++ {
		var baseText, compareText string
		if i < len(base) {
			baseText = strings.TrimSpace(base[i].Text)
		}
		if i < len(compare) {
			compareText = strings.TrimSpace(compare[i].Text)
		}
		if baseText != compareText {
			changed = append(changed, i)
		}
	}
	return changed
}

func (s *DocumentService) Get(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var doc models.Document
	err := s.store.Documents().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Document not found")
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListForActor returns the documents visible to the actor, newest first.
// Lawyers see what they uploaded plus what they were granted; other roles
// see only their access list.
func (s *DocumentService) ListForActor(ctx context.Context, actor Actor) ([]models.Document, error) {
	var filter bson.M
	switch actor.Role {
	case models.RoleLawyer:
		filter = bson.M{"$or": bson.A{
			bson.M{"uploadedBy": actor.ID},
			bson.M{"access.lawyers": actor.ID},
		}}
	case models.RoleClient:
		filter = bson.M{"access.clients": actor.ID}
	case models.RoleGovernment:
		filter = bson.M{"access.government": actor.ID}
	default:
		return []models.Document{}, nil
	}

	cursor, err := s.store.Documents().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	docs := []models.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ResolveVersion decides the version for a new upload. Without a parent a
// new lineage starts at 1. With one, the parent must exist and the version
// is one past the lineage's current maximum.
func (s *DocumentService) ResolveVersion(ctx context.Context, parentID *primitive.ObjectID) (int, *primitive.ObjectID, error) {
	if parentID == nil {
		return 1, nil, nil
	}

	parent, err := s.Get(ctx, *parentID)
	if err != nil {
		if apperr.StatusOf(err) == 404 {
			return 0, nil, apperr.NotFound("Parent document not found")
		}
		return 0, nil, err
	}

	latestChild := 0
	var child models.Document
	err = s.store.Documents().FindOne(ctx, bson.M{"parentId": parentID},
		options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})).Decode(&child)
	if err == nil {
		latestChild = child.Version
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil, err
	}

	return NextVersion(parent.Version, latestChild), parentID, nil
}

func (s *DocumentService) Create(ctx context.Context, doc *models.Document) error {
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	res, err := s.store.Documents().InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	s.metrics.IncrementCounter("documents.uploaded", nil)
	s.metrics.ObserveSize("documents.upload_bytes", float64(doc.SizeBytes))
	return nil
}

// Versions returns the lineage root plus every document pointing at it,
// ordered by version ascending.
func (s *DocumentService) Versions(ctx context.Context, doc *models.Document) (primitive.ObjectID, []models.Document, error) {
	root := RootID(doc)
	cursor, err := s.store.Documents().Find(ctx, bson.M{"$or": bson.A{
		bson.M{"_id": root},
		bson.M{"parentId": root},
	}}, options.Find().SetSort(bson.D{{Key: "version", Value: 1}}))
	if err != nil {
		return root, nil, err
	}
	versions := []models.Document{}
	if err := cursor.All(ctx, &versions); err != nil {
		return root, nil, err
	}
	return root, versions, nil
}

// Compare diffs the clause text of two documents by index. Both documents
// must already have passed access checks.
func (s *DocumentService) Compare(ctx context.Context, baseID, otherID primitive.ObjectID) ([]int, error) {
	start := time.Now()

	base, err := s.clausesByIndex(ctx, baseID)
	if err != nil {
		return nil, err
	}
	other, err := s.clausesByIndex(ctx, otherID)
	if err != nil {
		return nil, err
	}

	changed := DiffClauses(base, other)
	s.metrics.ObserveLatency("documents.compare", time.Since(start))
	return changed, nil
}

func (s *DocumentService) clausesByIndex(ctx context.Context, docID primitive.ObjectID) ([]models.Clause, error) {
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

// UpdateAccess replaces the document's role-scoped access lists. A nil
// slice leaves the corresponding list untouched.
func (s *DocumentService) UpdateAccess(ctx context.Context, doc *models.Document, lawyers, clients, government []primitive.ObjectID) error {
	if lawyers != nil {
		doc.Access.Lawyers = lawyers
	}
	if clients != nil {
		doc.Access.Clients = clients
	}
	if government != nil {
		doc.Access.Government = government
	}
	doc.UpdatedAt = time.Now()

	_, err := s.store.Documents().UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{
		"$set": bson.M{"access": doc.Access, "updatedAt": doc.UpdatedAt},
	})
	return err
}
