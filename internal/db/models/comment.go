package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is immutable once created and ordered by creation time.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClauseID   primitive.ObjectID `bson:"clauseId" json:"clauseId"`
	DocumentID primitive.ObjectID `bson:"documentId" json:"documentId"`
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	Text       string             `bson:"text" json:"text"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
