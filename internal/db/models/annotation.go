package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Annotation pins a clause to a rectangle on a document page. Coordinates
// are normalized to the page, each component in [0,1].
type Annotation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID primitive.ObjectID `bson:"documentId" json:"documentId"`
	ClauseID   primitive.ObjectID `bson:"clauseId" json:"clauseId"`
	Page       int                `bson:"page" json:"page"`
	X          float64            `bson:"x" json:"x"`
	Y          float64            `bson:"y" json:"y"`
	Width      float64            `bson:"width" json:"width"`
	Height     float64            `bson:"height" json:"height"`
	CreatedBy  primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
