package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LibraryArticle is read-mostly legal reference material, seeded once when
// the collection is empty.
type LibraryArticle struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	ArticleNumber string             `bson:"articleNumber" json:"articleNumber"`
	Section       string             `bson:"section" json:"section"`
	Content       string             `bson:"content" json:"content"`
	Tags          []string           `bson:"tags" json:"tags"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
