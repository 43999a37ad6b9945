package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtpCode is the single outstanding one-time code for a user. Issuing a new
// code replaces it; a successful verification deletes it.
type OtpCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"userId" json:"-"`
	CodeHash  string             `bson:"codeHash" json:"-"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"-"`
}
