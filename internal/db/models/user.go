package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"passwordHash" json:"-"`
	Role         Role                 `bson:"role" json:"role"`
	Phone        string               `bson:"phone" json:"phone"`
	Organization string               `bson:"organization" json:"organization"`
	Designation  string               `bson:"designation" json:"designation"`
	OtpEnabled   bool                 `bson:"otpEnabled" json:"otpEnabled"`
	Bookmarks    []primitive.ObjectID `bson:"bookmarks" json:"bookmarks"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}
