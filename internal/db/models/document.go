package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessLists holds the per-role sets of user ids allowed to see a document.
type AccessLists struct {
	Lawyers    []primitive.ObjectID `bson:"lawyers" json:"lawyers"`
	Clients    []primitive.ObjectID `bson:"clients" json:"clients"`
	Government []primitive.ObjectID `bson:"government" json:"government"`
}

// Document is one uploaded contract file. Versions of the same contract are
// chained through ParentID: the first upload has ParentID nil and Version 1,
// every later upload points at the root and carries a strictly higher version.
type Document struct {
	ID                      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title                   string              `bson:"title" json:"title"`
	Filename                string              `bson:"filename" json:"filename"`
	MimeType                string              `bson:"mimeType" json:"mimeType"`
	StoragePath             string              `bson:"storagePath" json:"-"`
	SizeBytes               int64               `bson:"sizeBytes" json:"sizeBytes"`
	UploadedBy              primitive.ObjectID  `bson:"uploadedBy" json:"uploadedBy"`
	Version                 int                 `bson:"version" json:"version"`
	ParentID                *primitive.ObjectID `bson:"parentId" json:"parentId"`
	Access                  AccessLists         `bson:"access" json:"access"`
	ReadOnlyForClients      bool                `bson:"readOnlyForClients" json:"readOnlyForClients"`
	ClientCommentingAllowed bool                `bson:"clientCommentingAllowed" json:"clientCommentingAllowed"`
	CreatedAt               time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time           `bson:"updatedAt" json:"updatedAt"`
}
