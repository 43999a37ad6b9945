package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ClauseStatus string

const (
	ClauseAgreed   ClauseStatus = "AGREED"
	ClausePending  ClauseStatus = "PENDING"
	ClauseDisputed ClauseStatus = "DISPUTED"
)

func (s ClauseStatus) Valid() bool {
	switch s {
	case ClauseAgreed, ClausePending, ClauseDisputed:
		return true
	}
	return false
}

// Reviewer is a snapshot of whoever last reviewed the clause, taken at
// update time so later profile edits do not rewrite history.
type Reviewer struct {
	Name         string `bson:"name" json:"name"`
	Designation  string `bson:"designation" json:"designation"`
	Organization string `bson:"organization" json:"organization"`
}

// Clause is one independently trackable segment of a document. Index is
// zero-based and unique per document. Revision increments on every status
// update; callers may send their expected revision to detect lost updates.
type Clause struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID    primitive.ObjectID `bson:"documentId" json:"documentId"`
	Index         int                `bson:"index" json:"index"`
	Text          string             `bson:"text" json:"text"`
	Status        ClauseStatus       `bson:"status" json:"status"`
	DisputeReason string             `bson:"disputeReason" json:"disputeReason"`
	Reviewer      Reviewer           `bson:"reviewer" json:"reviewer"`
	UpdatedBy     primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	Revision      int                `bson:"revision" json:"revision"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
