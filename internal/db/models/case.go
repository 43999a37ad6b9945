package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CaseStatus string

const (
	CaseActive CaseStatus = "ACTIVE"
	CaseOnHold CaseStatus = "ON_HOLD"
	CaseClosed CaseStatus = "CLOSED"
)

func (s CaseStatus) Valid() bool {
	switch s {
	case CaseActive, CaseOnHold, CaseClosed:
		return true
	}
	return false
}

// MemberLists mirrors AccessLists for case membership.
type MemberLists struct {
	Lawyers    []primitive.ObjectID `bson:"lawyers" json:"lawyers"`
	Clients    []primitive.ObjectID `bson:"clients" json:"clients"`
	Government []primitive.ObjectID `bson:"government" json:"government"`
}

type Case struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Status      CaseStatus           `bson:"status" json:"status"`
	CreatedBy   primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	Members     MemberLists          `bson:"members" json:"members"`
	Documents   []primitive.ObjectID `bson:"documents" json:"documents"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}
