package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/attorneycare/server/internal/db/models"
)

func TestCanAccessDocument(t *testing.T) {
	lawyer := primitive.NewObjectID()
	client := primitive.NewObjectID()
	gov := primitive.NewObjectID()
	uploader := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	doc := &models.Document{
		UploadedBy: uploader,
		Access: models.AccessLists{
			Lawyers:    []primitive.ObjectID{lawyer},
			Clients:    []primitive.ObjectID{client},
			Government: []primitive.ObjectID{gov},
		},
	}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"lawyer in access list", Actor{ID: lawyer, Role: models.RoleLawyer}, true},
		{"uploading lawyer not in list", Actor{ID: uploader, Role: models.RoleLawyer}, true},
		{"lawyer outside list", Actor{ID: stranger, Role: models.RoleLawyer}, false},
		{"client in access list", Actor{ID: client, Role: models.RoleClient}, true},
		{"client outside list", Actor{ID: stranger, Role: models.RoleClient}, false},
		{"client id in lawyer list only", Actor{ID: lawyer, Role: models.RoleClient}, false},
		{"government in access list", Actor{ID: gov, Role: models.RoleGovernment}, true},
		{"government outside list", Actor{ID: stranger, Role: models.RoleGovernment}, false},
		{"unknown role", Actor{ID: lawyer, Role: models.Role("admin")}, false},
		{"zero actor id", Actor{Role: models.RoleLawyer}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessDocument(tt.actor, doc))
		})
	}

	assert.False(t, CanAccessDocument(Actor{ID: lawyer, Role: models.RoleLawyer}, nil))
}

func TestCanCommentOnDocument(t *testing.T) {
	lawyer := primitive.NewObjectID()
	client := primitive.NewObjectID()
	gov := primitive.NewObjectID()

	open := &models.Document{
		UploadedBy: lawyer,
		Access: models.AccessLists{
			Lawyers:    []primitive.ObjectID{lawyer},
			Clients:    []primitive.ObjectID{client},
			Government: []primitive.ObjectID{gov},
		},
		ClientCommentingAllowed: true,
	}
	closed := &models.Document{
		UploadedBy: lawyer,
		Access:     open.Access,
	}

	assert.True(t, CanCommentOnDocument(Actor{ID: lawyer, Role: models.RoleLawyer}, open))
	assert.True(t, CanCommentOnDocument(Actor{ID: lawyer, Role: models.RoleLawyer}, closed))
	assert.True(t, CanCommentOnDocument(Actor{ID: client, Role: models.RoleClient}, open))
	assert.False(t, CanCommentOnDocument(Actor{ID: client, Role: models.RoleClient}, closed))
	// government never comments, even with read access and the flag on
	assert.False(t, CanCommentOnDocument(Actor{ID: gov, Role: models.RoleGovernment}, open))
}

func TestCanAccessCase(t *testing.T) {
	creator := primitive.NewObjectID()
	lawyer := primitive.NewObjectID()
	client := primitive.NewObjectID()
	gov := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	caseFile := &models.Case{
		CreatedBy: creator,
		Members: models.MemberLists{
			Lawyers:    []primitive.ObjectID{lawyer},
			Clients:    []primitive.ObjectID{client},
			Government: []primitive.ObjectID{gov},
		},
	}

	assert.True(t, CanAccessCase(Actor{ID: creator, Role: models.RoleLawyer}, caseFile))
	assert.True(t, CanAccessCase(Actor{ID: lawyer, Role: models.RoleLawyer}, caseFile))
	assert.True(t, CanAccessCase(Actor{ID: client, Role: models.RoleClient}, caseFile))
	assert.True(t, CanAccessCase(Actor{ID: gov, Role: models.RoleGovernment}, caseFile))
	assert.False(t, CanAccessCase(Actor{ID: stranger, Role: models.RoleLawyer}, caseFile))
	// creator identity only counts for lawyers
	assert.False(t, CanAccessCase(Actor{ID: creator, Role: models.RoleClient}, caseFile))
	assert.False(t, CanAccessCase(Actor{ID: lawyer, Role: models.RoleLawyer}, nil))
}
