package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/attorneycare/server/internal/db/models"
)

// Actor is the authenticated principal extracted from a session token.
type Actor struct {
	ID    primitive.ObjectID
	Role  models.Role
	Name  string
	Email string
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Per-role dispatch tables. A role missing from a table has no grant of the
// corresponding capability, so lookups fail closed.

var documentReadChecks = map[models.Role]func(Actor, *models.Document) bool{
	models.RoleLawyer: func(a Actor, d *models.Document) bool {
		return containsID(d.Access.Lawyers, a.ID) || d.UploadedBy == a.ID
	},
	models.RoleClient: func(a Actor, d *models.Document) bool {
		return containsID(d.Access.Clients, a.ID)
	},
	models.RoleGovernment: func(a Actor, d *models.Document) bool {
		return containsID(d.Access.Government, a.ID)
	},
}

var documentCommentChecks = map[models.Role]func(Actor, *models.Document) bool{
	models.RoleLawyer: func(a Actor, d *models.Document) bool {
		return CanAccessDocument(a, d)
	},
	models.RoleClient: func(a Actor, d *models.Document) bool {
		return d.ClientCommentingAllowed && CanAccessDocument(a, d)
	},
	// government never comments
}

var caseAccessChecks = map[models.Role]func(Actor, *models.Case) bool{
	models.RoleLawyer: func(a Actor, c *models.Case) bool {
		return c.CreatedBy == a.ID || containsID(c.Members.Lawyers, a.ID)
	},
	models.RoleClient: func(a Actor, c *models.Case) bool {
		return containsID(c.Members.Clients, a.ID)
	},
	models.RoleGovernment: func(a Actor, c *models.Case) bool {
		return containsID(c.Members.Government, a.ID)
	},
}

// CanAccessDocument reports whether the actor may read the document: their
// id appears in the access list matching their role, or they are the
// uploading lawyer.
func CanAccessDocument(a Actor, d *models.Document) bool {
	if d == nil || a.ID.IsZero() {
		return false
	}
	check, ok := documentReadChecks[a.Role]
	return ok && check(a, d)
}

// CanCommentOnDocument reports whether the actor may comment: lawyers
// inherit read access, clients additionally need the document's commenting
// flag, government never comments.
func CanCommentOnDocument(a Actor, d *models.Document) bool {
	if d == nil || a.ID.IsZero() {
		return false
	}
	check, ok := documentCommentChecks[a.Role]
	return ok && check(a, d)
}

// CanAccessCase reports whether the actor may see the case: membership in
// the list matching their role, or creator identity for lawyers.
func CanAccessCase(a Actor, c *models.Case) bool {
	if c == nil || a.ID.IsZero() {
		return false
	}
	check, ok := caseAccessChecks[a.Role]
	return ok && check(a, c)
}
