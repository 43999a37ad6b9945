package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/attorneycare/server/internal/db/models"
)

func TestNextVersion(t *testing.T) {
	tests := []struct {
		name        string
		parent      int
		latestChild int
		want        int
	}{
		{"first child of a root", 1, 0, 2},
		{"second child", 1, 2, 3},
		{"child ahead of parent", 2, 5, 6},
		{"parent ahead of children", 4, 2, 5},
		{"zero parent still yields 2", 0, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextVersion(tt.parent, tt.latestChild))
		})
	}
}

func TestRootID(t *testing.T) {
	root := primitive.NewObjectID()
	child := primitive.NewObjectID()

	assert.Equal(t, root, RootID(&models.Document{ID: root}))
	assert.Equal(t, root, RootID(&models.Document{ID: child, ParentID: &root}))
}

func clausesFrom(texts ...string) []models.Clause {
	out := make([]models.Clause, len(texts))
	for i, text := range texts {
		out[i] = models.Clause{Index: i, Text: text}
	}
	return out
}

func TestDiffClauses(t *testing.T) {
	t.Run("identical sequences diff empty", func(t *testing.T) {
		a := clausesFrom("Term of lease", "Rent", "Deposit")
		assert.Empty(t, DiffClauses(a, a))
	})

	t.Run("change only at index 2", func(t *testing.T) {
		v1 := clausesFrom("Parties", "Term", "Rent is 1000", "Deposit")
		v3 := clausesFrom("Parties", "Term", "Rent is 1500", "Deposit")
		assert.Equal(t, []int{2}, DiffClauses(v1, v3))
	})

	t.Run("single middle change", func(t *testing.T) {
		a := clausesFrom("Term of lease", "Rent is 1000", "Deposit")
		b := clausesFrom("Term of lease", "Rent is 1200", "Deposit")
		assert.Equal(t, []int{1}, DiffClauses(a, b))
	})

	t.Run("whitespace-only change is not a diff", func(t *testing.T) {
		a := clausesFrom("Rent is 1000")
		b := clausesFrom("  Rent is 1000\n")
		assert.Empty(t, DiffClauses(a, b))
	})

	t.Run("extra trailing clauses count as changed", func(t *testing.T) {
		a := clausesFrom("Term")
		b := clausesFrom("Term", "Penalty", "Arbitration")
		assert.Equal(t, []int{1, 2}, DiffClauses(a, b))
	})

	t.Run("symmetric over argument order", func(t *testing.T) {
		a := clausesFrom("Term", "Rent is 1000")
		b := clausesFrom("Term", "Rent is 1200", "Penalty")
		assert.Equal(t, DiffClauses(a, b), DiffClauses(b, a))
	})

	t.Run("both empty", func(t *testing.T) {
		assert.Empty(t, DiffClauses(nil, nil))
	})
}
