package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/api/middleware"
	"github.com/attorneycare/server/internal/services"
)

// writeError maps an error onto the taxonomy's HTTP status. Errors outside
// the taxonomy are logged and answered with a generic 500 body.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": apperr.MessageOf(err)})
}

func currentActor(c *gin.Context) services.Actor {
	actor, _ := middleware.CurrentActor(c)
	return actor
}

func pathID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid id")
	}
	return id, nil
}

// parseIDs converts a request's list of hex ids. nil input stays nil so
// partial updates can distinguish "not provided" from "empty".
func parseIDs(raw []string) ([]primitive.ObjectID, error) {
	if raw == nil {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, apperr.Validation("Invalid id in list")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
