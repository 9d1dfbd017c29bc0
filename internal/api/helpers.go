package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

// idFromParam parses an ObjectID path parameter.
func idFromParam(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid id format")
	}
	return id, nil
}

// parseDate accepts ISO-8601 date ("2024-01-01") or full timestamp strings.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// formatDate renders a date-valued field as an ISO-8601 date string.
func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
