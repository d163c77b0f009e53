package handler

import (
	"database/sql"
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/terrisol/watergap-backend-go/internal/interp"
	"github.com/terrisol/watergap-backend-go/internal/models"
	"github.com/terrisol/watergap-backend-go/pkg/response"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Failures
// are deterministic for a given input, so nothing here suggests a retry.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interp.ErrEmptyDataset), errors.Is(err, sql.ErrNoRows):
		response.NotFound(c, err.Error())
	case errors.Is(err, interp.ErrInvalidGeometry),
		errors.Is(err, models.ErrUnknownMetric),
		errors.Is(err, models.ErrUnknownSeason):
		response.BadRequest(c, err.Error())
	default:
		log.Printf("[handler] %s: %v", c.FullPath(), err)
		response.InternalError(c, "internal error")
	}
}
