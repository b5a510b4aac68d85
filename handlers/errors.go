package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"pet-harness-store/models"
)

// respondBindError answers 422 for bodies that are malformed or fail
// validation.
func respondBindError(c *gin.Context, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: "Request body failed validation",
			Fields:  verr.Fields,
		})
		return
	}

	c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Error:   "INVALID_INPUT",
		Message: "Invalid request body",
		Details: err.Error(),
	})
}

func respondStorageError(c *gin.Context, err error) {
	log.WithError(err).WithField("path", c.FullPath()).Error("Store operation failed")
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "STORAGE_ERROR",
		Message: "Store operation failed",
		Details: err.Error(),
	})
}
