package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/logging"
)

func errorBody(category, message string) gin.H {
	return gin.H{"error": gin.H{"category": category, "message": message}}
}

// fail writes err with the status of its category. Internal failures are
// logged in full and answered with a generic message.
func fail(c *gin.Context, err error) {
	category := errors.Classify(err)
	if category == errors.CategoryInternal {
		logger := logging.LoggerFromContext(c.Request.Context())
		if se, ok := errors.AsSystemError(err); ok {
			logger.Error("request failed", logging.KeyOperation, se.Op, logging.KeyError, se.Detail())
		} else {
			logger.Error("request failed", logging.KeyError, err)
		}
	}
	c.JSON(category.HTTPStatus(), errorBody(category.String(), errors.PublicMessage(err)))
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// bind decodes the JSON body into v. An empty body leaves v zero; a
// malformed one is a validation error.
func bind(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil {
		fail(c, errors.NewValidationError("body", "invalid JSON payload: "+err.Error()))
		return false
	}
	return true
}

// respond writes data or the error, whichever the call produced.
func respond[T any](c *gin.Context, data T, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, data)
}
