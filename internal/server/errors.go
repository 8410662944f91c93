package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	cdrdomain "github.com/smallbiznis/roamagg/internal/cdr/domain"
	subscriberdomain "github.com/smallbiznis/roamagg/internal/subscriber/domain"
	"gorm.io/gorm"
)

// ValidationError reports a single bad request parameter.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every parameter problem found on a request so
// callers get all of them at once instead of one per round trip.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return strings.Join(parts, "; ")
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// AbortWithError records err on the gin context and stops the handler chain.
// The response body is rendered by ErrorHandlingMiddleware.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandlingMiddleware renders the first recorded error into the shared
// error envelope after the handler runs.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		status, payload := mapError(c.Errors[0].Err)
		c.JSON(status, errorResponse{Error: payload})
	}
}

func mapError(err error) (int, errorPayload) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "invalid request parameters",
			Errors:  verrs,
		}
	}

	switch {
	case errors.Is(err, subscriberdomain.ErrNoSuchSubscriber),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, cdrdomain.ErrInvalidDateRange):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_date_range",
			Message: err.Error(),
		}
	case errors.Is(err, cdrdomain.ErrInsufficientSubscribers):
		return http.StatusConflict, errorPayload{
			Type:    "insufficient_subscribers",
			Message: err.Error(),
		}
	case errors.Is(err, cdrdomain.ErrReportWrite):
		return http.StatusInternalServerError, errorPayload{
			Type:    "report_write_failed",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog gives the request logger stable labels for the last
// recorded error without leaking wrapped detail into log cardinality.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return "validation_error", "bad_request"
	}

	switch {
	case errors.Is(err, subscriberdomain.ErrNoSuchSubscriber):
		return "not_found", subscriberdomain.ErrNoSuchSubscriber.Error()
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "not_found", "record_not_found"
	case errors.Is(err, cdrdomain.ErrInvalidDateRange):
		return "invalid_date_range", cdrdomain.ErrInvalidDateRange.Error()
	case errors.Is(err, cdrdomain.ErrInsufficientSubscribers):
		return "insufficient_subscribers", cdrdomain.ErrInsufficientSubscribers.Error()
	case errors.Is(err, cdrdomain.ErrReportWrite):
		return "report_write_failed", cdrdomain.ErrReportWrite.Error()
	default:
		return "internal_error", "internal"
	}
}
