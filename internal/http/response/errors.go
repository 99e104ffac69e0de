package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/mapping-manager/internal/domain/aggregates"
)

const internalErrorMessage = "internal server error"

// StatusFor maps an aggregate error code to its HTTP status.
func StatusFor(err error) int {
	switch domainagg.CodeOf(err) {
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodeNotFound, domainagg.CodeTargetNotFound:
		return http.StatusNotFound
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondAggregateError writes the envelope for an engine or read path failure. Store
// failures are reported without their cause.
func RespondAggregateError(c *gin.Context, err error) {
	status := StatusFor(err)
	code := string(domainagg.CodeOf(err))
	if code == "" {
		code = string(domainagg.CodeInternal)
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, ErrorEnvelope{Error: APIError{Message: internalErrorMessage, Code: code}})
		return
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: messageOf(err), Code: code}})
}

// messageOf returns the most specific line of the error text; tagged aggregate errors join
// their kind and detail with newlines.
func messageOf(err error) string {
	msg := err.Error()
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) && aggErr.Message != "" {
		msg = aggErr.Message
	}
	if i := strings.LastIndex(msg, "\n"); i >= 0 {
		msg = msg[i+1:]
	}
	return strings.TrimSpace(msg)
}
