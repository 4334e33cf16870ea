// Package httpkit holds the gin helpers shared by every handler: the JSON
// envelope, domain error mapping and the common middleware.
package httpkit

import (
	"errors"
	"net/http"

	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const msgInternalError = "internal error"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Error writes an error body; the request id is added when the RequestID
// middleware ran.
func Error(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorResponse{Error: message, Details: details, RequestID: requestID(c)})
}

// HandleError writes the response for err and reports whether there was one.
// An *apperr.Error anywhere in the chain picks the status from its Kind;
// anything else is a 500 with the cause kept in c.Errors, not in the body.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:     domainErr.Message,
			Kind:      domainErr.Kind.String(),
			Details:   domainErr.Details,
			RequestID: requestID(c),
		})
		return true
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternalError, RequestID: requestID(c)})
	return true
}

func requestID(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}
	id, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
	return id
}
