package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response represents a standardized JSON API response for the operator
// endpoints. The webhook surface uses the plain-text writers below.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents an error response
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Success sends a successful JSON response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// NotFound sends a 404 JSON response
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{
		Success: false,
		Error:   &Error{Code: ErrCodeNotFound, Message: message},
	})
}

// BadRequest sends a 400 JSON response
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   &Error{Code: ErrCodeBadRequest, Message: message},
	})
}

// Unauthorized sends a 401 JSON response
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{
		Success: false,
		Error:   &Error{Code: ErrCodeUnauthorized, Message: message},
	})
}

// InternalError sends a 500 JSON response
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error:   &Error{Code: ErrCodeInternalError, Message: message},
	})
}

// PlainSuccess writes the webhook's 200 text/plain summary
func PlainSuccess(c *gin.Context, body string) {
	c.String(http.StatusOK, "%s", body)
}

// PlainFailure writes the webhook's 500 text/plain diagnostic
func PlainFailure(c *gin.Context, body string) {
	c.String(http.StatusInternalServerError, "%s", body)
}

// PlainNotFound writes a bare text/plain 404, used when a webhook token
// does not match so the path does not leak which tokens exist
func PlainNotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "not found")
}
