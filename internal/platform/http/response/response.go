// Package response writes error responses in the API's {"detail": ...} shape.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suggestion_box/internal/shared/apperr"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Error maps err to its status code and writes {"detail": ...}.
// Internal errors are written with fallback so no internals reach the client.
// Authentication failures advertise bearer auth.
func Error(c *gin.Context, err error, fallback string) {
	status := apperr.StatusOf(err)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.JSON(status, ErrorBody{Detail: apperr.DetailOf(err, fallback)})
}

// BadRequest writes a 400 with detail.
func BadRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Detail: detail})
}
