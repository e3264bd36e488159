package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"personal-assistant/internal/assistant"
	"personal-assistant/pkg/response"
)

var errTextRequired = errors.New("text is required")

// renderError translates use-case errors into HTTP responses.
func (h *handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assistant.ErrUserNotFound):
		response.NotFound(c, err)
	case errors.Is(err, assistant.ErrEmptyText):
		response.Error(c, err, nil)
	default:
		response.InternalError(c, err)
	}
}
