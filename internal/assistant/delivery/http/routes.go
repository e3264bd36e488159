package http

import (
	"github.com/gin-gonic/gin"

	"personal-assistant/internal/middleware"
)

// RegisterRoutes maps the chat endpoints under rg.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	chat := rg.Group("/chat")
	{
		chat.POST("/messages", mw.RateLimit(), h.SendMessage)
	}
}
