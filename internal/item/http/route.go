package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identity gin.HandlerFunc) {
	group := g.Group("/items")
	group.Use(identity)
	{
		group.POST("", h.Create)
		group.GET("", h.ListOwn)
		group.GET("/search", h.Search)
		group.GET("/:itemId", h.Get)
		group.PATCH("/:itemId", h.Update)
		group.POST("/:itemId/comment", h.AddComment)
	}
}
