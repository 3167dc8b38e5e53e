package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API under /api/v1. categories may be nil when
// the hierarchy is served from a remote store.
func RegisterRoutes(router *gin.Engine, categories *CategoryHandler, hier *HierarchyHandler) {
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	if categories != nil {
		cat := v1.Group("/categories")
		cat.POST("", categories.CreateCategory)
		cat.GET("", categories.ListCategories)
		cat.GET("/tree", categories.GetTree)
		cat.GET("/:id", categories.GetCategoryByID)
		cat.GET("/:id/ancestors", categories.GetAncestors)
		cat.GET("/:id/history", categories.GetHistory)
		cat.PUT("/:id", categories.UpdateCategory)
		cat.DELETE("/:id", categories.DeleteCategory)
	}

	h := v1.Group("/hierarchy")
	h.GET("", hier.GetHierarchy)
	h.POST("/validate", hier.ValidateParent)
	h.PUT("/:id/parent", hier.SetParent)
	h.GET("/:id/ancestors", hier.GetAncestors)
}
