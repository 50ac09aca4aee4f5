package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/showsense/internal/handler"
	"github.com/user/showsense/internal/middleware"
	"github.com/user/showsense/internal/utils"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler, db middleware.DBHealth) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 只读目录 API ====================
	api := r.Group("/api")
	api.Use(middleware.DBCheck(db))
	{
		shows := api.Group("/shows")
		{
			// compare 和 title 必须注册在 :id 之前
			shows.GET("/compare", h.CompareShows)
			shows.GET("/title/:title", h.GetShowByTitle)
			shows.GET("", h.ListShows)
			shows.GET("/:id", h.GetShow)
		}

		api.GET("/themes", h.Themes)
		api.GET("/suggestions", h.Suggestions)
		api.GET("/homepage-data", h.HomepageData)
		api.GET("/show-list", h.ShowList)
	}

	// API 范围内的未知路径统一回 JSON 404
	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "API endpoint not found: "+c.Request.Method+" "+c.Request.URL.Path)
	})
}
