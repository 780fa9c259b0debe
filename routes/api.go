package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/product-matcher/app/controllers"
)

// Controllers groups the handlers mounted by SetupAllRoutes.
type Controllers struct {
	Title   *controllers.TitleController
	Match   *controllers.MatchController
	Keyword *controllers.KeywordController
	Admin   *controllers.AdminController
}

// SetupAPIRoutes mounts the v1 API.
func SetupAPIRoutes(router *gin.Engine, ctrl Controllers) {
	v1 := router.Group("/v1")
	{
		titles := v1.Group("/titles")
		{
			titles.POST("/normalize", ctrl.Title.Normalize)
			titles.POST("/terms", ctrl.Title.Terms)
			titles.POST("/dimensions", ctrl.Title.Dimensions)
			titles.POST("/analyze", ctrl.Title.Analyze)
		}

		v1.POST("/match", ctrl.Match.Match)
		v1.POST("/match/batch", ctrl.Match.MatchBatch)

		keywords := v1.Group("/keywords")
		{
			keywords.POST("/categorize", ctrl.Title.Categorize)
			keywords.POST("/jobs", ctrl.Keyword.StartJob)
			keywords.GET("/jobs/:jobID", ctrl.Keyword.GetJob)
			keywords.GET("/:sku", ctrl.Keyword.GetKeywords)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/cache/clear", ctrl.Admin.ClearCache)
			admin.POST("/index/rebuild", ctrl.Admin.RebuildIndex)
			admin.GET("/stats", ctrl.Admin.GetStats)
		}

		v1.GET("/health", ctrl.Admin.HealthCheck)
	}
}

// SetupHealthRoutes mounts the probes used by the orchestrator.
func SetupHealthRoutes(router *gin.Engine, admin *controllers.AdminController) {
	router.GET("/health", admin.HealthCheck)
	router.GET("/ready", admin.HealthCheck)
	router.GET("/live", admin.HealthCheck)
}
