package router

import (
	"github.com/gin-gonic/gin"
	"github.com/muaazl/cine-match/internal/handler"
	"github.com/muaazl/cine-match/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler, limiter *middleware.RateLimiter, adminSecret string) {
	// 健康检查
	r.GET("/health", h.Health)

	// ==================== 推荐接口 ====================
	api := r.Group("/")
	api.Use(middleware.RateLimit(limiter))
	{
		api.POST("/search", h.Search)
		api.POST("/mood", h.Mood)
		api.POST("/get-quiz-items", h.QuizItems)
		api.POST("/hybrid-recommend", h.HybridRecommend)
		api.GET("/lucky", h.Lucky)
	}

	// ==================== 本地相似度（只读） ====================
	legacy := r.Group("/legacy")
	legacy.Use(middleware.RateLimit(limiter))
	{
		legacy.GET("/genres", h.LegacyGenres)
		legacy.GET("/quiz/:genre", h.LegacyQuiz)
		legacy.GET("/similar", h.LegacySimilar)
	}

	// ==================== 管理接口 ====================
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin(adminSecret))
	{
		admin.POST("/artifacts/reload", h.AdminReloadArtifacts)
		admin.POST("/cache/flush", h.AdminFlushCache)
		admin.GET("/ingest-runs", h.AdminIngestRuns)
	}
}
