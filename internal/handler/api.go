package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/muaazl/cine-match/internal/model"
	"github.com/muaazl/cine-match/internal/service"
	"github.com/muaazl/cine-match/internal/utils"
)

// SearchRequest 搜索请求，query 必须出现但允许为空串
type SearchRequest struct {
	Query      *string `json:"query" binding:"required"`
	FilterType string  `json:"filter_type" binding:"omitempty,filtertype"`
}

// MoodRequest 心情请求，mood 可以放在 query string 或 JSON body
type MoodRequest struct {
	Mood string `json:"mood" form:"mood" binding:"max=100"`
}

// QuizRequest 问卷条目请求
type QuizRequest struct {
	Genre string `json:"genre" binding:"required"`
}

// HybridRequest 混合推荐请求
type HybridRequest struct {
	Mood           string   `json:"mood" binding:"required"`
	SelectedTitles []string `json:"selected_titles"`
	Genre          string   `json:"genre" binding:"required"`
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	res := gin.H{"status": "ok"}
	if h.Config != nil {
		res["backend"] = h.Config.VectorBackend
	}
	if h.Legacy != nil {
		res["legacy_build"] = h.Legacy.BuildID()
	}
	c.JSON(http.StatusOK, res)
}

// Search 语义搜索
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if req.FilterType == "" {
		req.FilterType = service.FilterAll
	}

	results, err := h.Recommend.Search(c.Request.Context(), *req.Query, req.FilterType)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Results(c, results)
}

// Mood 按心情搜索
func (h *Handler) Mood(c *gin.Context) {
	var req MoodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if req.Mood == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
	}
	if req.Mood == "" {
		utils.BadRequest(c, "mood is required")
		return
	}

	results, err := h.Recommend.Mood(c.Request.Context(), req.Mood)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Results(c, results)
}

// QuizItems 问卷条目（结果短时缓存）
func (h *Handler) QuizItems(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	cacheKey := "quiz:" + req.Genre
	if h.Cache != nil {
		if cached, ok := h.Cache.Get(cacheKey); ok {
			if items, ok := cached.([]model.QuizItem); ok {
				utils.Items(c, items)
				return
			}
		}
	}

	items, err := h.Recommend.QuizItems(c.Request.Context(), req.Genre)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.Cache != nil {
		h.Cache.Set(cacheKey, items)
	}
	utils.Items(c, items)
}

// HybridRecommend 心情 + 类型 + 已选作品的混合推荐
func (h *Handler) HybridRecommend(c *gin.Context) {
	var req HybridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	recs, err := h.Recommend.Hybrid(c.Request.Context(), req.Mood, req.Genre, req.SelectedTitles)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Results(c, recs)
}

// Lucky 随机推荐一部
func (h *Handler) Lucky(c *gin.Context) {
	pick, err := h.Recommend.Lucky(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pick)
}
