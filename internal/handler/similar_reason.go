package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/muaazl/cine-match/internal/service"
	"github.com/muaazl/cine-match/internal/utils"
)

// LegacySimilar 基于本地相似度矩阵的相似作品（带推荐理由）
func (h *Handler) LegacySimilar(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		utils.BadRequest(c, "title is required")
		return
	}
	n, _ := strconv.Atoi(c.DefaultQuery("n", strconv.Itoa(service.DefaultSimilarCount)))

	source, similar, err := h.Legacy.Similar(title, n)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source":  source,
		"results": similar,
	})
}

// LegacyGenres 本地问卷索引中的类型
func (h *Handler) LegacyGenres(c *gin.Context) {
	genres, err := h.Legacy.Genres()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// LegacyQuiz 本地问卷索引中某类型的条目
func (h *Handler) LegacyQuiz(c *gin.Context) {
	items, err := h.Legacy.Quiz(c.Param("genre"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Items(c, items)
}
