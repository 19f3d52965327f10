package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/muaazl/cine-match/internal/artifact"
	"github.com/muaazl/cine-match/internal/utils"
)

// ==================== 管理接口 ====================

// AdminReloadArtifacts 立即加载最新的本地构建并清空响应缓存
func (h *Handler) AdminReloadArtifacts(c *gin.Context) {
	id, err := h.Legacy.Reload()
	if errors.Is(err, artifact.ErrNoBuild) {
		utils.NotFound(c, err.Error())
		return
	}
	if err != nil {
		log.Printf("[Admin] 重新加载构建失败: %v", err)
		utils.InternalServerError(c, err.Error())
		return
	}

	if h.Cache != nil {
		h.Cache.Flush()
	}
	log.Printf("[Admin] 已切换到构建 %s", id)
	utils.Success(c, gin.H{"build_id": id})
}

// AdminIngestRuns 最近的向量导入记录
func (h *Handler) AdminIngestRuns(c *gin.Context) {
	if h.IngestRuns == nil {
		utils.NotFound(c, "ingest history requires the pgvector backend")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := h.IngestRuns.Recent(c.Request.Context(), limit)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, runs)
}

// AdminFlushCache 清空响应缓存
func (h *Handler) AdminFlushCache(c *gin.Context) {
	n := 0
	if h.Cache != nil {
		n = h.Cache.Len()
		h.Cache.Flush()
	}
	utils.Success(c, gin.H{"flushed": n})
}
