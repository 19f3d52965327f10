package handler

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/muaazl/cine-match/internal/config"
	"github.com/muaazl/cine-match/internal/model"
	"github.com/muaazl/cine-match/internal/repository"
	"github.com/muaazl/cine-match/internal/service"
	"github.com/muaazl/cine-match/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Config     *config.Config
	Recommend  *service.RecommendService
	Legacy     *service.LegacyEngine
	Cache      *utils.ResponseCache
	IngestRuns *repository.IngestRunRepository // 仅 pgvector 后端可用
}

// NewHandler 创建处理器
func NewHandler(
	cfg *config.Config,
	recommend *service.RecommendService,
	legacy *service.LegacyEngine,
	cache *utils.ResponseCache,
	ingestRuns *repository.IngestRunRepository,
) *Handler {
	return &Handler{
		Config:     cfg,
		Recommend:  recommend,
		Legacy:     legacy,
		Cache:      cache,
		IngestRuns: ingestRuns,
	}
}

var registerOnce sync.Once

// RegisterValidators 在 gin 的校验器上注册自定义规则
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Println("[Handler] gin 校验器不是 validator/v10，跳过自定义规则注册")
			return
		}
		if err := v.RegisterValidation("filtertype", validateFilterType); err != nil {
			log.Printf("[Handler] 注册 filtertype 校验失败: %v", err)
		}
	})
}

// validateFilterType filter_type 只能是 All / Movie / Anime
func validateFilterType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case service.FilterAll, string(model.TypeMovie), string(model.TypeAnime):
		return true
	}
	return false
}

// fail 将服务层错误映射为 HTTP 响应
func (h *Handler) fail(c *gin.Context, err error) {
	c.Error(err)
	switch {
	case errors.Is(err, service.ErrNoResults):
		utils.NotFound(c, service.ErrNoResults.Error())
	case errors.Is(err, service.ErrNotReady):
		utils.Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
