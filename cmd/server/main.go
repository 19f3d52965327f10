package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/muaazl/cine-match/internal/config"
	"github.com/muaazl/cine-match/internal/fuzzy"
	"github.com/muaazl/cine-match/internal/handler"
	"github.com/muaazl/cine-match/internal/middleware"
	"github.com/muaazl/cine-match/internal/model"
	"github.com/muaazl/cine-match/internal/repository"
	"github.com/muaazl/cine-match/internal/router"
	"github.com/muaazl/cine-match/internal/service"
	"github.com/muaazl/cine-match/internal/utils"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置，凭据缺失时直接退出
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 初始化向量库
	var (
		index      service.VectorIndex
		ingestRuns *repository.IngestRunRepository
	)
	switch cfg.VectorBackend {
	case config.BackendPgvector:
		if cfg.EmbeddingDim != model.EmbeddingDimensions {
			log.Fatalf("pgvector 表结构固定为 %d 维，当前 EMBEDDING_DIM=%d", model.EmbeddingDimensions, cfg.EmbeddingDim)
		}
		db, err := repository.InitDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("数据库连接失败: %v", err)
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()

		if err := repository.Migrate(db); err != nil {
			log.Fatalf("数据库迁移失败: %v", err)
		}
		repos := repository.NewRepositories(db)
		index = repos.Vectors
		ingestRuns = repos.IngestRuns
	case config.BackendPinecone:
		index = utils.NewPineconeIndex(cfg.PineconeHost, cfg.PineconeAPIKey, "", cfg.RetrievalTimeout)
	}
	log.Printf("向量库后端: %s", cfg.VectorBackend)

	// 向量生成（带缓存，并合并并发的相同请求）
	ollama := utils.NewOllamaEmbedder(cfg.OllamaHost, cfg.OllamaModel, cfg.EmbeddingDim, cfg.RetrievalTimeout)
	embedder := service.NewCachedEmbedder(ollama, 1024, time.Hour, cfg.RetrievalTimeout)

	scorer := fuzzy.Scorer{}
	recommend := service.NewRecommendService(embedder, index, scorer, service.RecommendOptions{
		Timeout: cfg.RetrievalTimeout,
		Rand:    service.NewRand(time.Now().UnixNano()),
	})

	// 响应缓存
	cache := utils.NewResponseCache(10*time.Minute, 20*time.Minute)

	// 本地相似度产物，后台轮询 CURRENT 变化
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	legacy := service.NewLegacyEngine(cfg.ArtifactDir, scorer)
	watcher := service.NewArtifactWatcher(legacy, cfg.ArtifactPoll, func(buildID string) {
		cache.Flush()
	})
	watcher.Start(ctx)

	// 初始化 Gin
	var r *gin.Engine
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		r = gin.New()
		r.Use(gin.Recovery())
	} else {
		r = gin.Default()
	}
	handler.RegisterValidators()

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 中间件
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(ctx, 5*time.Minute)

	// 初始化 Handler
	h := handler.NewHandler(cfg, recommend, legacy, cache, ingestRuns)

	// 注册路由
	router.RegisterRoutes(r, h, limiter, cfg.AdminSecret)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   2*cfg.RetrievalTimeout + 5*time.Second, // 覆盖 embed + query 两次外部调用
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Printf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")
	stop()

	// 5 秒超时上下文用于关闭过程
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}

	log.Println("服务器已退出")
}
