package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/muaazl/cine-match/internal/artifact"
	"github.com/muaazl/cine-match/internal/catalog"
	"github.com/muaazl/cine-match/internal/config"
	"github.com/muaazl/cine-match/internal/corpus"
	"github.com/muaazl/cine-match/internal/middleware"
	"github.com/muaazl/cine-match/internal/model"
	"github.com/muaazl/cine-match/internal/repository"
	"github.com/muaazl/cine-match/internal/service"
	"github.com/muaazl/cine-match/internal/utils"
)

const usage = `用法: builder <command> [flags]

命令:
  legacy   读取数据集，构建本地相似度矩阵和问卷索引
  ingest   读取数据集，生成向量并写入向量库
  token    签发管理接口使用的 JWT
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "legacy":
		err = runLegacy(ctx, os.Args[2:])
	case "ingest":
		err = runIngest(ctx, os.Args[2:])
	case "token":
		err = runToken(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("[Builder] %s 失败: %v", os.Args[1], err)
	}
}

// sourceFlags 两条构建路径共用的数据集与过滤参数
type sourceFlags struct {
	movies          string
	anime           string
	minYear         int
	classicVotes    float64
	minVotes        float64
	minAnimeMembers float64
	maxItems        int
}

func (s *sourceFlags) register(fs *flag.FlagSet, p catalog.Profile) {
	fs.StringVar(&s.movies, "movies", "data/movies.csv", "电影数据集 CSV")
	fs.StringVar(&s.anime, "anime", "data/anime.csv", "动画数据集 CSV")
	fs.IntVar(&s.minYear, "min-year", p.MinYear, "上映年份下限")
	fs.Float64Var(&s.classicVotes, "classic-votes", p.ClassicVoteFloor, "早于 min-year 的影片投票数超过该值时保留，<=0 不放行")
	fs.Float64Var(&s.minVotes, "min-votes", p.MinMovieVotes, "影片投票数下限（不含），<=0 不限制")
	fs.Float64Var(&s.minAnimeMembers, "min-anime-members", p.MinAnimeMembers, "动画成员数下限（不含）")
	fs.IntVar(&s.maxItems, "max", p.MaxItems, "语料上限")
}

// apply 用命令行参数覆盖 profile 阈值
func (s *sourceFlags) apply(p catalog.Profile) catalog.Profile {
	p.MinYear = s.minYear
	p.ClassicVoteFloor = s.classicVotes
	p.MinMovieVotes = s.minVotes
	p.MinAnimeMembers = s.minAnimeMembers
	p.MaxItems = s.maxItems
	return p
}

// load 读取并归一化两个数据集
func (s *sourceFlags) load(p catalog.Profile) ([]model.ItemRecord, []model.ItemRecord, error) {
	n := catalog.NewNormalizer(s.apply(p))

	rawMovies, err := catalog.ReadMovies(s.movies)
	if err != nil {
		return nil, nil, err
	}
	rawAnime, err := catalog.ReadAnime(s.anime)
	if err != nil {
		return nil, nil, err
	}

	movies, _ := n.NormalizeMovies(rawMovies)
	anime, _ := n.NormalizeAnime(rawAnime)
	return movies, anime, nil
}

func runLegacy(ctx context.Context, args []string) error {
	profile := catalog.LegacyProfile()
	fs := flag.NewFlagSet("legacy", flag.ExitOnError)
	var src sourceFlags
	src.register(fs, profile)
	out := fs.String("out", envOr("ARTIFACT_DIR", "./artifacts"), "产物目录")
	seed := legacySeedFlag(fs)
	features := fs.Int("features", corpus.DefaultMaxFeatures, "词表上限")
	workers := fs.Int("workers", runtime.NumCPU(), "相似度矩阵并发数")
	if err := fs.Parse(args); err != nil {
		return err
	}

	movies, anime, err := src.load(profile)
	if err != nil {
		return err
	}

	bundle, err := corpus.BuildLegacy(ctx, corpus.LegacyOptions{
		Seed:        *seed,
		MaxItems:    src.maxItems,
		MaxFeatures: *features,
		Workers:     *workers,
	}, movies, anime)
	if err != nil {
		return err
	}

	id, err := artifact.Save(*out, bundle)
	if err != nil {
		return err
	}
	log.Printf("[Builder] 本地构建完成: %s (%d 条, 词表 %d, %d 个问卷类型)",
		id, bundle.Manifest.Count, bundle.Manifest.VocabSize, bundle.Manifest.Genres)
	return nil
}

// legacySeedFlag 抽样种子，默认取 SHUFFLE_SEED
func legacySeedFlag(fs *flag.FlagSet) *int64 {
	return fs.Int64("seed", config.EnvShuffleSeed(), "抽样随机种子，默认取 SHUFFLE_SEED")
}

func runIngest(ctx context.Context, args []string) error {
	profile := catalog.EmbeddingProfile()
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	var src sourceFlags
	src.register(fs, profile)
	batch := fs.Int("batch", service.DefaultBatchSize, "每批条数")
	concurrency := fs.Int("concurrency", 4, "每批内并发生成向量数")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	movies, anime, err := src.load(profile)
	if err != nil {
		return err
	}
	items := corpus.TopByVotes(corpus.Merge(movies, anime), src.maxItems)
	log.Printf("[Builder] 待导入 %d 条", len(items))

	var (
		index service.VectorIndex
		runs  *repository.IngestRunRepository
	)
	switch cfg.VectorBackend {
	case config.BackendPgvector:
		if cfg.EmbeddingDim != model.EmbeddingDimensions {
			return fmt.Errorf("pgvector 表结构固定为 %d 维，当前 EMBEDDING_DIM=%d", model.EmbeddingDimensions, cfg.EmbeddingDim)
		}
		db, err := repository.InitDB(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()
		if err := repository.Migrate(db); err != nil {
			return err
		}
		repos := repository.NewRepositories(db)
		index, runs = repos.Vectors, repos.IngestRuns
	case config.BackendPinecone:
		index = utils.NewPineconeIndex(cfg.PineconeHost, cfg.PineconeAPIKey, "", cfg.RetrievalTimeout)
	}

	embedder := utils.NewOllamaEmbedder(cfg.OllamaHost, cfg.OllamaModel, cfg.EmbeddingDim, cfg.RetrievalTimeout)
	report := service.NewIngestor(embedder, index, *batch, *concurrency).Run(ctx, items)

	if runs != nil {
		// 写入记录不受 ctx 取消影响
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := runs.Create(saveCtx, report.Run(cfg.VectorBackend)); err != nil {
			log.Printf("[Builder] 保存导入记录失败: %v", err)
		}
	}

	if failed := report.FailedBatches(); len(failed) > 0 {
		log.Printf("[Builder] 失败批次:\n%s", report.Summary())
		return fmt.Errorf("%d/%d 批失败", len(failed), len(report.Batches))
	}
	return ctx.Err()
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	subject := fs.String("sub", "admin", "令牌主体")
	ttl := fs.Duration("ttl", 24*time.Hour, "有效期")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := middleware.GenerateToken(*subject, middleware.RoleAdmin, os.Getenv("ADMIN_SECRET"), *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
