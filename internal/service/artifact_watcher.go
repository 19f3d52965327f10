package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/muaazl/cine-match/internal/artifact"
)

// ArtifactWatcher 定时检查 CURRENT，有新构建时重新加载
type ArtifactWatcher struct {
	engine   *LegacyEngine
	interval time.Duration
	onReload func(buildID string)
}

// NewArtifactWatcher 创建产物监听，onReload 可为 nil
func NewArtifactWatcher(engine *LegacyEngine, interval time.Duration, onReload func(buildID string)) *ArtifactWatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ArtifactWatcher{engine: engine, interval: interval, onReload: onReload}
}

// Start 启动定时检查，ctx 取消后退出
func (w *ArtifactWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)

	// 启动时先运行一次
	w.check()

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.check()
			}
		}
	}()
}

func (w *ArtifactWatcher) check() {
	before := w.engine.BuildID()
	id, err := w.engine.Reload()
	if errors.Is(err, artifact.ErrNoBuild) {
		if before == "" {
			log.Println("[ArtifactWatcher] 暂无可用构建，/legacy 接口不可用")
		}
		return
	}
	if err != nil {
		log.Printf("[ArtifactWatcher] 加载构建失败: %v", err)
		return
	}
	if id != before && w.onReload != nil {
		w.onReload(id)
	}
}
