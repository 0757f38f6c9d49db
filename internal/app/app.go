package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"exec-pacer/internal/config"
	"exec-pacer/internal/store"
)

// App 聚合核心依赖并驱动系统生命周期。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 启动采样循环：按固定节奏采样挂钟并对全部母单重跑纯函数
// 流水线，直到收到退出信号。
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("排程系统已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.Int("orders", len(a.cfg.Orders)),
		zap.Float64("deviation_band", a.cfg.Pacing.DeviationBand),
	)

	orch, err := newOrchestrator(a.cfg, a.logger, a.store)
	if err != nil {
		return err
	}

	if a.cfg.Monitor.Enabled {
		startMonitorServer(ctx, orch, a.cfg.Monitor.Port, a.logger)
	}

	refreshInterval := a.cfg.Scheduler.RefreshInterval
	if refreshInterval <= 0 {
		refreshInterval = 5 * time.Second
	}

	if err = orch.Tick(ctx); err != nil {
		a.logger.Error("首次采样失败", zap.Error(err))
	}

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("系统异常退出: %w", err)
			}
			a.logger.Info("系统收到退出信号，正在停止")
			return nil
		case <-ticker.C:
			if err = orch.Tick(ctx); err != nil {
				a.logger.Error("执行采样失败", zap.Error(err))
			}
		}
	}
}
