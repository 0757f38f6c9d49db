package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"exec-pacer/internal/advisor"
	"exec-pacer/internal/ai"
	"exec-pacer/internal/config"
	"exec-pacer/internal/curve"
	"exec-pacer/internal/forecast"
	"exec-pacer/internal/market"
	"exec-pacer/internal/metrics"
	"exec-pacer/internal/monitor"
	"exec-pacer/internal/pacing"
	"exec-pacer/internal/perf"
	"exec-pacer/internal/plan"
	"exec-pacer/internal/session"
	"exec-pacer/internal/store"
)

// commentator 抽象大模型点评，便于测试与按需关闭。
type commentator interface {
	Commentary(ctx context.Context, prompt ai.PromptContext) (string, error)
}

// orderRuntime 持有一条母单的可变执行状态。排程核心本身无状态，
// 这里只保存操作员通过接口回报的成交进度。
type orderRuntime struct {
	mu    sync.Mutex
	order plan.Order

	// version 在每次母单输入变化时递增，用于判断是否需要落一份
	// 新的排程快照。
	version         int
	snapshotVersion int

	lastState      pacing.State
	lastCommentary time.Time
}

// snapshot 返回母单的不可变副本，排程流水线只消费副本。
func (r *orderRuntime) snapshot() (plan.Order, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order, r.version
}

// ApplyFill 以操作员回报的累计值覆盖成交进度。
func (r *orderRuntime) ApplyFill(executedQty int64, executedNotional float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if executedQty < 0 {
		executedQty = 0
	}
	if executedNotional < 0 {
		executedNotional = 0
	}
	r.order.ExecutedQuantity = executedQty
	r.order.ExecutedNotional = executedNotional
	r.version++
}

// tickResult 为一条母单在单次采样中的完整流水线输出。
type tickResult struct {
	order   plan.Order
	plan    plan.Plan
	report  pacing.Report
	summary perf.Summary
	advice  advisor.Advice
}

type orchestrator struct {
	orders      []*orderRuntime
	monitor     *monitor.Service
	metrics     *metrics.Set
	commentator commentator
	logger      *zap.Logger

	band               float64
	commentaryInterval time.Duration
}

func newOrchestrator(cfg *config.Config, logger *zap.Logger, store *store.Store) (*orchestrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	monitorSvc, err := monitor.NewService(store, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化快照服务失败: %w", err)
	}

	var profiler *forecast.Profiler
	if cfg.Forecast.Enabled {
		profiler = forecast.NewProfiler(forecast.ParseMethod(cfg.Forecast.Method), cfg.Forecast.Window)
	}

	var noteClient commentator
	if cfg.OpenAI.Enabled() {
		client, err := ai.NewClient(cfg.OpenAI, logger)
		if err != nil {
			return nil, fmt.Errorf("初始化AI客户端失败: %w", err)
		}
		noteClient = client
	}

	orders := make([]*orderRuntime, 0, len(cfg.Orders))
	for _, oc := range cfg.Orders {
		order := buildOrder(oc, profiler)
		logger.Info("母单已装载",
			zap.String("order", order.ID),
			zap.String("symbol", order.Symbol),
			zap.String("exec_mode", string(order.ExecMode)),
			zap.Int64("quantity", order.Quantity),
			zap.String("session", fmt.Sprintf("%s-%s", order.SessionStart, order.SessionEnd)),
		)
		orders = append(orders, &orderRuntime{order: order, version: 1})
	}

	return &orchestrator{
		orders:             orders,
		monitor:            monitorSvc,
		metrics:            metrics.NewSet(),
		commentator:        noteClient,
		logger:             logger,
		band:               cfg.Pacing.DeviationBand,
		commentaryInterval: cfg.Scheduler.CommentaryInterval,
	}, nil
}

// buildOrder 把配置映射为核心母单：套用市场预设，按需用历史
// 成交量推导预期量，缺省字段填上默认值。
func buildOrder(oc config.OrderConfig, profiler *forecast.Profiler) plan.Order {
	side, _ := plan.ParseSide(oc.Side)

	order := plan.Order{
		ID:                       oc.ID,
		Symbol:                   oc.Symbol,
		Venue:                    oc.Venue,
		Side:                     side,
		Quantity:                 oc.Quantity,
		ExecMode:                 plan.ExecMode(oc.ExecMode),
		CapMode:                  plan.CapMode(oc.CapMode),
		MaxParticipationPct:      oc.MaxParticipationPct,
		ReserveForAuctionPct:     oc.ReserveForAuctionPct,
		DeferCompletion:          oc.DeferCompletion,
		SessionStart:             oc.SessionStart,
		SessionEnd:               oc.SessionEnd,
		IntervalMinutes:          oc.IntervalMinutes,
		Curve:                    curve.Shape(oc.Curve),
		CurrentMarketVolume:      oc.CurrentMarketVolume,
		ExpectedContinuousVolume: oc.ExpectedContinuousVolume,
		ExpectedAuctionVolume:    oc.ExpectedAuctionVolume,
		MarketTurnover:           oc.MarketTurnover,
		ManualMarketVWAP:         oc.ManualMarketVWAP,
		ExecutedQuantity:         oc.ExecutedQuantity,
		ExecutedNotional:         oc.ExecutedNotional,
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CapMode == "" {
		order.CapMode = plan.CapNone
	}
	if order.Curve == "" {
		order.Curve = curve.Equal
	}

	order = market.Apply(order)

	if profiler != nil && order.ExpectedContinuousVolume == 0 && len(oc.VolumeHistory) > 0 {
		n := len(session.SliceSession(order.SessionStart, order.SessionEnd, order.IntervalMinutes))
		order.ExpectedContinuousVolume = profiler.ExpectedVolume(oc.VolumeHistory, n)
	}

	return order
}

// Tick 对全部母单执行一轮完整流水线。母单之间互相独立，可以
// 并行重算。
func (o *orchestrator) Tick(ctx context.Context) error {
	now := session.FromClock(time.Now())

	g, ctx := errgroup.WithContext(ctx)
	for _, rt := range o.orders {
		g.Go(func() error {
			result := o.evaluate(rt, now)
			o.publish(ctx, rt, result)
			return nil
		})
	}
	return g.Wait()
}

// evaluate 对单条母单执行纯函数流水线：排程 → 进度 → 绩效 → 建议。
func (o *orchestrator) evaluate(rt *orderRuntime, now session.TimeOfDay) tickResult {
	order, _ := rt.snapshot()
	p := plan.Build(order)
	return tickResult{
		order:   order,
		plan:    p,
		report:  pacing.Evaluate(p, order.ExecutedQuantity, now, o.band),
		summary: perf.Evaluate(order),
		advice:  advisor.Advise(order, p, now),
	}
}

// publish 把一轮结果写入快照历史与指标，并在状态变化时输出日志。
func (o *orchestrator) publish(ctx context.Context, rt *orderRuntime, result tickResult) {
	o.metrics.Observe(result.order.ID, result.plan, result.report, result.summary, result.advice)
	o.monitor.RecordPacingSample(ctx, result.order.ID, result.report)

	rt.mu.Lock()
	planChanged := rt.version != rt.snapshotVersion
	if planChanged {
		rt.snapshotVersion = rt.version
	}
	stateChanged := result.report.State != rt.lastState
	rt.lastState = result.report.State
	commentaryDue := o.commentator != nil && o.commentaryInterval > 0 &&
		time.Since(rt.lastCommentary) >= o.commentaryInterval
	if commentaryDue {
		rt.lastCommentary = time.Now()
	}
	rt.mu.Unlock()

	if planChanged {
		o.monitor.RecordPlanSnapshot(ctx, result.order, result.plan)
		o.monitor.RecordPerformance(ctx, result.order.ID, result.summary)
		o.monitor.RecordAdvisory(ctx, result.order.ID, result.advice)
	}

	if stateChanged {
		o.logger.Info("进度状态变化",
			zap.String("order", result.order.ID),
			zap.String("state", string(result.report.State)),
			zap.Int64("accumulated", result.report.Accumulated),
			zap.Int64("executed", result.report.Executed),
			zap.Int64("delta", result.report.Delta),
			zap.String("action", string(result.advice.Action)),
		)
	}

	if commentaryDue {
		note, err := o.commentator.Commentary(ctx, ai.PromptContext{
			Order:   result.order,
			Plan:    result.plan,
			Report:  result.report,
			Summary: result.summary,
			Advice:  result.advice,
		})
		if err != nil {
			o.logger.Warn("生成盘中点评失败", zap.Error(err))
			return
		}
		o.monitor.RecordCommentary(ctx, result.order.ID, note)
	}
}

// findOrder 按 ID 查找母单运行时。
func (o *orchestrator) findOrder(id string) (*orderRuntime, bool) {
	for _, rt := range o.orders {
		order, _ := rt.snapshot()
		if order.ID == id {
			return rt, true
		}
	}
	return nil, false
}
