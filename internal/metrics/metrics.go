// Package metrics 通过 Prometheus 暴露排程与进度指标，
// 由监控 HTTP 服务的 /metrics 端点对外提供。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"exec-pacer/internal/advisor"
	"exec-pacer/internal/pacing"
	"exec-pacer/internal/perf"
	"exec-pacer/internal/plan"
)

// Set 持有本进程注册的全部指标。
type Set struct {
	registry *prometheus.Registry

	continuousPlanned *prometheus.GaugeVec
	auctionPlanned    *prometheus.GaugeVec
	accumulated       *prometheus.GaugeVec
	executed          *prometheus.GaugeVec
	pacingDelta       *prometheus.GaugeVec
	slippageBps       *prometheus.GaugeVec
	impactScore       *prometheus.GaugeVec
	requiredRate      *prometheus.GaugeVec
	replans           *prometheus.CounterVec
}

// NewSet 创建并注册指标集合。
func NewSet() *Set {
	s := &Set{
		registry: prometheus.NewRegistry(),
		continuousPlanned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacer_continuous_planned_shares",
			Help: "Planned continuous-session quantity",
		}, []string{"order"}),
		auctionPlanned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacer_auction_planned_shares",
			Help: "Planned closing-auction quantity",
		}, []string{"order"}),
		accumulated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacer_accumulated_suggested_shares",
			Help: "Cumulative suggested quantity as of the last sample",
		}, []string{"order"}),
		executed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacer_executed_shares",
			Help: "Operator-reported executed quantity",
		}, []string{"order"}),
		pacingDelta: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacer_pacing_delta_shares",
			Help: "Executed minus accumulated suggested quantity",
		}, []string{"order"}),
		slippageBps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacer_slippage_bps",
			Help: "Signed slippage versus market VWAP, positive means outperformance",
		}, []string{"order"}),
		impactScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacer_impact_score",
			Help: "Advisory impact score, 1 to 10",
		}, []string{"order"}),
		requiredRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacer_required_participation_rate",
			Help: "Participation rate required to complete the remainder",
		}, []string{"order"}),
		replans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pacer_replans_total",
			Help: "Full pipeline recomputations per order",
		}, []string{"order"}),
	}

	s.registry.MustRegister(
		s.continuousPlanned,
		s.auctionPlanned,
		s.accumulated,
		s.executed,
		s.pacingDelta,
		s.slippageBps,
		s.impactScore,
		s.requiredRate,
		s.replans,
	)

	return s
}

// Observe 用一轮完整的排程结果刷新指标。
func (s *Set) Observe(orderID string, p plan.Plan, report pacing.Report, summary perf.Summary, advice advisor.Advice) {
	labels := prometheus.Labels{"order": orderID}
	s.continuousPlanned.With(labels).Set(float64(p.ContinuousPlanned))
	s.auctionPlanned.With(labels).Set(float64(p.AuctionPlanned))
	s.accumulated.With(labels).Set(float64(report.Accumulated))
	s.executed.With(labels).Set(float64(report.Executed))
	s.pacingDelta.With(labels).Set(float64(report.Delta))
	s.slippageBps.With(labels).Set(summary.SlippageBps)
	s.impactScore.With(labels).Set(float64(advice.ImpactScore))
	s.requiredRate.With(labels).Set(advice.RequiredParticipationRate)
	s.replans.With(labels).Inc()
}

// Handler 返回 Prometheus 文本格式的 HTTP 处理器。
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
