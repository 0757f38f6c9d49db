// Package perf 以市场 VWAP 为基准评估执行质量。
package perf

import "exec-pacer/internal/plan"

// Summary 汇总一次绩效评估。
type Summary struct {
	MarketVWAP  float64 `json:"market_vwap"`
	OrderVWAP   float64 `json:"order_vwap"`
	SlippageBps float64 `json:"slippage_bps"`
}

// MarketVWAP 推导市场 VWAP：成交额与成交量同时为正时优先使用
// 成交额隐含值，否则回落到人工输入的 VWAP，两者皆无时为 0。
func MarketVWAP(currentVolume, turnover, manual float64) float64 {
	if currentVolume > 0 && turnover > 0 {
		return turnover / currentVolume
	}
	if manual > 0 {
		return manual
	}
	return 0
}

// OrderVWAP 计算母单自身的成交均价，无成交时为 0。
func OrderVWAP(executedQty int64, executedNotional float64) float64 {
	if executedQty <= 0 || executedNotional <= 0 {
		return 0
	}
	return executedNotional / float64(executedQty)
}

// SlippageBps 计算带符号的滑点（基点）。符号约定：无论买卖方向，
// 正值始终表示跑赢市场（买得比市场便宜 / 卖得比市场贵）。任一
// VWAP 缺失时返回 0，表示无信号。
func SlippageBps(side plan.Side, orderVWAP, marketVWAP float64) float64 {
	if orderVWAP <= 0 || marketVWAP <= 0 {
		return 0
	}
	if side == plan.SideSell {
		return (orderVWAP - marketVWAP) / marketVWAP * 10000
	}
	return (marketVWAP - orderVWAP) / marketVWAP * 10000
}

// Evaluate 从母单输入推导完整的绩效汇总。
func Evaluate(o plan.Order) Summary {
	market := MarketVWAP(o.CurrentMarketVolume, o.MarketTurnover, o.ManualMarketVWAP)
	order := OrderVWAP(o.ExecutedQuantity, o.ExecutedNotional)
	return Summary{
		MarketVWAP:  market,
		OrderVWAP:   order,
		SlippageBps: SlippageBps(o.Side, order, market),
	}
}
