// Package advisor 基于排程、进度与剩余流动性给出下一步操作建议。
package advisor

import (
	"math"

	"exec-pacer/internal/pacing"
	"exec-pacer/internal/plan"
	"exec-pacer/internal/session"
)

// Action 为建议的操作标签。
type Action string

const (
	// ActionReduceClip 冲击过大：缩小单笔规模并把更多量转向集合竞价。
	ActionReduceClip Action = "reduce_clip_lean_auction"
	// ActionRaiseParticipation 进度落后：向所需参与率上调。
	ActionRaiseParticipation Action = "raise_participation"
	// ActionEaseOff 进度超前：除非流动性异常充裕，否则放缓。
	ActionEaseOff Action = "ease_off"
	// ActionHold 按当前节奏继续。
	ActionHold Action = "hold_steady"
)

// 建议规则使用的阈值。进度带宽固定为 ±10%，比 pacing 的分类带更宽。
const (
	impactEscalateScore = 8
	paceDeviationBand   = 0.10
)

// Advice 汇总一次建议评估。
type Advice struct {
	ImpactScore               int     `json:"impact_score"`
	RequiredParticipationRate float64 `json:"required_participation_rate"`
	Action                    Action  `json:"action"`
	PacingDelta               int64   `json:"pacing_delta"`
}

// Advise 在时刻 now 评估母单的执行处境。规则按优先级匹配，
// 命中即返回：冲击分过高 > 落后 > 超前 > 保持。
func Advise(o plan.Order, p plan.Plan, now session.TimeOfDay) Advice {
	remaining := o.Quantity - o.ExecutedQuantity
	if remaining < 0 {
		remaining = 0
	}

	expectedRemaining := o.ExpectedContinuousVolume + o.ExpectedAuctionVolume
	if expectedRemaining < 1 {
		expectedRemaining = 1
	}

	// 有意不截断到 1：超过 1 本身就是排程不可行的信号。
	required := float64(remaining) / expectedRemaining

	score := int(math.Round(required * 10))
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	accumulated := pacing.AccumulatedSuggested(p, now)
	delta := o.ExecutedQuantity - accumulated

	advice := Advice{
		ImpactScore:               score,
		RequiredParticipationRate: required,
		PacingDelta:               delta,
	}

	threshold := paceDeviationBand * float64(accumulated)
	switch {
	case score >= impactEscalateScore:
		advice.Action = ActionReduceClip
	case accumulated > 0 && float64(delta) <= -threshold:
		advice.Action = ActionRaiseParticipation
	case accumulated > 0 && float64(delta) >= threshold:
		advice.Action = ActionEaseOff
	default:
		advice.Action = ActionHold
	}

	return advice
}
