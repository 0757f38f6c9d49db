// Package pacing 追踪实际成交进度与排程之间的偏差。
package pacing

import (
	"math"

	"exec-pacer/internal/plan"
	"exec-pacer/internal/session"
)

// DefaultBand 为默认的偏差容忍带宽（±5%）。
const DefaultBand = 0.05

// State 表示进度分类。
type State string

const (
	StateAhead   State = "ahead"
	StateOnTrack State = "on_track"
	StateBehind  State = "behind"
)

// Report 汇总一次进度采样。
type Report struct {
	Now         session.TimeOfDay `json:"now"`
	Accumulated int64             `json:"accumulated_suggested"`
	Executed    int64             `json:"executed"`
	Delta       int64             `json:"delta"`
	State       State             `json:"state"`
}

// AccumulatedSuggested 计算排程在时刻 now 应当累计完成的建议量：
// 已结束的切片计入全量，进行中的切片按经过时间比例折算后向下取整，
// 未开始的切片不计。该函数随 now 单调不减，now 越过时段末尾后恒等
// 于 ContinuousPlanned。
func AccumulatedSuggested(p plan.Plan, now session.TimeOfDay) int64 {
	var total int64
	for _, row := range p.Rows {
		if now >= row.Slice.End {
			total += row.Suggested
			continue
		}
		if row.Slice.Contains(now) {
			duration := row.Slice.Duration()
			if duration > 0 {
				elapsed := now.Duration() - row.Slice.Start.Duration()
				if elapsed < 0 {
					elapsed = 0
				}
				if elapsed > duration {
					elapsed = duration
				}
				fraction := float64(elapsed) / float64(duration)
				total += int64(math.Floor(float64(row.Suggested) * fraction))
			}
		}
		break
	}
	return total
}

// Classify 按偏差带宽对进度分类。band 为相对累计建议量的比例，
// 不同调用方可以使用不同带宽，缺省使用 DefaultBand。
func Classify(executed, accumulated int64, band float64) State {
	if band <= 0 {
		band = DefaultBand
	}
	if accumulated <= 0 {
		return StateAhead
	}

	delta := float64(executed - accumulated)
	threshold := band * float64(accumulated)
	switch {
	case delta >= threshold:
		return StateAhead
	case delta <= -threshold:
		return StateBehind
	default:
		return StateOnTrack
	}
}

// Evaluate 对计划做一次完整的进度采样。
func Evaluate(p plan.Plan, executed int64, now session.TimeOfDay, band float64) Report {
	if executed < 0 {
		executed = 0
	}
	accumulated := AccumulatedSuggested(p, now)
	return Report{
		Now:         now,
		Accumulated: accumulated,
		Executed:    executed,
		Delta:       executed - accumulated,
		State:       Classify(executed, accumulated, band),
	}
}
