// Package plan 把母单参数、时段切片与权重曲线组合为逐切片的执行排程。
package plan

import (
	"math"

	"exec-pacer/internal/curve"
	"exec-pacer/internal/session"
)

// Build 为给定母单生成完整排程。对任何类型合法的 Order 都返回
// 结构完整的 Plan，不会返回错误：非法数值按防御性默认值处理，
// 零成交量只会得到零建议量，绝不产生负数或 NaN。
func Build(o Order) Plan {
	o = normalize(o)

	slices := session.SliceSession(o.SessionStart, o.SessionEnd, o.IntervalMinutes)
	weights := curve.Weights(o.Curve, len(slices))

	if o.ExecMode == ExecParticipation {
		return buildParticipation(o, slices, weights)
	}
	return buildTimeSliced(o, slices, weights)
}

// buildTimeSliced 实现 OTD 风格：先按竞价预留比例扣减出连续竞价
// 目标量，再把目标量按权重摊到各切片。预留必须发生在切分之前，
// 这是本算法的核心正确性条件。
func buildTimeSliced(o Order, slices []session.Slice, weights []float64) Plan {
	reserve := floorQty(float64(o.Quantity) * o.ReserveForAuctionPct / 100)
	if reserve > o.Quantity {
		reserve = o.Quantity
	}
	target := o.Quantity - reserve

	// deferCompletion 模式下在最后一个切片之前保留的安全余量。
	keepBack := int64(math.Ceil(float64(target) * 0.05))

	rows := make([]Row, len(slices))
	remaining := target
	for i, sl := range slices {
		row := Row{
			Slice:          sl,
			ExpectedVolume: flooredVolume(weights[i], o.ExpectedContinuousVolume),
		}

		suggested := floorQty(weights[i] * float64(target))
		if suggested > remaining {
			suggested = remaining
		}
		suggested = applyCap(&row, o, suggested)

		// 避免连续竞价腿在时段真正结束前耗尽全部余量。
		if o.DeferCompletion && i < len(slices)-1 && remaining-suggested <= 0 {
			suggested = remaining - keepBack
			if suggested < 0 {
				suggested = 0
			}
		}

		if suggested > remaining {
			suggested = remaining
		}
		row.Suggested = suggested
		remaining -= suggested
		rows[i] = row
	}

	planned := target - remaining
	allowed := auctionAllowed(o)

	// 被上限压掉的连续竞价缺口转入集合竞价腿，仍受竞价容量约束。
	auction := reserve + (target - planned)
	if limit := floorQty(allowed); auction > limit {
		auction = limit
	}

	return Plan{
		Rows:              rows,
		ReserveQuantity:   reserve,
		ContinuousTarget:  target,
		ContinuousPlanned: planned,
		AuctionAllowed:    allowed,
		AuctionPlanned:    auction,
	}
}

// buildParticipation 实现 INLINE / POV 风格：按预期总量推导目标参与
// 率，每个切片跟随其预期成交量执行。
func buildParticipation(o Order, slices []session.Slice, weights []float64) Plan {
	totalVolume := o.CurrentMarketVolume + o.ExpectedContinuousVolume + o.ExpectedAuctionVolume
	pov := 0.0
	if totalVolume > 0 {
		pov = float64(o.Quantity) / totalVolume
		if pov > 1 {
			pov = 1
		}
	}

	rows := make([]Row, len(slices))
	var planned int64
	for i, sl := range slices {
		row := Row{
			Slice:          sl,
			ExpectedVolume: flooredVolume(weights[i], o.ExpectedContinuousVolume),
		}
		suggested := floorQty(row.ExpectedVolume * pov)
		suggested = applyCap(&row, o, suggested)
		row.Suggested = suggested
		planned += suggested
		rows[i] = row
	}

	allowed := auctionAllowed(o)
	var auction int64
	if o.CapMode == CapPercentOfVolume {
		auction = floorQty(o.ExpectedAuctionVolume * pov * o.MaxParticipationPct / 100)
	} else {
		auction = floorQty(o.ExpectedAuctionVolume * pov)
	}

	// 取整与封顶的组合可能造成超额，需要内部消化而不是抛给调用方。
	excess := planned + auction - o.Quantity
	if excess > 0 {
		if o.DeferCompletion {
			// 从尾部切片开始逐行削减，削到零再移向前一行。
			for i := len(rows) - 1; i >= 0 && excess > 0; i-- {
				cut := rows[i].Suggested
				if cut > excess {
					cut = excess
				}
				rows[i].Suggested -= cut
				planned -= cut
				excess -= cut
			}
			if excess > 0 {
				auction -= excess
			}
		} else {
			auction -= excess
		}
		if auction < 0 {
			auction = 0
		}
	}

	return Plan{
		Rows:              rows,
		ContinuousTarget:  o.Quantity,
		ContinuousPlanned: planned,
		AuctionAllowed:    allowed,
		AuctionPlanned:    auction,
		ParticipationRate: pov,
	}
}

// applyCap 按参与率上限裁剪建议量并回填行内上限字段。
func applyCap(row *Row, o Order, suggested int64) int64 {
	if o.CapMode == CapPercentOfVolume {
		row.Capped = true
		row.MaxAllowed = floorQty(row.ExpectedVolume * o.MaxParticipationPct / 100)
		if suggested > row.MaxAllowed {
			suggested = row.MaxAllowed
		}
	}
	if suggested < 0 {
		suggested = 0
	}
	return suggested
}

// auctionAllowed 计算集合竞价腿的容量上限。
func auctionAllowed(o Order) float64 {
	allowed := o.ExpectedAuctionVolume
	if o.CapMode == CapPercentOfVolume {
		allowed = math.Floor(o.ExpectedAuctionVolume * o.MaxParticipationPct / 100)
	}
	if allowed < 0 {
		allowed = 0
	}
	return allowed
}

// normalize 对输入做防御性清洗，负值一律按 0 处理。
func normalize(o Order) Order {
	if o.Quantity < 0 {
		o.Quantity = 0
	}
	if o.ExecutedQuantity < 0 {
		o.ExecutedQuantity = 0
	}
	if o.ExecutedNotional < 0 {
		o.ExecutedNotional = 0
	}
	if o.CurrentMarketVolume < 0 {
		o.CurrentMarketVolume = 0
	}
	if o.ExpectedContinuousVolume < 0 {
		o.ExpectedContinuousVolume = 0
	}
	if o.ExpectedAuctionVolume < 0 {
		o.ExpectedAuctionVolume = 0
	}
	if o.MarketTurnover < 0 {
		o.MarketTurnover = 0
	}
	if o.ManualMarketVWAP < 0 {
		o.ManualMarketVWAP = 0
	}
	if o.MaxParticipationPct < 0 {
		o.MaxParticipationPct = 0
	}
	if o.ReserveForAuctionPct < 0 {
		o.ReserveForAuctionPct = 0
	}
	if o.IntervalMinutes <= 0 {
		o.IntervalMinutes = 1
	}
	if !o.Curve.Valid() {
		o.Curve = curve.Equal
	}
	return o
}

func floorQty(v float64) int64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int64(math.Floor(v))
}

func flooredVolume(weight, total float64) float64 {
	v := math.Floor(weight * total)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
