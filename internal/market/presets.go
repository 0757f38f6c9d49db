// Package market 维护命名市场到标准时段参数的静态映射。
// 预设只在排程调用前套用到母单的时间字段上，核心算法对市场
// 身份一无所知。
package market

import (
	"strings"

	"exec-pacer/internal/plan"
	"exec-pacer/internal/session"
)

// Preset 描述一个市场的标准交易时段。
type Preset struct {
	Name         string
	SessionStart session.TimeOfDay
	SessionEnd   session.TimeOfDay
	// AuctionEnd 为收盘集合竞价撮合结束时刻，竞价后的 TAL 窗口
	// 由外层按需使用，排程核心不涉及。
	AuctionEnd      session.TimeOfDay
	IntervalMinutes int
}

var presets = map[string]Preset{
	"HKEX": {
		Name:            "HKEX",
		SessionStart:    mustParse("09:30"),
		SessionEnd:      mustParse("16:00"),
		AuctionEnd:      mustParse("16:10"),
		IntervalMinutes: 30,
	},
	"NYSE": {
		Name:            "NYSE",
		SessionStart:    mustParse("09:30"),
		SessionEnd:      mustParse("16:00"),
		AuctionEnd:      mustParse("16:05"),
		IntervalMinutes: 30,
	},
	"LSE": {
		Name:            "LSE",
		SessionStart:    mustParse("08:00"),
		SessionEnd:      mustParse("16:30"),
		AuctionEnd:      mustParse("16:35"),
		IntervalMinutes: 30,
	},
	"TSE": {
		Name:            "TSE",
		SessionStart:    mustParse("09:00"),
		SessionEnd:      mustParse("15:00"),
		AuctionEnd:      mustParse("15:10"),
		IntervalMinutes: 30,
	},
}

// Lookup 按名称查找预设，大小写不敏感。
func Lookup(name string) (Preset, bool) {
	preset, ok := presets[strings.ToUpper(strings.TrimSpace(name))]
	return preset, ok
}

// Apply 把预设时段套用到母单上。母单已显式配置的字段保持不变，
// 只填补零值。未知市场名时原样返回。
func Apply(o plan.Order) plan.Order {
	preset, ok := Lookup(o.Venue)
	if !ok {
		return o
	}
	if o.SessionStart == 0 && o.SessionEnd == 0 {
		o.SessionStart = preset.SessionStart
		o.SessionEnd = preset.SessionEnd
	}
	if o.IntervalMinutes <= 0 {
		o.IntervalMinutes = preset.IntervalMinutes
	}
	return o
}

func mustParse(value string) session.TimeOfDay {
	t, err := session.ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return t
}
