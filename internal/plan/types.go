package plan

import (
	"strings"

	"exec-pacer/internal/curve"
	"exec-pacer/internal/session"
)

// Side 表示母单方向，决定滑点的符号约定。
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid 判断方向取值是否合法。
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// ParseSide 宽松解析方向字符串。
func ParseSide(value string) (Side, bool) {
	side := Side(strings.ToLower(strings.TrimSpace(value)))
	return side, side.Valid()
}

// ExecMode 表示执行风格。
type ExecMode string

const (
	// ExecTimeSliced 按固定时间表执行，与实时成交量无关（即 OTD）。
	ExecTimeSliced ExecMode = "time_sliced"
	// ExecParticipation 按预测成交量的固定比例执行（即 INLINE / POV）。
	ExecParticipation ExecMode = "participation"
)

// Valid 判断执行风格取值是否合法。
func (m ExecMode) Valid() bool {
	return m == ExecTimeSliced || m == ExecParticipation
}

// CapMode 表示参与率上限模式。
type CapMode string

const (
	CapNone            CapMode = "none"
	CapPercentOfVolume CapMode = "percent_of_volume"
)

// Valid 判断上限模式取值是否合法。
func (m CapMode) Valid() bool {
	return m == CapNone || m == CapPercentOfVolume
}

// Order 描述一次排程计算的全部输入。调用方每次修改参数后都应
// 携带新的 Order 重新调用 Build，核心不保留任何跨调用状态。
type Order struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Venue  string `json:"venue,omitempty"`

	Side     Side     `json:"side"`
	Quantity int64    `json:"quantity"`
	ExecMode ExecMode `json:"exec_mode"`

	CapMode              CapMode `json:"cap_mode"`
	MaxParticipationPct  float64 `json:"max_participation_pct"`
	ReserveForAuctionPct float64 `json:"reserve_for_auction_pct"`
	DeferCompletion      bool    `json:"defer_completion"`

	SessionStart    session.TimeOfDay `json:"session_start"`
	SessionEnd      session.TimeOfDay `json:"session_end"`
	IntervalMinutes int               `json:"interval_minutes"`
	Curve           curve.Shape       `json:"curve"`

	CurrentMarketVolume      float64 `json:"current_market_volume"`
	ExpectedContinuousVolume float64 `json:"expected_continuous_volume"`
	ExpectedAuctionVolume    float64 `json:"expected_auction_volume"`

	MarketTurnover   float64 `json:"market_turnover"`
	ManualMarketVWAP float64 `json:"manual_market_vwap"`

	ExecutedQuantity int64   `json:"executed_quantity"`
	ExecutedNotional float64 `json:"executed_notional"`
}

// Row 为计划中单个切片的分配结果。
type Row struct {
	Slice          session.Slice `json:"slice"`
	ExpectedVolume float64       `json:"expected_volume"`
	// Capped 为 false 时该切片不受参与率上限约束，MaxAllowed 无意义。
	Capped     bool  `json:"capped"`
	MaxAllowed int64 `json:"max_allowed"`
	Suggested  int64 `json:"suggested"`
}

// Plan 为一次完整的执行排程。始终满足
// ContinuousPlanned + AuctionPlanned <= Order.Quantity。
type Plan struct {
	Rows []Row `json:"rows"`

	ReserveQuantity   int64 `json:"reserve_quantity"`
	ContinuousTarget  int64 `json:"continuous_target"`
	ContinuousPlanned int64 `json:"continuous_planned"`

	AuctionAllowed float64 `json:"auction_allowed"`
	AuctionPlanned int64   `json:"auction_planned"`

	// ParticipationRate 仅在 participation 模式下有值，为目标参与率(0..1)。
	ParticipationRate float64 `json:"participation_rate,omitempty"`
}

// TotalPlanned 返回连续竞价与集合竞价的合计排程量。
func (p Plan) TotalPlanned() int64 {
	return p.ContinuousPlanned + p.AuctionPlanned
}
