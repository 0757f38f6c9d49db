package monitor

import (
	"time"

	"exec-pacer/internal/advisor"
	"exec-pacer/internal/pacing"
	"exec-pacer/internal/perf"
	"exec-pacer/internal/plan"
)

// EventType 表示快照事件类型。
type EventType string

const (
	EventPlanSnapshot EventType = "plan_snapshot"
	EventPacingSample EventType = "pacing_sample"
	EventAdvisory     EventType = "advisory"
	EventPerformance  EventType = "performance"
	EventCommentary   EventType = "commentary"
	EventError        EventType = "error"
)

// Event 封装通用快照事件。
type Event struct {
	Type      EventType   `json:"type"`
	OrderID   string      `json:"order_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PlanSnapshotPayload 记录一次完整的排程输出。
type PlanSnapshotPayload struct {
	Order plan.Order `json:"order"`
	Plan  plan.Plan  `json:"plan"`
}

// PacingSamplePayload 记录一次进度采样。
type PacingSamplePayload struct {
	Report pacing.Report `json:"report"`
}

// AdvisoryPayload 记录一次操作建议。
type AdvisoryPayload struct {
	Advice advisor.Advice `json:"advice"`
}

// PerformancePayload 记录一次绩效评估。
type PerformancePayload struct {
	Summary perf.Summary `json:"summary"`
}

// CommentaryPayload 记录大模型生成的盘中点评。
type CommentaryPayload struct {
	Note string `json:"note"`
}

// ErrorPayload 记录异常。
type ErrorPayload struct {
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}
