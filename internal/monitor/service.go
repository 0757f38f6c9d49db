package monitor

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"exec-pacer/internal/advisor"
	"exec-pacer/internal/pacing"
	"exec-pacer/internal/perf"
	"exec-pacer/internal/plan"
	"exec-pacer/internal/store"
)

// Service 负责持久化快照历史。写入失败只记日志，不影响排程主流程。
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService 初始化快照服务，创建所需表结构。
func NewService(store *store.Store, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("monitor: store 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		db:     store.DB(),
		logger: logger,
	}

	if err := s.initSchema(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) initSchema() error {
	stmt := `
CREATE TABLE IF NOT EXISTS pacer_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	order_id TEXT NOT NULL DEFAULT '',
	payload TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pacer_events_type ON pacer_events(event_type);
CREATE INDEX IF NOT EXISTS idx_pacer_events_order ON pacer_events(order_id);
`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("monitor: 初始化表失败: %w", err)
	}
	return nil
}

// Record 写入单个事件。
func (s *Service) Record(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("monitor: 序列化事件失败: %w", err)
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pacer_events (event_type, order_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		string(event.Type), event.OrderID, string(payload), event.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("monitor: 写入事件失败: %w", err)
	}

	return nil
}

// ListEvents 按类型与母单过滤查询最近的事件，limit 限制条数。
func (s *Service) ListEvents(ctx context.Context, eventType EventType, orderID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 200
	}

	query := `SELECT event_type, order_id, payload, created_at FROM pacer_events`
	args := make([]interface{}, 0, 3)
	where := ""
	if eventType != "" {
		where = ` WHERE event_type = ?`
		args = append(args, string(eventType))
	}
	if orderID != "" {
		if where == "" {
			where = ` WHERE order_id = ?`
		} else {
			where += ` AND order_id = ?`
		}
		args = append(args, orderID)
	}
	query += where + ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("monitor: 查询事件失败: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, limit)
	for rows.Next() {
		var (
			typ     string
			oid     string
			payload string
			created string
		)
		if err := rows.Scan(&typ, &oid, &payload, &created); err != nil {
			return nil, fmt.Errorf("monitor: 读取事件失败: %w", err)
		}

		event := Event{Type: EventType(typ), OrderID: oid}
		if ts, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			event.Timestamp = ts
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(payload), &decoded); err == nil {
			event.Payload = decoded
		} else {
			event.Payload = payload
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// RecordPlanSnapshot 记录一次排程输出。
func (s *Service) RecordPlanSnapshot(ctx context.Context, o plan.Order, p plan.Plan) {
	if err := s.Record(ctx, Event{
		Type:      EventPlanSnapshot,
		OrderID:   o.ID,
		Timestamp: time.Now().UTC(),
		Payload:   PlanSnapshotPayload{Order: o, Plan: p},
	}); err != nil {
		s.logger.Warn("记录排程快照失败", zap.Error(err))
	}
}

// RecordPacingSample 记录进度采样。
func (s *Service) RecordPacingSample(ctx context.Context, orderID string, report pacing.Report) {
	if err := s.Record(ctx, Event{
		Type:      EventPacingSample,
		OrderID:   orderID,
		Timestamp: time.Now().UTC(),
		Payload:   PacingSamplePayload{Report: report},
	}); err != nil {
		s.logger.Warn("记录进度采样失败", zap.Error(err))
	}
}

// RecordAdvisory 记录操作建议。
func (s *Service) RecordAdvisory(ctx context.Context, orderID string, advice advisor.Advice) {
	if err := s.Record(ctx, Event{
		Type:      EventAdvisory,
		OrderID:   orderID,
		Timestamp: time.Now().UTC(),
		Payload:   AdvisoryPayload{Advice: advice},
	}); err != nil {
		s.logger.Warn("记录操作建议失败", zap.Error(err))
	}
}

// RecordPerformance 记录绩效评估。
func (s *Service) RecordPerformance(ctx context.Context, orderID string, summary perf.Summary) {
	if err := s.Record(ctx, Event{
		Type:      EventPerformance,
		OrderID:   orderID,
		Timestamp: time.Now().UTC(),
		Payload:   PerformancePayload{Summary: summary},
	}); err != nil {
		s.logger.Warn("记录绩效评估失败", zap.Error(err))
	}
}

// RecordCommentary 记录大模型点评。
func (s *Service) RecordCommentary(ctx context.Context, orderID string, note string) {
	if err := s.Record(ctx, Event{
		Type:      EventCommentary,
		OrderID:   orderID,
		Timestamp: time.Now().UTC(),
		Payload:   CommentaryPayload{Note: note},
	}); err != nil {
		s.logger.Warn("记录点评失败", zap.Error(err))
	}
}

// RecordError 记录异常。
func (s *Service) RecordError(ctx context.Context, msg string, err error, ctxMap map[string]interface{}) {
	payload := ErrorPayload{
		Message: msg,
		Context: ctxMap,
	}
	if err != nil {
		payload.Error = err.Error()
	}
	if recErr := s.Record(ctx, Event{
		Type:      EventError,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}); recErr != nil {
		s.logger.Warn("记录异常事件失败", zap.Error(recErr))
	}
}
