package monitor

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"exec-pacer/internal/config"
	"exec-pacer/internal/pacing"
	"exec-pacer/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	st, err := store.NewSQLite(config.DatabaseConfig{
		InMemory:     true,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	svc, err := NewService(st, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestRecordAndListEvents(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.RecordPacingSample(ctx, "ord-1", pacing.Report{
		Accumulated: 450_000,
		Executed:    400_000,
		Delta:       -50_000,
		State:       pacing.StateBehind,
	})
	svc.RecordCommentary(ctx, "ord-2", "进度落后，建议上调参与率")
	svc.RecordError(ctx, "tick failed", context.DeadlineExceeded, map[string]interface{}{"order": "ord-1"})

	all, err := svc.ListEvents(ctx, "", "", 10)
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("listed %d events, want 3", len(all))
	}
	// 按写入时间倒序返回。
	if all[0].Type != EventError || all[2].Type != EventPacingSample {
		t.Errorf("unexpected ordering: first=%s last=%s", all[0].Type, all[2].Type)
	}
}

func TestListEvents_Filters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.RecordPacingSample(ctx, "ord-1", pacing.Report{State: pacing.StateOnTrack})
	svc.RecordPacingSample(ctx, "ord-2", pacing.Report{State: pacing.StateAhead})
	svc.RecordCommentary(ctx, "ord-1", "note")

	byType, err := svc.ListEvents(ctx, EventPacingSample, "", 10)
	if err != nil {
		t.Fatalf("ListEvents by type returned error: %v", err)
	}
	if len(byType) != 2 {
		t.Errorf("by type listed %d events, want 2", len(byType))
	}

	byOrder, err := svc.ListEvents(ctx, "", "ord-1", 10)
	if err != nil {
		t.Fatalf("ListEvents by order returned error: %v", err)
	}
	if len(byOrder) != 2 {
		t.Errorf("by order listed %d events, want 2", len(byOrder))
	}

	both, err := svc.ListEvents(ctx, EventPacingSample, "ord-1", 10)
	if err != nil {
		t.Fatalf("ListEvents by type+order returned error: %v", err)
	}
	if len(both) != 1 {
		t.Fatalf("by type+order listed %d events, want 1", len(both))
	}
	if both[0].OrderID != "ord-1" || both[0].Type != EventPacingSample {
		t.Errorf("filtered event = %s/%s", both[0].Type, both[0].OrderID)
	}
	if both[0].Timestamp.IsZero() {
		t.Error("stored timestamp should round-trip")
	}
}

func TestListEvents_LimitApplied(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.RecordCommentary(ctx, "ord-1", "note")
	}

	events, err := svc.ListEvents(ctx, "", "", 2)
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("listed %d events, want 2", len(events))
	}
}
