package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"exec-pacer/internal/export"
	"exec-pacer/internal/monitor"
	"exec-pacer/internal/session"
)

// fillRequest 为操作员回报的累计成交，均为绝对值而非增量。
type fillRequest struct {
	ExecutedQty      int64   `json:"executed_qty"`
	ExecutedNotional float64 `json:"executed_notional"`
}

// newMonitorMux 组装只读快照接口与成交回报入口。这一层负责向
// 核心注入挂钟采样与人工数字，核心自身不读时钟、不碰网络。
func newMonitorMux(orch *orchestrator, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		now := session.FromClock(time.Now())
		results := make([]interface{}, 0, len(orch.orders))
		for _, rt := range orch.orders {
			result := orch.evaluate(rt, now)
			results = append(results, map[string]interface{}{
				"order":   result.order,
				"pacing":  result.report,
				"advice":  result.advice,
				"summary": result.summary,
			})
		}
		writeJSON(w, results, logger)
	})

	mux.HandleFunc("GET /orders/{id}/plan", func(w http.ResponseWriter, r *http.Request) {
		rt, ok := orch.findOrder(r.PathValue("id"))
		if !ok {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		result := orch.evaluate(rt, session.FromClock(time.Now()))
		writeJSON(w, map[string]interface{}{
			"order":   result.order,
			"plan":    result.plan,
			"pacing":  result.report,
			"advice":  result.advice,
			"summary": result.summary,
		}, logger)
	})

	mux.HandleFunc("GET /orders/{id}/plan.csv", func(w http.ResponseWriter, r *http.Request) {
		rt, ok := orch.findOrder(r.PathValue("id"))
		if !ok {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		result := orch.evaluate(rt, session.FromClock(time.Now()))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-plan.csv", result.order.ID))
		if err := export.WritePlanCSV(w, result.order, result.plan); err != nil {
			logger.Warn("导出计划CSV失败", zap.Error(err))
		}
	})

	mux.HandleFunc("POST /orders/{id}/fills", func(w http.ResponseWriter, r *http.Request) {
		rt, ok := orch.findOrder(r.PathValue("id"))
		if !ok {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}

		var req fillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
			return
		}
		if req.ExecutedQty < 0 || req.ExecutedNotional < 0 {
			http.Error(w, "executed_qty and executed_notional must be non-negative", http.StatusBadRequest)
			return
		}

		rt.ApplyFill(req.ExecutedQty, req.ExecutedNotional)
		logger.Info("成交进度已更新",
			zap.String("order", r.PathValue("id")),
			zap.Int64("executed_qty", req.ExecutedQty),
			zap.Float64("executed_notional", req.ExecutedNotional),
		)
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit := 200
		if qs := q.Get("limit"); qs != "" {
			if v, err := strconv.Atoi(qs); err == nil && v > 0 {
				if v > 1000 {
					v = 1000
				}
				limit = v
			}
		}

		eventType := monitor.EventType("")
		if typ := strings.TrimSpace(q.Get("type")); typ != "" {
			eventType = monitor.EventType(strings.ToLower(typ))
		}

		events, err := orch.monitor.ListEvents(r.Context(), eventType, q.Get("order"), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, events, logger)
	})

	mux.Handle("GET /metrics", orch.metrics.Handler())

	return mux
}

// startMonitorServer 在指定端口启动监控服务，随上下文取消优雅退出。
func startMonitorServer(ctx context.Context, orch *orchestrator, port int, logger *zap.Logger) {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{Addr: addr, Handler: newMonitorMux(orch, logger)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
			logger.Warn("关闭监控服务失败", zap.Error(err))
		}
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("监控服务异常", zap.Error(err))
		}
	}()

	logger.Info("监控接口已启动", zap.String("addr", addr))
}

func writeJSON(w http.ResponseWriter, payload interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("写入监控响应失败", zap.Error(err))
	}
}
