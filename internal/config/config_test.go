package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
app:
  environment: production
orders:
  - id: ord-1
    symbol: "700.HK"
    venue: HKEX
    side: buy
    quantity: 1000000
    exec_mode: time_sliced
    cap_mode: percent_of_volume
    max_participation_pct: 10
    reserve_for_auction_pct: 10
    session_start: "09:30"
    session_end: "16:00"
    interval_minutes: 30
    curve: ucurve
    expected_continuous_volume: 2000000
    expected_auction_volume: 500000
    volume_history: [100, 200, 300]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoad_Sample(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Environment != "production" {
		t.Errorf("environment = %q, want production", cfg.App.Environment)
	}
	if len(cfg.Orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(cfg.Orders))
	}

	o := cfg.Orders[0]
	if o.ID != "ord-1" || o.Symbol != "700.HK" || o.Venue != "HKEX" {
		t.Errorf("order identity fields = %q/%q/%q", o.ID, o.Symbol, o.Venue)
	}
	if o.Quantity != 1_000_000 {
		t.Errorf("quantity = %d, want 1000000", o.Quantity)
	}
	if got := o.SessionStart.String(); got != "09:30" {
		t.Errorf("session_start = %s, want 09:30", got)
	}
	if got := o.SessionEnd.String(); got != "16:00" {
		t.Errorf("session_end = %s, want 16:00", got)
	}
	if len(o.VolumeHistory) != 3 || o.VolumeHistory[2] != 300 {
		t.Errorf("volume_history = %v", o.VolumeHistory)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Pacing.DeviationBand != 0.05 {
		t.Errorf("deviation_band = %f, want 0.05", cfg.Pacing.DeviationBand)
	}
	if cfg.Forecast.Method != "sma" || cfg.Forecast.Window != 5 {
		t.Errorf("forecast defaults = %s/%d", cfg.Forecast.Method, cfg.Forecast.Window)
	}
	if cfg.OpenAI.Enabled() {
		t.Error("openai should be disabled without api_key")
	}
	if cfg.OpenAI.Timeout != 15*time.Second {
		t.Errorf("openai.timeout = %s, want 15s", cfg.OpenAI.Timeout)
	}
	if !cfg.Monitor.Enabled || cfg.Monitor.Port != 8787 {
		t.Errorf("monitor defaults = %v/%d", cfg.Monitor.Enabled, cfg.Monitor.Port)
	}
	if cfg.Database.Path != "data/exec_pacer.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Scheduler.RefreshInterval != 5*time.Second {
		t.Errorf("refresh_interval = %s, want 5s", cfg.Scheduler.RefreshInterval)
	}
	if cfg.Scheduler.CommentaryInterval != 15*time.Minute {
		t.Errorf("commentary_interval = %s, want 15m", cfg.Scheduler.CommentaryInterval)
	}
}

func TestLoad_InvalidOrderRejected(t *testing.T) {
	broken := strings.Replace(sampleConfig, "side: buy", "side: short", 1)
	broken = strings.Replace(broken, "exec_mode: time_sliced", "exec_mode: vwap", 1)

	_, err := Load(writeConfig(t, broken))
	if err == nil {
		t.Fatal("Load should reject invalid side and exec_mode")
	}
	if !strings.Contains(err.Error(), "orders[0].side") {
		t.Errorf("error should mention orders[0].side: %v", err)
	}
	if !strings.Contains(err.Error(), "orders[0].exec_mode") {
		t.Errorf("error should mention orders[0].exec_mode: %v", err)
	}
}

func TestLoad_MissingOrders(t *testing.T) {
	_, err := Load(writeConfig(t, "app:\n  environment: production\n"))
	if err == nil {
		t.Fatal("Load should require at least one order")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load should fail for a missing config file")
	}
}

func TestOrderConfig_SessionOrVenueRequired(t *testing.T) {
	o := OrderConfig{Side: "buy", ExecMode: "time_sliced"}
	if err := o.validate(0); err == nil {
		t.Fatal("validate should require a session window or a known venue")
	}

	o.Venue = "HKEX"
	if err := o.validate(0); err != nil {
		t.Errorf("validate with venue returned error: %v", err)
	}
}

func TestLoad_BadTimeOfDayRejected(t *testing.T) {
	broken := strings.Replace(sampleConfig, `session_start: "09:30"`, `session_start: "25:99"`, 1)
	if _, err := Load(writeConfig(t, broken)); err == nil {
		t.Fatal("Load should reject an out-of-range session_start")
	}
}
