package export

import (
	"bytes"
	"strings"
	"testing"

	"exec-pacer/internal/curve"
	"exec-pacer/internal/plan"
	"exec-pacer/internal/session"
)

func mustTime(t *testing.T, value string) session.TimeOfDay {
	t.Helper()
	tod, err := session.ParseTimeOfDay(value)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q) returned error: %v", value, err)
	}
	return tod
}

func TestWritePlanCSV(t *testing.T) {
	o := plan.Order{
		Side:                     plan.SideBuy,
		Quantity:                 1_000,
		ExecMode:                 plan.ExecTimeSliced,
		CapMode:                  plan.CapNone,
		SessionStart:             mustTime(t, "10:00"),
		SessionEnd:               mustTime(t, "11:00"),
		IntervalMinutes:          30,
		Curve:                    curve.Equal,
		ExpectedContinuousVolume: 2_000,
	}
	p := plan.Build(o)

	var buf bytes.Buffer
	if err := WritePlanCSV(&buf, o, p); err != nil {
		t.Fatalf("WritePlanCSV returned error: %v", err)
	}

	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"slice_start,slice_end,expected_volume,max_allowed,suggested_qty",
		"10:00,10:30,1000,unbounded,500",
		"10:30,11:00,1000,unbounded,500",
		"continuous_planned,,,,1000",
		"auction_planned,,,,0",
		"order_quantity,,,,1000",
	}

	if len(got) != len(want) {
		t.Fatalf("csv has %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWritePlanCSV_CappedRowShowsLimit(t *testing.T) {
	o := plan.Order{
		Side:                     plan.SideBuy,
		Quantity:                 1_000,
		ExecMode:                 plan.ExecTimeSliced,
		CapMode:                  plan.CapPercentOfVolume,
		MaxParticipationPct:      10,
		SessionStart:             mustTime(t, "10:00"),
		SessionEnd:               mustTime(t, "10:30"),
		IntervalMinutes:          30,
		Curve:                    curve.Equal,
		ExpectedContinuousVolume: 2_000,
	}
	p := plan.Build(o)

	var buf bytes.Buffer
	if err := WritePlanCSV(&buf, o, p); err != nil {
		t.Fatalf("WritePlanCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if want := "10:00,10:30,2000,200,200"; lines[1] != want {
		t.Errorf("capped row = %q, want %q", lines[1], want)
	}
}
