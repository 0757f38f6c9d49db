package forecast

import (
	"math"
	"testing"
)

func TestParseMethod(t *testing.T) {
	cases := []struct {
		in   string
		want Method
	}{
		{"sma", MethodSMA},
		{"ema", MethodEMA},
		{" EMA ", MethodEMA},
		{"wilder", MethodSMA},
		{"", MethodSMA},
	}
	for _, tc := range cases {
		if got := ParseMethod(tc.in); got != tc.want {
			t.Errorf("ParseMethod(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestSmooth_SMA(t *testing.T) {
	p := NewProfiler(MethodSMA, 2)

	got := p.Smooth([]float64{10, 20, 30, 40})
	want := []float64{0, 15, 25, 35}

	if len(got) != len(want) {
		t.Fatalf("smoothed length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("smoothed[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestSmooth_ShortHistoryReturnedAsIs(t *testing.T) {
	p := NewProfiler(MethodSMA, 5)

	history := []float64{100, -5, 200}
	got := p.Smooth(history)

	// 样本不足一个窗口时只做负值清洗，不做平滑。
	want := []float64{100, 0, 200}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("smoothed[%d] = %f, want %f", i, got[i], want[i])
		}
	}
	if &got[0] == &history[0] {
		t.Error("Smooth should return a copy, not the input slice")
	}
}

func TestExpectedVolume(t *testing.T) {
	p := NewProfiler(MethodSMA, 2)
	history := []float64{10, 20, 30, 40}

	// 平滑后为 [0,15,25,35]，取末尾 2 段。
	if got := p.ExpectedVolume(history, 2); math.Abs(got-60) > 1e-9 {
		t.Errorf("ExpectedVolume(n=2) = %f, want 60", got)
	}
	// n 超过历史长度时用全部正值分段估算。
	if got := p.ExpectedVolume(history, 10); math.Abs(got-75) > 1e-9 {
		t.Errorf("ExpectedVolume(n=10) = %f, want 75", got)
	}
	if got := p.ExpectedVolume(nil, 3); got != 0 {
		t.Errorf("ExpectedVolume(no history) = %f, want 0", got)
	}
	if got := p.ExpectedVolume(history, 0); got != 0 {
		t.Errorf("ExpectedVolume(n=0) = %f, want 0", got)
	}
}

func TestNewProfiler_WindowFloor(t *testing.T) {
	p := NewProfiler(MethodSMA, 0)
	if p.window != 2 {
		t.Errorf("window = %d, want floor 2", p.window)
	}
}
