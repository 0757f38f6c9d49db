package session

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, value string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(value)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q) returned error: %v", value, err)
	}
	return tod
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"09:30", 9*time.Hour + 30*time.Minute},
		{"9:30", 9*time.Hour + 30*time.Minute},
		{"00:00", 0},
		{"16:00", 16 * time.Hour},
		{"09:30:15", 9*time.Hour + 30*time.Minute + 15*time.Second},
	}
	for _, tc := range cases {
		got := mustParse(t, tc.input)
		if got.Duration() != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.input, got.Duration(), tc.want)
		}
	}

	for _, bad := range []string{"", "25:00", "09:61", "abc", "12"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("ParseTimeOfDay(%q) expected error", bad)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	if got := mustParse(t, "09:30").String(); got != "09:30" {
		t.Errorf("String() = %q, want 09:30", got)
	}
	if got := mustParse(t, "09:30:15").String(); got != "09:30:15" {
		t.Errorf("String() = %q, want 09:30:15", got)
	}
}

func TestFromClock(t *testing.T) {
	clock := time.Date(2026, 8, 31, 10, 45, 30, 0, time.UTC)
	got := FromClock(clock)
	want := 10*time.Hour + 45*time.Minute + 30*time.Second
	if got.Duration() != want {
		t.Errorf("FromClock = %v, want %v", got.Duration(), want)
	}
}

func TestSliceSession_EvenWindow(t *testing.T) {
	slices := SliceSession(mustParse(t, "09:30"), mustParse(t, "10:30"), 30)
	if len(slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(slices))
	}
	if slices[0].Start.String() != "09:30" || slices[0].End.String() != "10:00" {
		t.Errorf("first slice = [%s,%s), want [09:30,10:00)", slices[0].Start, slices[0].End)
	}
	if slices[1].Start.String() != "10:00" || slices[1].End.String() != "10:30" {
		t.Errorf("second slice = [%s,%s), want [10:00,10:30)", slices[1].Start, slices[1].End)
	}
}

func TestSliceSession_IrregularTail(t *testing.T) {
	end := mustParse(t, "10:20")
	slices := SliceSession(mustParse(t, "09:30"), end, 30)
	if len(slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(slices))
	}
	last := slices[len(slices)-1]
	if last.End != end {
		t.Errorf("last slice end = %s, want %s", last.End, end)
	}
	if last.Duration() != 20*time.Minute {
		t.Errorf("last slice duration = %v, want 20m", last.Duration())
	}
}

func TestSliceSession_ContiguousCoverage(t *testing.T) {
	start := mustParse(t, "09:00")
	end := mustParse(t, "16:17")
	slices := SliceSession(start, end, 7)

	if slices[0].Start != start {
		t.Fatalf("first slice start = %s, want %s", slices[0].Start, start)
	}
	for i := 1; i < len(slices); i++ {
		if slices[i].Start != slices[i-1].End {
			t.Errorf("slice %d not contiguous: start %s, previous end %s", i, slices[i].Start, slices[i-1].End)
		}
	}
	if last := slices[len(slices)-1]; last.End != end {
		t.Errorf("last slice end = %s, want %s", last.End, end)
	}
}

func TestSliceSession_DegenerateWindow(t *testing.T) {
	start := mustParse(t, "10:00")
	slices := SliceSession(start, mustParse(t, "09:00"), 30)
	if len(slices) != 1 {
		t.Fatalf("expected single degenerate slice, got %d", len(slices))
	}
	if slices[0].Duration() != 0 {
		t.Errorf("degenerate slice duration = %v, want 0", slices[0].Duration())
	}
	if slices[0].Start != start {
		t.Errorf("degenerate slice start = %s, want %s", slices[0].Start, start)
	}
}

func TestSliceSession_SingleSlice(t *testing.T) {
	slices := SliceSession(mustParse(t, "09:30"), mustParse(t, "10:30"), 60)
	if len(slices) != 1 {
		t.Fatalf("expected 1 slice, got %d", len(slices))
	}
	if slices[0].Minutes() != 60 {
		t.Errorf("slice minutes = %v, want 60", slices[0].Minutes())
	}
}
