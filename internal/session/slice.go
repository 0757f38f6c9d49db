package session

import (
	"math"
	"time"
)

// Slice 表示连续竞价时段内的一个切片，区间为 [Start, End)。
type Slice struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Duration 返回切片长度，最后一个切片可能短于标准步长。
func (s Slice) Duration() time.Duration {
	d := s.End.Duration() - s.Start.Duration()
	if d < 0 {
		return 0
	}
	return d
}

// Minutes 返回切片长度的分钟数。
func (s Slice) Minutes() float64 {
	return s.Duration().Minutes()
}

// Contains 判断时刻 now 是否落在切片区间内。
func (s Slice) Contains(now TimeOfDay) bool {
	return now >= s.Start && now < s.End
}

// SliceSession 将 [start, end) 时段按 stepMinutes 切分为有序切片。
// 切片首尾相接且恰好覆盖整个时段：最后一个切片的结束时刻强制等于 end，
// 吸收不整除的余量。end 早于 start 时视为零长度时段，仍返回单个切片。
func SliceSession(start, end TimeOfDay, stepMinutes int) []Slice {
	if stepMinutes <= 0 {
		stepMinutes = 1
	}

	total := end.Duration() - start.Duration()
	if total < 0 {
		total = 0
	}

	step := time.Duration(stepMinutes) * time.Minute
	count := int(math.Ceil(float64(total) / float64(step)))
	if count < 1 {
		count = 1
	}

	slices := make([]Slice, count)
	for i := 0; i < count; i++ {
		sliceStart := start.Duration() + time.Duration(i)*step
		sliceEnd := sliceStart + step
		if i == count-1 || sliceEnd > start.Duration()+total {
			sliceEnd = start.Duration() + total
		}
		slices[i] = Slice{Start: TimeOfDay(sliceStart), End: TimeOfDay(sliceEnd)}
	}

	return slices
}
