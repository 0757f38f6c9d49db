package session

import (
	"fmt"
	"time"
)

// TimeOfDay 表示自当日零点起的偏移量，用于描述日内交易时段。
type TimeOfDay time.Duration

// ParseTimeOfDay 解析 "HH:MM" 或 "HH:MM:SS" 格式的时刻字符串。
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	var hour, minute, sec int
	if n, err := fmt.Sscanf(value, "%d:%d:%d", &hour, &minute, &sec); err != nil || n < 2 {
		sec = 0
		if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
			return 0, fmt.Errorf("session: 无法解析时刻 %q: %w", value, err)
		}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("session: 时刻 %q 超出有效范围", value)
	}
	d := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(sec)*time.Second
	return TimeOfDay(d), nil
}

// FromClock 将挂钟时间换算为当日时刻。核心算法自身从不读取时钟，
// 由外层在每次采样时调用本函数注入。
func FromClock(t time.Time) TimeOfDay {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return TimeOfDay(t.Sub(midnight))
}

// Duration 返回对应的 time.Duration。
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t)
}

// Minutes 返回自零点起的分钟数。
func (t TimeOfDay) Minutes() float64 {
	return time.Duration(t).Minutes()
}

// String 输出 "HH:MM" 或带秒的 "HH:MM:SS"。
func (t TimeOfDay) String() string {
	d := time.Duration(t)
	hour := int(d / time.Hour)
	minute := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)
	if sec == 0 {
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, sec)
}
