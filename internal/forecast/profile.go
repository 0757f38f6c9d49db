// Package forecast 把操作员录入的历史分段成交量平滑为成交量预测。
// 输入完全来自人工维护的历史数字，不接入任何实时行情。
package forecast

import (
	"strings"

	talib "github.com/markcheno/go-talib"
)

// Method 表示平滑方法。
type Method string

const (
	MethodSMA Method = "sma"
	MethodEMA Method = "ema"
)

// ParseMethod 宽松解析方法名，未知值回落到 SMA。
func ParseMethod(value string) Method {
	if Method(strings.ToLower(strings.TrimSpace(value))) == MethodEMA {
		return MethodEMA
	}
	return MethodSMA
}

// Profiler 按配置的方法与窗口对历史分段成交量做平滑。
type Profiler struct {
	method Method
	window int
}

// NewProfiler 创建 Profiler，窗口小于 2 时按 2 处理。
func NewProfiler(method Method, window int) *Profiler {
	if window < 2 {
		window = 2
	}
	return &Profiler{method: method, window: window}
}

// Smooth 对历史序列做移动平均，返回与输入等长的平滑序列。
// 样本数不足一个窗口时原样返回副本。
func (p *Profiler) Smooth(history []float64) []float64 {
	cleaned := make([]float64, len(history))
	for i, v := range history {
		if v > 0 {
			cleaned[i] = v
		}
	}
	if len(cleaned) < p.window {
		return cleaned
	}

	switch p.method {
	case MethodEMA:
		return talib.Ema(cleaned, p.window)
	default:
		return talib.Sma(cleaned, p.window)
	}
}

// ExpectedVolume 从历史分段成交量推导连续竞价时段的预期总量：
// 取平滑序列末尾 n 个分段值求和。n 为本次排程的切片数。
// 历史不足时以可用部分估算，完全无历史时返回 0。
func (p *Profiler) ExpectedVolume(history []float64, n int) float64 {
	if n <= 0 || len(history) == 0 {
		return 0
	}

	smoothed := p.Smooth(history)
	start := len(smoothed) - n
	if start < 0 {
		start = 0
	}

	var total float64
	for _, v := range smoothed[start:] {
		if v > 0 {
			total += v
		}
	}
	return total
}
