// Package curve 生成每个时段切片的目标权重分布。
package curve

import "math"

// Shape 表示权重曲线形态。
type Shape string

const (
	// Equal 为每个切片分配相同权重。
	Equal Shape = "equal"
	// UCurve 以时段中点为峰值、向两端递减的对称曲线。
	// 公式沿用既有实现：w_i ∝ 0.6 + 0.8*(1 − |i−mid|/mid)。
	// 注意该形态在中间切片最重，并非交易惯例中开收盘偏重的 U 形，
	// 是否应改为开收盘偏重留待产品侧确认，这里保持原有行为。
	UCurve Shape = "ucurve"
)

// Valid 判断形态取值是否合法。
func (s Shape) Valid() bool {
	return s == Equal || s == UCurve
}

// Weights 返回 n 个非负权重，总和为 1（浮点容差内）。
// n 小于等于 0 时返回 nil。未知形态按 Equal 处理。
func Weights(shape Shape, n int) []float64 {
	if n <= 0 {
		return nil
	}

	weights := make([]float64, n)

	switch shape {
	case UCurve:
		mid := float64(n-1) / 2
		if n == 1 {
			mid = 1
		}
		sum := 0.0
		for i := 0; i < n; i++ {
			w := 0.6 + 0.8*(1-math.Abs(float64(i)-mid)/mid)
			weights[i] = w
			sum += w
		}
		for i := range weights {
			weights[i] /= sum
		}
	default:
		for i := range weights {
			weights[i] = 1 / float64(n)
		}
	}

	return weights
}
