// Package export 将排程导出为 CSV，供操作员下载或归档。
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"exec-pacer/internal/plan"
)

// WritePlanCSV 把计划写成 CSV：逐切片一行，末尾附合计与竞价腿。
func WritePlanCSV(w io.Writer, o plan.Order, p plan.Plan) error {
	cw := csv.NewWriter(w)

	header := []string{"slice_start", "slice_end", "expected_volume", "max_allowed", "suggested_qty"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: 写入表头失败: %w", err)
	}

	for _, row := range p.Rows {
		maxAllowed := "unbounded"
		if row.Capped {
			maxAllowed = strconv.FormatInt(row.MaxAllowed, 10)
		}
		record := []string{
			row.Slice.Start.String(),
			row.Slice.End.String(),
			strconv.FormatFloat(row.ExpectedVolume, 'f', 0, 64),
			maxAllowed,
			strconv.FormatInt(row.Suggested, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: 写入切片行失败: %w", err)
		}
	}

	footer := [][]string{
		{"continuous_planned", "", "", "", strconv.FormatInt(p.ContinuousPlanned, 10)},
		{"auction_planned", "", "", "", strconv.FormatInt(p.AuctionPlanned, 10)},
		{"order_quantity", "", "", "", strconv.FormatInt(o.Quantity, 10)},
	}
	for _, record := range footer {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: 写入汇总行失败: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: 刷新输出失败: %w", err)
	}
	return nil
}
