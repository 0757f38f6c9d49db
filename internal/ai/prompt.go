package ai

import (
	"bytes"
	"fmt"
	"text/template"

	"exec-pacer/internal/advisor"
	"exec-pacer/internal/pacing"
	"exec-pacer/internal/perf"
	"exec-pacer/internal/plan"
)

const commentaryTemplate = `
你是一个机构交易执行台的资深交易员。下面是一张母单当前的排程与执行快照，请用中文写一段不超过120字的盘中点评，指出进度状况、滑点表现与下一步应关注的风险，语气专业克制，不要复述原始数字表格。

母单：
- 代码: {{ .Order.Symbol }}
- 方向: {{ .Order.Side }}
- 总量: {{ .Order.Quantity }} 股，已成交 {{ .Order.ExecutedQuantity }} 股
- 执行风格: {{ .Order.ExecMode }}，参与率上限 {{ printf "%.1f" .Order.MaxParticipationPct }}%

排程：连续竞价计划 {{ .Plan.ContinuousPlanned }} 股，集合竞价计划 {{ .Plan.AuctionPlanned }} 股。

进度：截至 {{ .Report.Now }} 应完成 {{ .Report.Accumulated }} 股，偏差 {{ .Report.Delta }} 股，状态 {{ .Report.State }}。

绩效：滑点 {{ printf "%.1f" .Summary.SlippageBps }} bps（正值代表跑赢市场）。

建议引擎输出：冲击分 {{ .Advice.ImpactScore }}/10，所需参与率 {{ printf "%.2f" .Advice.RequiredParticipationRate }}，动作 {{ .Advice.Action }}。

请直接输出点评正文，不要任何前缀或格式标记。
`

var tmpl = template.Must(template.New("commentary").Parse(commentaryTemplate))

// PromptContext 用于渲染提示词。
type PromptContext struct {
	Order   plan.Order
	Plan    plan.Plan
	Report  pacing.Report
	Summary perf.Summary
	Advice  advisor.Advice
}

// BuildPrompt 渲染点评提示词。
func BuildPrompt(ctx PromptContext) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("ai: 渲染提示词失败: %w", err)
	}
	return buf.String(), nil
}
