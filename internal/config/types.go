package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"exec-pacer/internal/curve"
	"exec-pacer/internal/plan"
	"exec-pacer/internal/session"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Orders    []OrderConfig   `mapstructure:"orders"`
	Pacing    PacingConfig    `mapstructure:"pacing"`
	Forecast  ForecastConfig  `mapstructure:"forecast"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// OrderConfig 描述一条待排程的母单。数值字段均为操作员录入，
// 外层负责解析与校验，排程核心只接收干净的数字。
type OrderConfig struct {
	ID     string `mapstructure:"id"`
	Symbol string `mapstructure:"symbol"`
	Venue  string `mapstructure:"venue"`

	Side     string `mapstructure:"side"`
	Quantity int64  `mapstructure:"quantity"`
	ExecMode string `mapstructure:"exec_mode"`

	CapMode              string  `mapstructure:"cap_mode"`
	MaxParticipationPct  float64 `mapstructure:"max_participation_pct"`
	ReserveForAuctionPct float64 `mapstructure:"reserve_for_auction_pct"`
	DeferCompletion      bool    `mapstructure:"defer_completion"`

	SessionStart    session.TimeOfDay `mapstructure:"session_start"`
	SessionEnd      session.TimeOfDay `mapstructure:"session_end"`
	IntervalMinutes int               `mapstructure:"interval_minutes"`
	Curve           string            `mapstructure:"curve"`

	CurrentMarketVolume      float64 `mapstructure:"current_market_volume"`
	ExpectedContinuousVolume float64 `mapstructure:"expected_continuous_volume"`
	ExpectedAuctionVolume    float64 `mapstructure:"expected_auction_volume"`

	MarketTurnover   float64 `mapstructure:"market_turnover"`
	ManualMarketVWAP float64 `mapstructure:"manual_market_vwap"`

	ExecutedQuantity int64   `mapstructure:"executed_qty"`
	ExecutedNotional float64 `mapstructure:"executed_notional"`

	// VolumeHistory 为人工维护的历史分段成交量，供预测模块平滑。
	VolumeHistory []float64 `mapstructure:"volume_history"`
}

// PacingConfig 控制进度分类的偏差带宽。
type PacingConfig struct {
	DeviationBand float64 `mapstructure:"deviation_band"`
}

// ForecastConfig 控制成交量预测。
type ForecastConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"`
	Window  int    `mapstructure:"window"`
}

// OpenAIConfig 描述大模型调用参数，api_key 为空时功能关闭。
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Enabled 返回是否启用大模型点评。
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

// MonitorConfig 控制监控 HTTP 服务。
type MonitorConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// DatabaseConfig 管理数据库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// SchedulerConfig 控制采样节奏。
type SchedulerConfig struct {
	RefreshInterval    time.Duration `mapstructure:"refresh_interval"`
	CommentaryInterval time.Duration `mapstructure:"commentary_interval"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if len(c.Orders) == 0 {
		err = multierr.Append(err, errors.New("orders 至少配置一条母单"))
	}
	for i, o := range c.Orders {
		err = multierr.Append(err, o.validate(i))
	}
	if c.Pacing.DeviationBand <= 0 || c.Pacing.DeviationBand >= 1 {
		err = multierr.Append(err, errors.New("pacing.deviation_band 必须位于(0,1)"))
	}
	if c.Forecast.Enabled && c.Forecast.Window < 2 {
		err = multierr.Append(err, errors.New("forecast.window 必须不小于2"))
	}
	if c.OpenAI.Enabled() {
		if c.OpenAI.Model == "" {
			err = multierr.Append(err, errors.New("openai.model 不能为空"))
		}
		if c.OpenAI.Timeout <= 0 {
			err = multierr.Append(err, errors.New("openai.timeout 必须大于0"))
		}
	}
	if c.Monitor.Enabled && (c.Monitor.Port <= 0 || c.Monitor.Port > 65535) {
		err = multierr.Append(err, errors.New("monitor.port 必须位于(0,65535]"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}
	if c.Scheduler.RefreshInterval <= 0 {
		err = multierr.Append(err, errors.New("scheduler.refresh_interval 必须大于0"))
	}
	if c.Scheduler.CommentaryInterval < 0 {
		err = multierr.Append(err, errors.New("scheduler.commentary_interval 不能为负"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}

func (o OrderConfig) validate(index int) error {
	var err error

	if _, ok := plan.ParseSide(o.Side); !ok {
		err = multierr.Append(err, fmt.Errorf("orders[%d].side 取值非法: %q", index, o.Side))
	}
	if o.Quantity < 0 {
		err = multierr.Append(err, fmt.Errorf("orders[%d].quantity 不能为负", index))
	}
	if !plan.ExecMode(o.ExecMode).Valid() {
		err = multierr.Append(err, fmt.Errorf("orders[%d].exec_mode 取值非法: %q", index, o.ExecMode))
	}
	if o.CapMode != "" && !plan.CapMode(o.CapMode).Valid() {
		err = multierr.Append(err, fmt.Errorf("orders[%d].cap_mode 取值非法: %q", index, o.CapMode))
	}
	if o.Curve != "" && !curve.Shape(o.Curve).Valid() {
		err = multierr.Append(err, fmt.Errorf("orders[%d].curve 取值非法: %q", index, o.Curve))
	}
	if o.Venue == "" && o.SessionEnd <= o.SessionStart {
		err = multierr.Append(err, fmt.Errorf("orders[%d] 需要有效时段或可识别的 venue", index))
	}

	return err
}
