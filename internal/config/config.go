package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsxjacky/bond-rebalancer/internal/cost"
	"github.com/opsxjacky/bond-rebalancer/internal/engine"
	"github.com/opsxjacky/bond-rebalancer/internal/trade"
	"github.com/opsxjacky/bond-rebalancer/pkg/logger"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// Config 配置文件结构
type Config struct {
	Server    ServerSection    `yaml:"server" toml:"server"`
	Log       LogSection       `yaml:"log" toml:"log"`
	Rebalance RebalanceSection `yaml:"rebalance" toml:"rebalance"`
	Costs     CostsSection     `yaml:"costs" toml:"costs"`
	Output    OutputSection    `yaml:"output" toml:"output"`
}

// ServerSection HTTP服务配置
type ServerSection struct {
	Port                  int      `yaml:"port" toml:"port"`
	CORSOrigins           []string `yaml:"cors_origins" toml:"cors_origins"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`
}

// LogSection 日志配置
type LogSection struct {
	Level  string `yaml:"level" toml:"level"`
	Pretty bool   `yaml:"pretty" toml:"pretty"`
}

// RebalanceSection 再平衡配置
type RebalanceSection struct {
	DefaultStrategy  string  `yaml:"default_strategy" toml:"default_strategy"`
	HoldThreshold    float64 `yaml:"hold_threshold" toml:"hold_threshold"`
	BatchConcurrency int     `yaml:"batch_concurrency" toml:"batch_concurrency"`
}

// CostsSection 成本配置
type CostsSection struct {
	CommissionRate float64 `yaml:"commission_rate" toml:"commission_rate"`
	MinCommission  float64 `yaml:"min_commission" toml:"min_commission"`
	SlippageRate   float64 `yaml:"slippage_rate" toml:"slippage_rate"`
}

// OutputSection 输出配置
type OutputSection struct {
	Format string `yaml:"format" toml:"format"`
	Path   string `yaml:"path" toml:"path"`
}

// Defaults 返回默认配置
func Defaults() Config {
	return Config{
		Server: ServerSection{
			Port:                  8000,
			CORSOrigins:           []string{"*"},
			RequestTimeoutSeconds: 30,
		},
		Log: LogSection{
			Level: "info",
		},
		Rebalance: RebalanceSection{
			DefaultStrategy:  string(types.DefaultStrategy),
			HoldThreshold:    trade.DefaultHoldThreshold,
			BatchConcurrency: engine.DefaultConcurrency,
		},
		Output: OutputSection{
			Format: "table",
		},
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("server.request_timeout_seconds must be >= 0")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if !types.StrategyType(c.Rebalance.DefaultStrategy).Valid() {
		return fmt.Errorf("rebalance.default_strategy: unknown strategy %q", c.Rebalance.DefaultStrategy)
	}
	if c.Rebalance.HoldThreshold < 0 {
		return fmt.Errorf("rebalance.hold_threshold must be >= 0")
	}
	if c.Rebalance.BatchConcurrency < 1 {
		return fmt.Errorf("rebalance.batch_concurrency must be >= 1")
	}
	if c.Costs.CommissionRate < 0 || c.Costs.MinCommission < 0 || c.Costs.SlippageRate < 0 {
		return fmt.Errorf("costs must be non-negative")
	}
	switch c.Output.Format {
	case "table", "json":
	default:
		return fmt.Errorf("output.format must be table or json, got %q", c.Output.Format)
	}
	return nil
}

// ToCostConfig 转换为成本配置
func (c *Config) ToCostConfig() types.CostConfig {
	return types.CostConfig{
		CommissionRate: c.Costs.CommissionRate,
		MinCommission:  c.Costs.MinCommission,
		SlippageRate:   c.Costs.SlippageRate,
	}
}

// ToEngineOptions 转换为引擎配置
func (c *Config) ToEngineOptions(log zerolog.Logger) engine.Options {
	return engine.Options{
		HoldThreshold: c.Rebalance.HoldThreshold,
		CostModel:     cost.NewDefaultCostModel(c.ToCostConfig()),
		Concurrency:   c.Rebalance.BatchConcurrency,
		Logger:        log,
	}
}

// ToLoggerConfig 转换为日志配置
func (c *Config) ToLoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
	}
}

// DefaultStrategy 请求未指定策略时使用的策略
func (c *Config) DefaultStrategy() types.StrategyType {
	return types.StrategyType(c.Rebalance.DefaultStrategy)
}

// RequestTimeout 单个请求超时
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// GetOutputPath 获取输出路径
func (c *Config) GetOutputPath() string {
	return c.Output.Path
}
