package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "REBALANCER_"

// Load 加载配置: 默认值 -> 配置文件 (YAML 或 TOML, 按扩展名) -> 环境变量
// path 为空时只使用默认值和环境变量, 返回的配置尚未校验
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// .env 不存在时忽略
	_ = godotenv.Load()

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	return &cfg, nil
}

// decodeFile 按扩展名解析配置文件
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return fmt.Errorf("unsupported config file type: %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnvOverrides 使用 REBALANCER_* 环境变量覆盖配置
func applyEnvOverrides(cfg *Config) error {
	var env envOverrides

	// ── Server ──
	env.setInt(&cfg.Server.Port, EnvPrefix+"SERVER_PORT")
	env.setStringSlice(&cfg.Server.CORSOrigins, EnvPrefix+"SERVER_CORS_ORIGINS")
	env.setInt(&cfg.Server.RequestTimeoutSeconds, EnvPrefix+"SERVER_REQUEST_TIMEOUT_SECONDS")

	// ── Log ──
	env.setStr(&cfg.Log.Level, EnvPrefix+"LOG_LEVEL")
	env.setBool(&cfg.Log.Pretty, EnvPrefix+"LOG_PRETTY")

	// ── Rebalance ──
	env.setStr(&cfg.Rebalance.DefaultStrategy, EnvPrefix+"REBALANCE_DEFAULT_STRATEGY")
	env.setFloat64(&cfg.Rebalance.HoldThreshold, EnvPrefix+"REBALANCE_HOLD_THRESHOLD")
	env.setInt(&cfg.Rebalance.BatchConcurrency, EnvPrefix+"REBALANCE_BATCH_CONCURRENCY")

	// ── Costs ──
	env.setFloat64(&cfg.Costs.CommissionRate, EnvPrefix+"COSTS_COMMISSION_RATE")
	env.setFloat64(&cfg.Costs.MinCommission, EnvPrefix+"COSTS_MIN_COMMISSION")
	env.setFloat64(&cfg.Costs.SlippageRate, EnvPrefix+"COSTS_SLIPPAGE_RATE")

	// ── Output ──
	env.setStr(&cfg.Output.Format, EnvPrefix+"OUTPUT_FORMAT")
	env.setStr(&cfg.Output.Path, EnvPrefix+"OUTPUT_PATH")

	return errors.Join(env.errs...)
}

// envOverrides 仅在环境变量存在且非空时修改目标值, 解析失败的变量记录为错误
type envOverrides struct {
	errs []error
}

func (e *envOverrides) fail(key, value, kind string) {
	e.errs = append(e.errs, fmt.Errorf("%s=%q is not a valid %s", key, value, kind))
}

func (e *envOverrides) setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (e *envOverrides) setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, v, "integer")
			return
		}
		*dst = n
	}
}

func (e *envOverrides) setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(key, v, "number")
			return
		}
		*dst = f
	}
}

func (e *envOverrides) setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, v, "boolean")
			return
		}
		*dst = b
	}
}

func (e *envOverrides) setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		*dst = cleaned
	}
}
