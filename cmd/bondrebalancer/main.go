package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opsxjacky/bond-rebalancer/internal/config"
	"github.com/opsxjacky/bond-rebalancer/pkg/logger"
)

var (
	configPath string
	logLevel   string

	// 由 PersistentPreRunE 初始化
	appConfig *config.Config
	appLog    zerolog.Logger
)

// rootCmd is the base command for the bond rebalancer CLI
var rootCmd = &cobra.Command{
	Use:   "bondrebalancer",
	Short: "Bond portfolio rebalancer",
	Long: `bondrebalancer computes target weights for a bond portfolio under a
chosen weighting strategy and turns them into buy/sell/hold recommendations.

It runs once against a portfolio file or serves the same calculation over HTTP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// setup 加载配置并初始化日志
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	lc := cfg.ToLoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	appConfig = cfg
	appLog = logger.New(lc)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
