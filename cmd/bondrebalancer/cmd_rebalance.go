package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/bond-rebalancer/internal/data"
	"github.com/opsxjacky/bond-rebalancer/internal/engine"
	"github.com/opsxjacky/bond-rebalancer/internal/portfolio"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// rebalanceCmd represents the rebalance command
var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Compute rebalancing trades for a portfolio file",
	Long: `Load a portfolio from a JSON, YAML or CSV file and print the recommended
trades. Flags override the corresponding portfolio fields.

Examples:
  bondrebalancer rebalance -f portfolio.json
  bondrebalancer rebalance -f bonds.csv --strategy laddered --format json
  bondrebalancer rebalance -f portfolio.yaml --target-duration 4.5 --as-of 2024-01-01 --output result.json`,
	RunE: runRebalance,
}

// Rebalance command flags
var (
	rebalanceFile           string
	rebalanceStrategy       string
	rebalanceTargetDuration float64
	rebalanceAsOf           string
	rebalanceFormat         string
	rebalanceOutput         string
)

func init() {
	rootCmd.AddCommand(rebalanceCmd)

	rebalanceCmd.Flags().StringVarP(&rebalanceFile, "file", "f", "", "Portfolio file (.json, .yaml, .yml, .csv)")
	rebalanceCmd.Flags().StringVar(&rebalanceStrategy, "strategy", "", "Weighting strategy: equal_weight, duration_target, yield_optimization, laddered")
	rebalanceCmd.Flags().Float64Var(&rebalanceTargetDuration, "target-duration", 0, "Target duration in years (duration_target)")
	rebalanceCmd.Flags().StringVar(&rebalanceAsOf, "as-of", "", "Evaluation date YYYY-MM-DD (default: today)")
	rebalanceCmd.Flags().StringVar(&rebalanceFormat, "format", "", "Output format: table, json (default from config)")
	rebalanceCmd.Flags().StringVar(&rebalanceOutput, "output", "", "Also write the JSON result to this path")
	_ = rebalanceCmd.MarkFlagRequired("file")
}

func runRebalance(cmd *cobra.Command, args []string) error {
	p, err := data.LoadFile(rebalanceFile)
	if err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}
	if err := applyRebalanceFlags(cmd, &p); err != nil {
		return err
	}
	if err := portfolio.ValidateFields(p); err != nil {
		return err
	}

	e := engine.New(appConfig.ToEngineOptions(appLog))
	result, err := e.Rebalance(p, portfolio.EvaluationDate(p, time.Now()))
	if err != nil {
		return err
	}

	appLog.Info().
		Str("portfolio_id", result.PortfolioID).
		Str("strategy", string(result.StrategyUsed)).
		Int("trades", result.TotalTrades).
		Msg("Rebalance complete")

	output := rebalanceOutput
	if output == "" {
		output = appConfig.GetOutputPath()
	}
	if output != "" {
		if err := engine.ExportResult(result, output); err != nil {
			return fmt.Errorf("failed to export result: %w", err)
		}
		appLog.Info().Str("path", output).Msg("Result exported")
	}

	format := rebalanceFormat
	if format == "" {
		format = appConfig.Output.Format
	}
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "table":
		return engine.WriteSummary(cmd.OutOrStdout(), result)
	default:
		return fmt.Errorf("unsupported format %q (use table or json)", format)
	}
}

// applyRebalanceFlags 命令行参数覆盖文件中的组合字段
func applyRebalanceFlags(cmd *cobra.Command, p *types.Portfolio) error {
	if rebalanceStrategy != "" {
		p.Strategy = types.StrategyType(rebalanceStrategy)
	}
	if p.Strategy == "" {
		p.Strategy = appConfig.DefaultStrategy()
	}
	if cmd.Flags().Changed("target-duration") {
		target := rebalanceTargetDuration
		p.TargetDuration = &target
	}
	if rebalanceAsOf != "" {
		d, err := types.ParseDate(rebalanceAsOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of: %w", err)
		}
		p.AsOf = &d
	}
	return nil
}
