package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// ExportResult 导出结果到JSON文件
func ExportResult(result types.RebalanceResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// WriteSummary 输出再平衡摘要
func WriteSummary(w io.Writer, result types.RebalanceResult) error {
	var b strings.Builder

	b.WriteString("\n========== Rebalance Summary ==========\n")
	fmt.Fprintf(&b, "Portfolio: %s\n", result.PortfolioID)
	fmt.Fprintf(&b, "Strategy: %s\n", result.StrategyUsed)
	fmt.Fprintf(&b, "As of: %s\n", result.AsOf)
	fmt.Fprintf(&b, "Total Value: $%s\n", money(result.TotalValue))
	if result.TargetDuration != nil {
		fmt.Fprintf(&b, "Target Duration: %.2f years\n", *result.TargetDuration)
	}
	if result.TargetYield != nil {
		fmt.Fprintf(&b, "Target Yield: %.2f%%\n", *result.TargetYield*100)
	}
	fmt.Fprintf(&b, "Portfolio Duration: %.2f -> %.2f years\n",
		result.CurrentPortfolioDuration, result.ExpectedPortfolioDuration)
	fmt.Fprintf(&b, "Portfolio Yield: %.2f%% -> %.2f%%\n",
		result.CurrentPortfolioYield*100, result.ExpectedPortfolioYield*100)
	fmt.Fprintf(&b, "Total Trades: %d\n", result.TotalTrades)
	if result.TotalEstimatedCost > 0 {
		fmt.Fprintf(&b, "Estimated Cost: $%s\n", money(result.TotalEstimatedCost))
	}
	b.WriteString("========================================\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if result.TotalTrades == 0 {
		_, err := io.WriteString(w, "No trades recommended\n")
		return err
	}

	// 只列出实际交易
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tQTY\tBOND\tAMOUNT\tWEIGHT")
	for _, a := range result.RebalancingActions {
		if !a.IsTrade() {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t$%s\t%.2f%% -> %.2f%%\n",
			strings.ToUpper(string(a.Action)), a.Quantity, label(a), money(a.Amount),
			a.CurrentWeight*100, a.TargetWeight*100)
	}
	return tw.Flush()
}

// money 金额保留两位小数
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func label(a types.TradeAction) string {
	if a.Name != "" {
		return a.Name
	}
	if a.Symbol != "" {
		return a.Symbol
	}
	return fmt.Sprintf("bond %d", a.BondID)
}
