package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/bond-rebalancer/internal/data"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

const twoBondPortfolio = `{
  "portfolio_id": "user123",
  "total_value": 10000,
  "bonds": [
    {"bond_id": 1, "symbol": "A", "name": "Bond A", "current_weight": 0.7, "quantity": 7,
     "face_value": 1000, "coupon_rate": 0.05, "coupon_frequency": 2, "current_price": 1000,
     "maturity_date": "2029-01-01", "issue_date": "2020-01-01", "yield_to_maturity": 0.05},
    {"bond_id": 2, "symbol": "B", "name": "Bond B", "current_weight": 0.3, "quantity": 3,
     "face_value": 1000, "coupon_rate": 0.05, "coupon_frequency": 2, "current_price": 1000,
     "maturity_date": "2027-01-01", "issue_date": "2020-01-01", "yield_to_maturity": 0.05}
  ]
}`

func TestRebalanceCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.json")
	require.NoError(t, os.WriteFile(path, []byte(twoBondPortfolio), 0644))
	exported := filepath.Join(dir, "result.json")

	out, err := execute(t, "rebalance", "-f", path, "--strategy", "equal_weight",
		"--as-of", "2024-01-01", "--format", "json", "--output", exported)
	require.NoError(t, err)

	var result types.RebalanceResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.TotalTrades)
	assert.Equal(t, types.NewDate(2024, 1, 1), result.AsOf)
	assert.FileExists(t, exported)

	out, err = execute(t, "rebalance", "-f", path, "--strategy", "equal_weight",
		"--as-of", "2024-01-01", "--format", "table", "--output", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Rebalance Summary")
	assert.Contains(t, out, "SELL")
}

func TestRebalanceCommand_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	require.NoError(t, os.WriteFile(path, []byte(twoBondPortfolio), 0644))

	_, err := execute(t, "rebalance", "-f", path, "--strategy", "duration_target",
		"--as-of", "2024-01-01", "--format", "json")
	assert.ErrorIs(t, err, types.ErrMissingParameter)

	_, err = execute(t, "rebalance", "-f", path, "--strategy", "equal_weight", "--as-of", "01/01/2024")
	assert.ErrorContains(t, err, "invalid --as-of")

	_, err = execute(t, "rebalance", "-f", filepath.Join(t.TempDir(), "missing.json"), "--as-of", "2024-01-01")
	assert.ErrorContains(t, err, "failed to load portfolio")
}

func TestStrategiesCommand(t *testing.T) {
	out, err := execute(t, "strategies")
	require.NoError(t, err)
	assert.Contains(t, out, "duration_target")
	assert.Contains(t, out, "Laddered")
}

func TestSampleCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	_, err := execute(t, "sample", "--bonds", "6", "--seed", "42", "--output", path)
	require.NoError(t, err)

	p, err := data.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, p.Bonds, 6)

	out, err := execute(t, "rebalance", "-f", path, "--strategy", "laddered", "--format", "json", "--as-of", "", "--output", "")
	require.NoError(t, err)
	var result types.RebalanceResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, types.StrategyLaddered, result.StrategyUsed)
	assert.Len(t, result.RebalancingActions, 6)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "chatty", "strategies")
	assert.ErrorContains(t, err, "invalid config")
	logLevel = ""
}
