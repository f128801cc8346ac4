package data

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/opsxjacky/bond-rebalancer/internal/portfolio"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "p.json", `{
		"portfolio_id": "user123",
		"total_value": 10000,
		"strategy": "laddered",
		"bonds": [
			{"bond_id": 1, "symbol": "A", "current_weight": 0.5, "current_price": 1000,
			 "face_value": 1000, "coupon_frequency": 2, "maturity_date": "2030-01-01", "issue_date": "2020-01-01"},
			{"bond_id": 2, "symbol": "B", "current_weight": 0.5, "current_price": 990,
			 "face_value": 1000, "coupon_frequency": 2, "maturity_date": "2028-01-01", "issue_date": "2020-01-01"}
		]
	}`)

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "user123", p.PortfolioID)
	assert.Equal(t, types.StrategyLaddered, p.Strategy)
	require.NotNil(t, p.TotalValue)
	assert.Equal(t, 10000.0, *p.TotalValue)
	require.Len(t, p.Bonds, 2)
	assert.Equal(t, types.NewDate(2028, 1, 1), p.Bonds[1].MaturityDate)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "p.yml", `
portfolio_id: yaml-portfolio
strategy: duration_target
target_duration: 4.5
as_of: 2024-01-01
bonds:
  - bond_id: 7
    current_weight: 1
    current_price: 1000
    maturity_date: 2029-06-30
    issue_date: 2019-06-30
`)

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-portfolio", p.PortfolioID)
	require.NotNil(t, p.TargetDuration)
	assert.Equal(t, 4.5, *p.TargetDuration)
	require.NotNil(t, p.AsOf)
	assert.Equal(t, types.NewDate(2024, 1, 1), *p.AsOf)
	require.Len(t, p.Bonds, 1)
	assert.Equal(t, 7, p.Bonds[0].BondID)
}

func TestLoadFile_CSV(t *testing.T) {
	path := writeFile(t, "ladder.csv", strings.Join([]string{
		"BondID,Symbol,Name,Weight,Quantity,FaceValue,CouponRate,CouponFrequency,Price,MaturityDate,IssueDate,YTM",
		"1,T25,Treasury 2025,0.6,6,1000,0.04,2,1010.5,2025-12-31,2020-12-31,0.035",
		"2,T30,Treasury 2030,0.4,4,1000,0.05,2,985,2030/06/30,2020/06/30,0.052",
	}, "\n"))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ladder", p.PortfolioID)
	require.Len(t, p.Bonds, 2)

	b := p.Bonds[1]
	assert.Equal(t, 2, b.BondID)
	assert.Equal(t, "T30", b.Symbol)
	assert.Equal(t, "Treasury 2030", b.Name)
	assert.Equal(t, 0.4, b.CurrentWeight)
	assert.Equal(t, 4, b.Quantity)
	assert.Equal(t, 2, b.CouponFrequency)
	assert.Equal(t, 985.0, b.CurrentPrice)
	assert.Equal(t, types.NewDate(2030, 6, 30), b.MaturityDate)
	assert.Equal(t, types.NewDate(2020, 6, 30), b.IssueDate)
	assert.Equal(t, 0.052, b.YieldToMaturity)
}

func TestLoadFile_CSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no rows", "bond_id,current_weight,current_price,maturity_date", "no data rows"},
		{"missing column", "bond_id,current_weight,maturity_date\n1,1,2030-01-01", `"current_price"`},
		{"bad number", "bond_id,current_weight,current_price,maturity_date\n1,abc,1000,2030-01-01", "row 2"},
		{"bad date", "bond_id,current_weight,current_price,maturity_date\n1,1,1000,soon", "unable to parse date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, "bad.csv", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile_UnsupportedAndMissing(t *testing.T) {
	_, err := LoadFile("portfolio.xml")
	assert.ErrorContains(t, err, "unsupported portfolio file type")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read file")

	_, err = LoadFile(writeFile(t, "broken.json", "{"))
	assert.ErrorContains(t, err, "failed to parse JSON portfolio")
}

func TestLoaderFor_SourceType(t *testing.T) {
	for ext, want := range map[string]string{".json": "json", ".YAML": "yaml", ".yml": "yaml", ".csv": "csv"} {
		l, err := LoaderFor("portfolio" + ext)
		require.NoError(t, err)
		assert.Equal(t, want, l.SourceType())
	}
}

func TestGenerateSample(t *testing.T) {
	asOf := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	p := GenerateSample(SampleOptions{Bonds: 8, Seed: 42, AsOf: asOf})

	require.Len(t, p.Bonds, 8)
	assert.True(t, strings.HasPrefix(p.PortfolioID, "sample-"))
	assert.NoError(t, portfolio.CheckInvariants(p))
	assert.NoError(t, portfolio.ValidateFields(p))
	require.NotNil(t, p.TotalValue)
	assert.InDelta(t, portfolio.MarketValue(p.Bonds), *p.TotalValue, 1e-9)
	assert.Equal(t, types.NewDate(2024, 1, 1), *p.AsOf)

	for i, b := range p.Bonds {
		assert.Equal(t, i+1, b.BondID)
		assert.Equal(t, 2, b.CouponFrequency)
		assert.GreaterOrEqual(t, b.CouponRate, 0.02)
		assert.Less(t, b.CouponRate, 0.07)
		assert.GreaterOrEqual(t, b.CurrentPrice, 950.0)
		assert.Less(t, b.CurrentPrice, 1050.0)
		assert.GreaterOrEqual(t, b.Quantity, 1)
		assert.LessOrEqual(t, b.Quantity, 20)
		assert.InDelta(t, b.CouponRate/(b.CurrentPrice/1000), b.YieldToMaturity, 1e-12)

		years := b.MaturityDate.Sub(p.AsOf.Time).Hours() / 24 / 365
		assert.GreaterOrEqual(t, years, 1.0)
		assert.LessOrEqual(t, years, 10.0)
	}

	again := GenerateSample(SampleOptions{Bonds: 8, Seed: 42, AsOf: asOf})
	assert.Equal(t, p, again)
}

func TestGenerateSample_Serializable(t *testing.T) {
	p := GenerateSample(SampleOptions{Seed: 7, AsOf: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	assert.Len(t, p.Bonds, DefaultSampleBonds)

	js, err := json.Marshal(p)
	require.NoError(t, err)
	var fromJSON types.Portfolio
	require.NoError(t, json.Unmarshal(js, &fromJSON))
	assert.Equal(t, p.PortfolioID, fromJSON.PortfolioID)
	assert.Equal(t, p.Bonds[0].MaturityDate, fromJSON.Bonds[0].MaturityDate)

	ys, err := yaml.Marshal(p)
	require.NoError(t, err)
	var fromYAML types.Portfolio
	require.NoError(t, yaml.Unmarshal(ys, &fromYAML))
	assert.Equal(t, p.Bonds[2].IssueDate, fromYAML.Bonds[2].IssueDate)
}
