package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// CSVLoader CSV组合加载器, 每行一只债券
// 组合级字段 (策略, 目标久期等) 由调用方另行设置
type CSVLoader struct{}

// NewCSVLoader 创建CSV加载器
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// SourceType 返回数据源类型
func (l *CSVLoader) SourceType() string {
	return "csv"
}

// Load 读取CSV组合, 文件名 (不含扩展名) 作为组合ID
func (l *CSVLoader) Load(path string) (types.Portfolio, error) {
	file, err := os.Open(path)
	if err != nil {
		return types.Portfolio{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return types.Portfolio{}, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) < 2 {
		return types.Portfolio{}, fmt.Errorf("CSV file has no data rows")
	}

	// 解析表头，找到各列的索引
	colIndex := parseHeader(records[0])
	for _, required := range []string{"bond_id", "current_weight", "current_price", "maturity_date"} {
		if _, ok := colIndex[required]; !ok {
			return types.Portfolio{}, fmt.Errorf("CSV header is missing column %q", required)
		}
	}

	p := types.Portfolio{
		PortfolioID: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Bonds:       make([]types.Bond, 0, len(records)-1),
	}
	for i := 1; i < len(records); i++ {
		bond, err := parseRow(records[i], colIndex)
		if err != nil {
			// 行号从1开始, 含表头
			return types.Portfolio{}, fmt.Errorf("failed to parse CSV row %d: %w", i+1, err)
		}
		p.Bonds = append(p.Bonds, bond)
	}
	return p, nil
}

// parseHeader 解析CSV表头
func parseHeader(header []string) map[string]int {
	colIndex := make(map[string]int)
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "bond_id", "BondID", "Bond_ID", "id", "ID":
			colIndex["bond_id"] = i
		case "symbol", "Symbol", "SYMBOL":
			colIndex["symbol"] = i
		case "name", "Name":
			colIndex["name"] = i
		case "current_weight", "CurrentWeight", "weight", "Weight":
			colIndex["current_weight"] = i
		case "quantity", "Quantity", "qty":
			colIndex["quantity"] = i
		case "face_value", "FaceValue", "face":
			colIndex["face_value"] = i
		case "coupon_rate", "CouponRate", "coupon":
			colIndex["coupon_rate"] = i
		case "coupon_frequency", "CouponFrequency", "frequency":
			colIndex["coupon_frequency"] = i
		case "current_price", "CurrentPrice", "price", "Price":
			colIndex["current_price"] = i
		case "maturity_date", "MaturityDate", "maturity":
			colIndex["maturity_date"] = i
		case "issue_date", "IssueDate", "issue":
			colIndex["issue_date"] = i
		case "yield_to_maturity", "YieldToMaturity", "ytm", "YTM":
			colIndex["yield_to_maturity"] = i
		}
	}
	return colIndex
}

// parseRow 解析CSV行
func parseRow(row []string, colIndex map[string]int) (types.Bond, error) {
	var bond types.Bond
	var err error

	cell := func(key string) (string, bool) {
		idx, ok := colIndex[key]
		if !ok || idx >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[idx])
		return v, v != ""
	}
	parseFloat := func(key string, dst *float64) {
		if err != nil {
			return
		}
		if v, ok := cell(key); ok {
			if *dst, err = strconv.ParseFloat(v, 64); err != nil {
				err = fmt.Errorf("invalid %s %q", key, v)
			}
		}
	}
	parseInt := func(key string, dst *int) {
		if err != nil {
			return
		}
		if v, ok := cell(key); ok {
			if *dst, err = strconv.Atoi(v); err != nil {
				err = fmt.Errorf("invalid %s %q", key, v)
			}
		}
	}
	parseDateCell := func(key string, dst *types.Date) {
		if err != nil {
			return
		}
		if v, ok := cell(key); ok {
			var t time.Time
			if t, err = parseDate(v); err == nil {
				*dst = types.DateOf(t)
			}
		}
	}

	parseInt("bond_id", &bond.BondID)
	bond.Symbol, _ = cell("symbol")
	bond.Name, _ = cell("name")
	parseFloat("current_weight", &bond.CurrentWeight)
	parseInt("quantity", &bond.Quantity)
	parseFloat("face_value", &bond.FaceValue)
	parseFloat("coupon_rate", &bond.CouponRate)
	parseInt("coupon_frequency", &bond.CouponFrequency)
	parseFloat("current_price", &bond.CurrentPrice)
	parseDateCell("maturity_date", &bond.MaturityDate)
	parseDateCell("issue_date", &bond.IssueDate)
	parseFloat("yield_to_maturity", &bond.YieldToMaturity)

	return bond, err
}

// parseDate 解析日期字符串
func parseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
