package portfolio

import (
	"fmt"
	"math"
	"time"

	"github.com/opsxjacky/bond-rebalancer/internal/bondmath"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// 当前权重合计的容差区间 (开区间)
const (
	MinWeightSum = 0.99
	MaxWeightSum = 1.01
)

// CheckInvariants 校验组合不变量: 非空, 债券ID唯一, 当前权重合计约为1
func CheckInvariants(p types.Portfolio) error {
	if len(p.Bonds) == 0 {
		return types.NewValidationError("bonds", "portfolio must contain at least one bond")
	}

	seen := make(map[int]bool, len(p.Bonds))
	for _, bond := range p.Bonds {
		if seen[bond.BondID] {
			return types.NewValidationError("bonds", "duplicate bond_id %d", bond.BondID)
		}
		seen[bond.BondID] = true
	}

	total := WeightSum(p.Bonds)
	if !(total > MinWeightSum && total < MaxWeightSum) {
		return types.NewValidationError("bonds",
			"sum of current weights must be approximately 1 (got %v)", total)
	}
	return nil
}

// WeightSum 当前权重合计
func WeightSum(bonds []types.Bond) float64 {
	total := 0.0
	for _, bond := range bonds {
		total += bond.CurrentWeight
	}
	return total
}

// MarketValue 持仓市值合计
func MarketValue(bonds []types.Bond) float64 {
	total := 0.0
	for _, bond := range bonds {
		total += bondmath.CurrentValue(bond)
	}
	return total
}

// ResolveTotalValue 获取组合总值, 未提供时按持仓市值推算
func ResolveTotalValue(p types.Portfolio) float64 {
	if p.TotalValue != nil {
		return *p.TotalValue
	}
	return MarketValue(p.Bonds)
}

// EvaluationDate 获取估值日期, 请求未指定时使用 now
func EvaluationDate(p types.Portfolio, now time.Time) time.Time {
	if p.AsOf != nil {
		return types.TruncateDate(p.AsOf.Time)
	}
	return types.TruncateDate(now)
}

// ValidateFields 校验请求字段取值范围, 在进入核心计算前由边界层调用
func ValidateFields(p types.Portfolio) error {
	if p.PortfolioID == "" {
		return types.NewValidationError("portfolio_id", "must not be empty")
	}
	if p.Strategy != "" && !p.Strategy.Valid() {
		return types.NewValidationError("strategy", "unknown strategy %q", p.Strategy)
	}
	if p.TotalValue != nil && !(*p.TotalValue >= 0) {
		return types.NewValidationError("total_value", "must be >= 0")
	}
	if p.TargetDuration != nil && !(*p.TargetDuration >= 0) {
		return types.NewValidationError("target_duration", "must be >= 0")
	}
	if p.TargetYield != nil && !inUnitInterval(*p.TargetYield) {
		return types.NewValidationError("target_yield", "must be in [0, 1)")
	}
	if len(p.Bonds) == 0 {
		return types.NewValidationError("bonds", "portfolio must contain at least one bond")
	}

	for _, bond := range p.Bonds {
		if err := validateBond(bond); err != nil {
			return err
		}
	}
	return nil
}

// validateBond 校验单只债券
func validateBond(b types.Bond) error {
	field := func(name string) string {
		return fmt.Sprintf("bonds[%d].%s", b.BondID, name)
	}

	switch {
	case b.CurrentWeight < 0 || b.CurrentWeight > 1 || math.IsNaN(b.CurrentWeight):
		return types.NewValidationError(field("current_weight"), "must be in [0, 1]")
	case b.Quantity < 0:
		return types.NewValidationError(field("quantity"), "must be >= 0")
	case !(b.FaceValue > 0):
		return types.NewValidationError(field("face_value"), "must be > 0")
	case !(b.CurrentPrice > 0):
		return types.NewValidationError(field("current_price"), "must be > 0")
	case !inUnitInterval(b.CouponRate):
		return types.NewValidationError(field("coupon_rate"), "must be in [0, 1)")
	case b.CouponFrequency < 1 || b.CouponFrequency > 12:
		return types.NewValidationError(field("coupon_frequency"), "must be between 1 and 12")
	case !inUnitInterval(b.YieldToMaturity):
		return types.NewValidationError(field("yield_to_maturity"), "must be in [0, 1)")
	case b.MaturityDate.IsZero() || b.IssueDate.IsZero():
		return types.NewValidationError(field("maturity_date"), "maturity_date and issue_date are required")
	case !b.MaturityDate.After(b.IssueDate.Time):
		return types.NewValidationError(field("maturity_date"), "must be after issue_date")
	}
	return nil
}

func inUnitInterval(v float64) bool {
	return v >= 0 && v < 1
}
