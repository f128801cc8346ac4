package cost

import (
	"math"

	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// CostModel 成本模型接口
type CostModel interface {
	// EstimateCost 估算一笔交易建议的成本
	EstimateCost(action types.TradeAction) float64
}

// DefaultCostModel 默认成本模型
type DefaultCostModel struct {
	CommissionRate float64 // 佣金率
	MinCommission  float64 // 最低佣金
	SlippageRate   float64 // 滑点率 (买卖价差)
}

// NewDefaultCostModel 创建默认成本模型
func NewDefaultCostModel(config types.CostConfig) *DefaultCostModel {
	return &DefaultCostModel{
		CommissionRate: config.CommissionRate,
		MinCommission:  config.MinCommission,
		SlippageRate:   config.SlippageRate,
	}
}

// NewZeroCostModel 创建零成本模型
func NewZeroCostModel() *DefaultCostModel {
	return &DefaultCostModel{}
}

// EstimateCost 估算交易成本, 持有不计成本
func (m *DefaultCostModel) EstimateCost(action types.TradeAction) float64 {
	if !action.IsTrade() {
		return 0
	}
	return m.Commission(action.Amount) + m.Slippage(action.Amount)
}

// Commission 计算佣金
func (m *DefaultCostModel) Commission(amount float64) float64 {
	amount = math.Abs(amount)
	if amount == 0 {
		return 0
	}
	commission := amount * m.CommissionRate
	if commission < m.MinCommission {
		commission = m.MinCommission
	}
	return commission
}

// Slippage 计算滑点损失
func (m *DefaultCostModel) Slippage(amount float64) float64 {
	return math.Abs(amount) * m.SlippageRate
}
