package strategy

import (
	"time"

	"github.com/opsxjacky/bond-rebalancer/internal/bondmath"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// riskHorizon 期限风险折算年数
const riskHorizon = 10.0

// YieldOptimizationStrategy 收益优化策略
// 到期收益率按剩余期限折减: ytm / (1 + 剩余年限/10)
type YieldOptimizationStrategy struct{}

// NewYieldOptimizationStrategy 创建收益优化策略
func NewYieldOptimizationStrategy() *YieldOptimizationStrategy {
	return &YieldOptimizationStrategy{}
}

// Type 返回策略类型
func (s *YieldOptimizationStrategy) Type() types.StrategyType {
	return types.StrategyYieldOptimization
}

// TargetWeights 按风险调整后收益率分配权重
func (s *YieldOptimizationStrategy) TargetWeights(bonds []types.Bond, asOf time.Time) (Weights, error) {
	if err := requireBonds(bonds); err != nil {
		return nil, err
	}

	raw := make([]float64, len(bonds))
	for i, bond := range bonds {
		riskFactor := bondmath.YearsToMaturity(bond, asOf) / riskHorizon
		// 到期超过10年的债券分母不为正
		if 1+riskFactor <= 0 {
			return nil, types.NewInvalidInputError(
				"bond %d matured more than %.0f years before the evaluation date", bond.BondID, riskHorizon)
		}
		raw[i] = bond.YieldToMaturity / (1 + riskFactor)
	}
	return normalize(bonds, raw)
}
