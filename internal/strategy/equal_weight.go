package strategy

import (
	"time"

	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// EqualWeightStrategy 等权策略
type EqualWeightStrategy struct{}

// NewEqualWeightStrategy 创建等权策略
func NewEqualWeightStrategy() *EqualWeightStrategy {
	return &EqualWeightStrategy{}
}

// Type 返回策略类型
func (s *EqualWeightStrategy) Type() types.StrategyType {
	return types.StrategyEqualWeight
}

// TargetWeights 每只债券权重 1/n
func (s *EqualWeightStrategy) TargetWeights(bonds []types.Bond, asOf time.Time) (Weights, error) {
	if err := requireBonds(bonds); err != nil {
		return nil, err
	}

	weight := 1.0 / float64(len(bonds))
	weights := make(Weights, len(bonds))
	for _, bond := range bonds {
		weights[bond.BondID] = weight
	}
	return weights, nil
}
