package strategy

import (
	"time"

	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// LadderedStrategy 阶梯策略
// 按到期年份分桶, 每桶等权, 桶内再等权
type LadderedStrategy struct{}

// NewLadderedStrategy 创建阶梯策略
func NewLadderedStrategy() *LadderedStrategy {
	return &LadderedStrategy{}
}

// Type 返回策略类型
func (s *LadderedStrategy) Type() types.StrategyType {
	return types.StrategyLaddered
}

// TargetWeights 各年份桶平分权重
func (s *LadderedStrategy) TargetWeights(bonds []types.Bond, asOf time.Time) (Weights, error) {
	if err := requireBonds(bonds); err != nil {
		return nil, err
	}

	buckets := MaturityBuckets(bonds)
	bucketWeight := 1.0 / float64(len(buckets))

	weights := make(Weights, len(bonds))
	for _, bucket := range buckets {
		bondWeight := bucketWeight / float64(len(bucket))
		for _, bond := range bucket {
			weights[bond.BondID] = bondWeight
		}
	}
	return weights, nil
}

// MaturityBuckets 按到期年份分组
func MaturityBuckets(bonds []types.Bond) map[int][]types.Bond {
	buckets := make(map[int][]types.Bond)
	for _, bond := range bonds {
		year := bond.MaturityDate.Year()
		buckets[year] = append(buckets[year], bond)
	}
	return buckets
}
