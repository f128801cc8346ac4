package strategy

import (
	"time"

	"github.com/opsxjacky/bond-rebalancer/internal/bondmath"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// DurationTargetStrategy 久期目标策略
// 久期越接近目标, 权重越高: 1 / (1 + (久期 - 目标)^2)
type DurationTargetStrategy struct {
	targetDuration float64
}

// NewDurationTargetStrategy 创建久期目标策略, 目标久期必填
func NewDurationTargetStrategy(targetDuration *float64) (*DurationTargetStrategy, error) {
	if targetDuration == nil {
		return nil, types.NewMissingParameterError("target_duration",
			"target duration is required for the %s strategy", types.StrategyDurationTarget)
	}
	return &DurationTargetStrategy{targetDuration: *targetDuration}, nil
}

// Type 返回策略类型
func (s *DurationTargetStrategy) Type() types.StrategyType {
	return types.StrategyDurationTarget
}

// TargetWeights 按久期距离反比计算权重
func (s *DurationTargetStrategy) TargetWeights(bonds []types.Bond, asOf time.Time) (Weights, error) {
	if err := requireBonds(bonds); err != nil {
		return nil, err
	}

	raw := make([]float64, len(bonds))
	for i, bond := range bonds {
		distance := bondmath.Duration(bond, asOf) - s.targetDuration
		raw[i] = 1 / (1 + distance*distance)
	}
	return normalize(bonds, raw)
}
