package strategy

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// Weights 债券ID -> 目标权重
type Weights map[int]float64

// WeightingStrategy 目标权重策略接口
type WeightingStrategy interface {
	// Type 策略类型
	Type() types.StrategyType

	// TargetWeights 计算目标权重, 结果合计为1
	TargetWeights(bonds []types.Bond, asOf time.Time) (Weights, error)
}

// Params 策略参数
type Params struct {
	TargetDuration *float64
}

// New 按类型创建策略
func New(strategyType types.StrategyType, params Params) (WeightingStrategy, error) {
	switch strategyType {
	case types.StrategyEqualWeight:
		return NewEqualWeightStrategy(), nil
	case types.StrategyDurationTarget:
		return NewDurationTargetStrategy(params.TargetDuration)
	case types.StrategyYieldOptimization:
		return NewYieldOptimizationStrategy(), nil
	case types.StrategyLaddered:
		return NewLadderedStrategy(), nil
	default:
		return nil, types.NewValidationError("strategy", "unknown strategy %q", strategyType)
	}
}

// catalog 策略列表, 顺序固定
var catalog = []types.StrategyInfo{
	{
		ID:          types.StrategyEqualWeight,
		Name:        "Equal Weight",
		Description: "Allocates the same weight to every bond",
	},
	{
		ID:                     types.StrategyDurationTarget,
		Name:                   "Duration Target",
		Description:            "Favors bonds whose duration is closest to the target duration",
		RequiresTargetDuration: true,
	},
	{
		ID:          types.StrategyYieldOptimization,
		Name:        "Yield Optimization",
		Description: "Weights bonds by yield to maturity discounted for maturity risk",
	},
	{
		ID:          types.StrategyLaddered,
		Name:        "Laddered",
		Description: "Spreads weight evenly across maturity years, then evenly within each year",
	},
}

// List 返回所有可用策略
func List() []types.StrategyInfo {
	out := make([]types.StrategyInfo, len(catalog))
	copy(out, catalog)
	return out
}

// normalize 原始权重归一化, raw 与 bonds 一一对应
func normalize(bonds []types.Bond, raw []float64) (Weights, error) {
	total := floats.Sum(raw)
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, types.NewInvalidInputError("total raw weight must be positive, got %v", total)
	}

	floats.Scale(1/total, raw)

	weights := make(Weights, len(bonds))
	for i, bond := range bonds {
		weights[bond.BondID] = raw[i]
	}
	return weights, nil
}

// requireBonds 空集合检查
func requireBonds(bonds []types.Bond) error {
	if len(bonds) == 0 {
		return types.NewInvalidInputError("bond collection is empty")
	}
	return nil
}
