// Package trade 把当前权重与目标权重的差额换算成买卖建议
package trade

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/opsxjacky/bond-rebalancer/internal/bondmath"
	"github.com/opsxjacky/bond-rebalancer/internal/cost"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// DefaultHoldThreshold 金额差额低于该值视为持有
const DefaultHoldThreshold = 0.01

// Calculator 交易计算器
type Calculator struct {
	holdThreshold float64
	costModel     cost.CostModel
}

// NewCalculator 创建交易计算器, costModel 为空时不计成本
func NewCalculator(holdThreshold float64, costModel cost.CostModel) *Calculator {
	if holdThreshold < 0 {
		holdThreshold = 0
	}
	if costModel == nil {
		costModel = cost.NewZeroCostModel()
	}
	return &Calculator{
		holdThreshold: holdThreshold,
		costModel:     costModel,
	}
}

// Calculate 计算单只债券的交易建议
func (c *Calculator) Calculate(bond types.Bond, targetWeight, totalValue float64, asOf time.Time) types.TradeAction {
	currentAmount := bond.CurrentWeight * totalValue
	targetAmount := targetWeight * totalValue
	delta := targetAmount - currentAmount
	amount := math.Abs(delta)

	quantity := 0
	if bond.CurrentPrice > 0 {
		quantity = int(math.Floor(amount / bond.CurrentPrice))
	}

	action := types.TradeAction{
		BondID:           bond.BondID,
		Symbol:           bond.Symbol,
		Name:             bond.Name,
		Action:           c.direction(delta),
		Quantity:         quantity,
		Amount:           amount,
		CurrentWeight:    bond.CurrentWeight,
		TargetWeight:     targetWeight,
		ExpectedYield:    bond.YieldToMaturity,
		ExpectedDuration: bondmath.Duration(bond, asOf),
	}
	action.EstimatedCost = c.costModel.EstimateCost(action)
	return action
}

// direction 按差额符号判断方向
func (c *Calculator) direction(delta float64) types.Action {
	switch {
	case math.Abs(delta) < c.holdThreshold, delta == 0:
		return types.ActionHold
	case delta > 0:
		return types.ActionBuy
	default:
		return types.ActionSell
	}
}

// Aggregates 组合层面的久期与收益率
type Aggregates struct {
	CurrentDuration  float64
	ExpectedDuration float64
	CurrentYield     float64
	ExpectedYield    float64
}

// Aggregate 按当前/目标权重加权计算组合久期与收益率
func Aggregate(bonds []types.Bond, targetWeights map[int]float64, asOf time.Time) Aggregates {
	if len(bonds) == 0 {
		return Aggregates{}
	}

	current := make([]float64, len(bonds))
	target := make([]float64, len(bonds))
	durations := make([]float64, len(bonds))
	yields := make([]float64, len(bonds))
	for i, bond := range bonds {
		current[i] = bond.CurrentWeight
		target[i] = targetWeights[bond.BondID]
		durations[i] = bondmath.Duration(bond, asOf)
		yields[i] = bond.YieldToMaturity
	}

	return Aggregates{
		CurrentDuration:  floats.Dot(current, durations),
		ExpectedDuration: floats.Dot(target, durations),
		CurrentYield:     floats.Dot(current, yields),
		ExpectedYield:    floats.Dot(target, yields),
	}
}

// CountTrades 统计非持有的交易数
func CountTrades(actions []types.TradeAction) int {
	n := 0
	for _, a := range actions {
		if a.IsTrade() {
			n++
		}
	}
	return n
}

// TotalCost 汇总估算成本
func TotalCost(actions []types.TradeAction) float64 {
	total := 0.0
	for _, a := range actions {
		total += a.EstimatedCost
	}
	return total
}
