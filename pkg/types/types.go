package types

import (
	"time"
)

// StrategyType 权重策略类型
type StrategyType string

const (
	StrategyEqualWeight       StrategyType = "equal_weight"
	StrategyDurationTarget    StrategyType = "duration_target"
	StrategyYieldOptimization StrategyType = "yield_optimization"
	StrategyLaddered          StrategyType = "laddered"
)

// DefaultStrategy 请求未指定策略时使用的默认策略
const DefaultStrategy = StrategyDurationTarget

// Valid 判断策略类型是否合法
func (s StrategyType) Valid() bool {
	switch s {
	case StrategyEqualWeight, StrategyDurationTarget, StrategyYieldOptimization, StrategyLaddered:
		return true
	}
	return false
}

// Action 交易方向
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Bond 单只债券持仓
type Bond struct {
	BondID          int     `json:"bond_id" yaml:"bond_id"`
	Symbol          string  `json:"symbol" yaml:"symbol"`
	Name            string  `json:"name" yaml:"name"`
	CurrentWeight   float64 `json:"current_weight" yaml:"current_weight"`
	Quantity        int     `json:"quantity" yaml:"quantity"`
	FaceValue       float64 `json:"face_value" yaml:"face_value"`
	CouponRate      float64 `json:"coupon_rate" yaml:"coupon_rate"`           // 年票息率
	CouponFrequency int     `json:"coupon_frequency" yaml:"coupon_frequency"` // 每年付息次数
	CurrentPrice    float64 `json:"current_price" yaml:"current_price"`
	MaturityDate    Date    `json:"maturity_date" yaml:"maturity_date"`
	IssueDate       Date    `json:"issue_date" yaml:"issue_date"`
	YieldToMaturity float64 `json:"yield_to_maturity" yaml:"yield_to_maturity"`
}

// Portfolio 再平衡请求中的投资组合
type Portfolio struct {
	PortfolioID    string       `json:"portfolio_id" yaml:"portfolio_id"`
	TotalValue     *float64     `json:"total_value,omitempty" yaml:"total_value,omitempty"` // 为空时按持仓推算
	Strategy       StrategyType `json:"strategy" yaml:"strategy"`
	TargetDuration *float64     `json:"target_duration,omitempty" yaml:"target_duration,omitempty"`
	TargetYield    *float64     `json:"target_yield,omitempty" yaml:"target_yield,omitempty"` // 仅回显
	AsOf           *Date        `json:"as_of,omitempty" yaml:"as_of,omitempty"`               // 估值日期
	Bonds          []Bond       `json:"bonds" yaml:"bonds"`
}

// StrategyOrDefault 返回请求策略, 未指定时返回默认策略
func (p Portfolio) StrategyOrDefault() StrategyType {
	if p.Strategy == "" {
		return DefaultStrategy
	}
	return p.Strategy
}

// TradeAction 单只债券的交易建议
type TradeAction struct {
	BondID           int     `json:"bond_id"`
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Action           Action  `json:"action"`
	Quantity         int     `json:"quantity"`
	Amount           float64 `json:"amount"`
	CurrentWeight    float64 `json:"current_weight"`
	TargetWeight     float64 `json:"target_weight"`
	ExpectedYield    float64 `json:"expected_yield"`
	ExpectedDuration float64 `json:"expected_duration"`
	EstimatedCost    float64 `json:"estimated_cost"`
}

// IsTrade 是否为实际交易 (非持有)
func (a TradeAction) IsTrade() bool {
	return a.Action != ActionHold
}

// RebalanceResult 再平衡结果
type RebalanceResult struct {
	PortfolioID               string        `json:"portfolio_id"`
	TotalValue                float64       `json:"total_value"`
	StrategyUsed              StrategyType  `json:"strategy_used"`
	TotalTrades               int           `json:"total_trades"`
	TargetDuration            *float64      `json:"target_duration"`
	TargetYield               *float64      `json:"target_yield"`
	AsOf                      Date          `json:"as_of"`
	CurrentPortfolioDuration  float64       `json:"current_portfolio_duration"`
	ExpectedPortfolioDuration float64       `json:"expected_portfolio_duration"`
	CurrentPortfolioYield     float64       `json:"current_portfolio_yield"`
	ExpectedPortfolioYield    float64       `json:"expected_portfolio_yield"`
	TotalEstimatedCost        float64       `json:"total_estimated_cost"`
	RebalancingActions        []TradeAction `json:"rebalancing_actions"`
}

// StrategyInfo 策略列表项
type StrategyInfo struct {
	ID                     StrategyType `json:"id"`
	Name                   string       `json:"name"`
	Description            string       `json:"description"`
	RequiresTargetDuration bool         `json:"requires_target_duration"`
}

// CostConfig 成本配置
type CostConfig struct {
	CommissionRate float64 // 佣金率
	MinCommission  float64 // 最低佣金
	SlippageRate   float64 // 滑点率
}

// TruncateDate 截断到UTC日期
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
