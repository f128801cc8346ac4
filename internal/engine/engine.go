package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/opsxjacky/bond-rebalancer/internal/cost"
	"github.com/opsxjacky/bond-rebalancer/internal/portfolio"
	"github.com/opsxjacky/bond-rebalancer/internal/strategy"
	"github.com/opsxjacky/bond-rebalancer/internal/trade"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// DefaultConcurrency 批量再平衡的默认并发数
const DefaultConcurrency = 4

// Options 引擎配置
type Options struct {
	HoldThreshold float64
	CostModel     cost.CostModel
	Concurrency   int
	Logger        zerolog.Logger
}

// RebalanceEngine 再平衡引擎, 无状态, 可并发使用
type RebalanceEngine struct {
	calculator  *trade.Calculator
	concurrency int
	log         zerolog.Logger
}

// New 创建再平衡引擎
func New(opts Options) *RebalanceEngine {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &RebalanceEngine{
		calculator:  trade.NewCalculator(opts.HoldThreshold, opts.CostModel),
		concurrency: concurrency,
		log:         opts.Logger.With().Str("component", "engine").Logger(),
	}
}

// Rebalance 计算单个组合的再平衡建议
func (e *RebalanceEngine) Rebalance(p types.Portfolio, asOf time.Time) (types.RebalanceResult, error) {
	// 校验输入
	if err := e.validate(p); err != nil {
		return types.RebalanceResult{}, err
	}

	asOf = types.TruncateDate(asOf)
	totalValue := portfolio.ResolveTotalValue(p)
	if math.IsNaN(totalValue) || math.IsInf(totalValue, 0) {
		return types.RebalanceResult{}, types.NewComputationError("total_value is not finite")
	}
	strategyType := p.StrategyOrDefault()

	// 计算目标权重
	s, err := strategy.New(strategyType, strategy.Params{TargetDuration: p.TargetDuration})
	if err != nil {
		return types.RebalanceResult{}, err
	}
	weights, err := s.TargetWeights(p.Bonds, asOf)
	if err != nil {
		return types.RebalanceResult{}, fmt.Errorf("failed to compute %s target weights: %w", strategyType, err)
	}

	// 生成交易建议, 策略未覆盖的债券目标权重为0
	actions := make([]types.TradeAction, 0, len(p.Bonds))
	for _, bond := range p.Bonds {
		targetWeight, ok := weights[bond.BondID]
		if !ok {
			e.log.Warn().Int("bond_id", bond.BondID).Str("strategy", string(strategyType)).
				Msg("Strategy did not assign a weight, using 0")
		}
		actions = append(actions, e.calculator.Calculate(bond, targetWeight, totalValue, asOf))
	}

	agg := trade.Aggregate(p.Bonds, weights, asOf)
	if err := checkFinite(agg); err != nil {
		e.log.Warn().Err(err).Str("portfolio_id", p.PortfolioID).Msg("Non-finite portfolio metrics")
		return types.RebalanceResult{}, err
	}

	result := types.RebalanceResult{
		PortfolioID:               p.PortfolioID,
		TotalValue:                totalValue,
		StrategyUsed:              strategyType,
		TotalTrades:               trade.CountTrades(actions),
		TargetDuration:            p.TargetDuration,
		TargetYield:               p.TargetYield,
		AsOf:                      types.DateOf(asOf),
		CurrentPortfolioDuration:  agg.CurrentDuration,
		ExpectedPortfolioDuration: agg.ExpectedDuration,
		CurrentPortfolioYield:     agg.CurrentYield,
		ExpectedPortfolioYield:    agg.ExpectedYield,
		TotalEstimatedCost:        trade.TotalCost(actions),
		RebalancingActions:        actions,
	}

	e.log.Debug().
		Str("portfolio_id", p.PortfolioID).
		Str("strategy", string(strategyType)).
		Int("bonds", len(p.Bonds)).
		Int("trades", result.TotalTrades).
		Float64("total_value", totalValue).
		Msg("Rebalance calculated")

	return result, nil
}

// BatchItem 批量再平衡的单项结果
type BatchItem struct {
	PortfolioID string
	Result      *types.RebalanceResult
	Err         error
}

// RebalanceBatch 并发计算多个组合, 单个组合失败不影响其他组合
// 每个组合的估值日期取自 as_of, 未指定时使用 now
func (e *RebalanceEngine) RebalanceBatch(ctx context.Context, portfolios []types.Portfolio, now time.Time) ([]BatchItem, error) {
	items := make([]BatchItem, len(portfolios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range portfolios {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := portfolios[i]
			item := BatchItem{PortfolioID: p.PortfolioID}
			result, err := e.Rebalance(p, portfolio.EvaluationDate(p, now))
			if err != nil {
				item.Err = err
			} else {
				item.Result = &result
			}
			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch rebalance aborted: %w", err)
	}
	return items, nil
}

// validate 校验组合不变量
func (e *RebalanceEngine) validate(p types.Portfolio) error {
	return portfolio.CheckInvariants(p)
}

// checkFinite 结果出现 NaN/Inf 说明输入绕过了边界校验
func checkFinite(agg trade.Aggregates) error {
	values := map[string]float64{
		"current_portfolio_duration":  agg.CurrentDuration,
		"expected_portfolio_duration": agg.ExpectedDuration,
		"current_portfolio_yield":     agg.CurrentYield,
		"expected_portfolio_yield":    agg.ExpectedYield,
	}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return types.NewComputationError("%s is not finite", name)
		}
	}
	return nil
}
