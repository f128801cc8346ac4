package portfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

func floatPtr(v float64) *float64 { return &v }

func validPortfolio() types.Portfolio {
	return types.Portfolio{
		PortfolioID: "user123",
		Strategy:    types.StrategyEqualWeight,
		Bonds: []types.Bond{
			{
				BondID: 1, Symbol: "TBOND-1", Name: "Treasury Bond 2028",
				CurrentWeight: 0.6, Quantity: 10, FaceValue: 1000, CouponRate: 0.05,
				CouponFrequency: 2, CurrentPrice: 980, YieldToMaturity: 0.055,
				MaturityDate: types.NewDate(2028, 12, 31), IssueDate: types.NewDate(2020, 1, 1),
			},
			{
				BondID: 2, Symbol: "TBOND-2", Name: "Corporate Bond 2026",
				CurrentWeight: 0.4, Quantity: 5, FaceValue: 1000, CouponRate: 0.07,
				CouponFrequency: 2, CurrentPrice: 950, YieldToMaturity: 0.075,
				MaturityDate: types.NewDate(2026, 12, 31), IssueDate: types.NewDate(2020, 1, 1),
			},
		},
	}
}

func TestCheckInvariants(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *types.Portfolio)
		wantErr bool
	}{
		{"valid", func(p *types.Portfolio) {}, false},
		{"within tolerance", func(p *types.Portfolio) { p.Bonds[0].CurrentWeight = 0.605 }, false},
		{"weights too low", func(p *types.Portfolio) { p.Bonds[0].CurrentWeight = 0.5 }, true},
		{"weights too high", func(p *types.Portfolio) { p.Bonds[0].CurrentWeight = 0.62 }, true},
		{"empty", func(p *types.Portfolio) { p.Bonds = nil }, true},
		{"duplicate id", func(p *types.Portfolio) { p.Bonds[1].BondID = 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPortfolio()
			tt.mutate(&p)
			err := CheckInvariants(p)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, types.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveTotalValue(t *testing.T) {
	p := validPortfolio()
	assert.InDelta(t, 10*980.0+5*950.0, ResolveTotalValue(p), 1e-9)

	p.TotalValue = floatPtr(25000)
	assert.Equal(t, 25000.0, ResolveTotalValue(p))
}

func TestEvaluationDate(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	p := validPortfolio()

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), EvaluationDate(p, now))

	asOf := types.NewDate(2024, 1, 1)
	p.AsOf = &asOf
	assert.Equal(t, asOf.Time, EvaluationDate(p, now))
}

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(p *types.Portfolio)
		errorField string
	}{
		{"valid", func(p *types.Portfolio) {}, ""},
		{"missing id", func(p *types.Portfolio) { p.PortfolioID = "" }, "portfolio_id"},
		{"unknown strategy", func(p *types.Portfolio) { p.Strategy = "tax_efficient" }, "strategy"},
		{"negative target duration", func(p *types.Portfolio) { p.TargetDuration = floatPtr(-1) }, "target_duration"},
		{"target yield out of range", func(p *types.Portfolio) { p.TargetYield = floatPtr(1) }, "target_yield"},
		{"zero price", func(p *types.Portfolio) { p.Bonds[0].CurrentPrice = 0 }, "bonds[1].current_price"},
		{"coupon frequency", func(p *types.Portfolio) { p.Bonds[1].CouponFrequency = 13 }, "bonds[2].coupon_frequency"},
		{"weight above one", func(p *types.Portfolio) { p.Bonds[0].CurrentWeight = 1.2 }, "bonds[1].current_weight"},
		{"maturity before issue", func(p *types.Portfolio) {
			p.Bonds[0].MaturityDate = types.NewDate(2019, 1, 1)
		}, "bonds[1].maturity_date"},
		{"no bonds", func(p *types.Portfolio) { p.Bonds = []types.Bond{} }, "bonds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPortfolio()
			tt.mutate(&p)
			err := ValidateFields(p)
			if tt.errorField == "" {
				assert.NoError(t, err)
				return
			}
			var domainErr *types.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, types.KindValidation, domainErr.Kind)
			assert.Equal(t, tt.errorField, domainErr.Field)
		})
	}
}
