package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

func TestDefaultCostModel_EstimateCost(t *testing.T) {
	model := NewDefaultCostModel(types.CostConfig{
		CommissionRate: 0.001,
		MinCommission:  5,
		SlippageRate:   0.0005,
	})

	tests := []struct {
		name     string
		action   types.TradeAction
		expected float64
	}{
		{"buy above minimum", types.TradeAction{Action: types.ActionBuy, Amount: 20000}, 20 + 10},
		{"sell below minimum", types.TradeAction{Action: types.ActionSell, Amount: 1000}, 5 + 0.5},
		{"hold", types.TradeAction{Action: types.ActionHold, Amount: 0.001}, 0},
		{"zero amount trade", types.TradeAction{Action: types.ActionBuy, Amount: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, model.EstimateCost(tt.action), 1e-9)
		})
	}
}

func TestZeroCostModel(t *testing.T) {
	model := NewZeroCostModel()
	assert.Zero(t, model.EstimateCost(types.TradeAction{Action: types.ActionSell, Amount: 5000}))
}
