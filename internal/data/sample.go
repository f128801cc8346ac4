package data

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/opsxjacky/bond-rebalancer/internal/portfolio"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// 示例组合参数
const (
	DefaultSampleBonds          = 5
	DefaultSampleTargetDuration = 5.0
	sampleFaceValue             = 1000.0
)

// SampleOptions 示例组合生成参数
type SampleOptions struct {
	Bonds int       // 债券数量, <=0 时取默认值
	Seed  int64     // 随机种子, 0 表示按当前时间
	AsOf  time.Time // 估值日期, 零值表示今天
}

// GenerateSample 生成随机示例组合, 当前权重已归一化
func GenerateSample(opts SampleOptions) types.Portfolio {
	n := opts.Bonds
	if n <= 0 {
		n = DefaultSampleBonds
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	today := types.TruncateDate(asOf)
	rng := rand.New(rand.NewSource(seed))

	bonds := make([]types.Bond, 0, n)
	totalWeight := 0.0
	for i := 1; i <= n; i++ {
		years := 1 + rng.Intn(10)
		maturity := today.AddDate(0, 0, 365*years)
		couponRate := uniform(rng, 0.02, 0.07)
		pricePct := uniform(rng, 0.95, 1.05)
		weight := uniform(rng, 0.1, 1.0)
		totalWeight += weight

		bonds = append(bonds, types.Bond{
			BondID:          i,
			Symbol:          fmt.Sprintf("BOND-%d", i),
			Name:            fmt.Sprintf("Test Bond %d - %d", i, maturity.Year()),
			CurrentWeight:   weight,
			Quantity:        1 + rng.Intn(20),
			FaceValue:       sampleFaceValue,
			CouponRate:      couponRate,
			CouponFrequency: 2,
			CurrentPrice:    sampleFaceValue * pricePct,
			MaturityDate:    types.DateOf(maturity),
			IssueDate:       types.DateOf(today.AddDate(0, 0, -365)),
			YieldToMaturity: couponRate / pricePct,
		})
	}

	for i := range bonds {
		bonds[i].CurrentWeight /= totalWeight
	}

	// 同一种子生成相同的组合ID
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		id = uuid.New()
	}

	totalValue := portfolio.MarketValue(bonds)
	targetDuration := DefaultSampleTargetDuration
	asOfDate := types.DateOf(today)
	return types.Portfolio{
		PortfolioID:    "sample-" + id.String(),
		TotalValue:     &totalValue,
		Strategy:       types.DefaultStrategy,
		TargetDuration: &targetDuration,
		AsOf:           &asOfDate,
		Bonds:          bonds,
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
