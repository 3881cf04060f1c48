package analytics

import (
	"github.com/shopspring/decimal"

	"upbit-trade-dashboard/internal/models"
)

// DefaultFeeRate is the exchange taker fee applied to sell prices (0.05%).
const DefaultFeeRate = 0.0005

// SuccessStats counts the profitable sell decisions of an asset.
type SuccessStats struct {
	Successful int `json:"successful"`
	Total      int `json:"total"`
}

// Rate returns the success rate as a percentage, 0 when there were no sells.
func (s SuccessStats) Rate() float64 {
	return percentOf(float64(s.Successful), float64(s.Total))
}

// SuccessRate counts the sell rows of records and how many of them were
// net-profitable after feeRate.
func SuccessRate(records []Record, feeRate float64) SuccessStats {
	fee := decimal.NewFromFloat(feeRate)

	var stats SuccessStats
	for _, r := range records {
		if r.Decision != models.Sell {
			continue
		}
		stats.Total++
		if isProfitable(r.Position, fee) {
			stats.Successful++
		}
	}
	return stats
}

// isProfitable reports whether selling at the row price after fee beats the
// average buy price. A zero average buy price is never a success.
func isProfitable(p models.Position, fee decimal.Decimal) bool {
	price := decimal.NewFromFloat(p.KRWPrice)
	avg := decimal.NewFromFloat(p.AvgBuyPrice)

	net := price.Mul(decimal.NewFromInt(1).Sub(fee)).Sub(avg)
	return safeDivDecimal(net, avg).IsPositive()
}
