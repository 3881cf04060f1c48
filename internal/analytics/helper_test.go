package analytics

import (
	"time"

	"upbit-trade-dashboard/internal/models"
)

var t0 = time.Date(2024, 11, 3, 9, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

func sell(coin models.Coin, price, avg float64) Record {
	return Record{
		Coin:     coin,
		Decision: models.Sell,
		Position: models.Position{Coin: coin, KRWPrice: price, AvgBuyPrice: avg},
	}
}

func withNote(id uint, ts time.Time, coin models.Coin, d models.Decision, pct float64, reflection string) Record {
	return Record{
		ID:         id,
		Timestamp:  ts,
		Coin:       coin,
		Decision:   d,
		Percentage: pct,
		Reflection: reflection,
		Reason:     "reason " + reflection,
	}
}
