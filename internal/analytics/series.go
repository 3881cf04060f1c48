package analytics

import (
	"time"

	"upbit-trade-dashboard/internal/models"
)

// Point is one chart sample.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Series holds the balance and price history of one coin.
type Series struct {
	Coin    models.Coin `json:"coin"`
	Balance []Point     `json:"balance"`
	Price   []Point     `json:"price"`
}

// Project emits one balance point and one price point per record, in the
// order given. Nothing is resampled or filled in.
func Project(coin models.Coin, records []Record) Series {
	s := Series{
		Coin:    coin,
		Balance: make([]Point, 0, len(records)),
		Price:   make([]Point, 0, len(records)),
	}
	for _, r := range records {
		s.Balance = append(s.Balance, Point{Timestamp: r.Timestamp, Value: r.Position.Balance})
		s.Price = append(s.Price, Point{Timestamp: r.Timestamp, Value: r.Position.KRWPrice})
	}
	return s
}
