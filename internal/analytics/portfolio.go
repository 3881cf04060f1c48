package analytics

import (
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"upbit-trade-dashboard/internal/models"
)

// CashAsset names the KRW cash line of the portfolio.
const CashAsset = "KRW"

// Snapshot is the latest known state of an asset.
type Snapshot struct {
	Coin       models.Coin `json:"coin"`
	Balance    float64     `json:"balance"`
	Price      float64     `json:"price"`
	KRWBalance float64     `json:"krw_balance"`
	Timestamp  time.Time   `json:"timestamp"`
	Found      bool        `json:"found"`
}

// LatestSnapshot returns the state carried by the last record of a
// single-coin set in storage order. An empty set yields zero values.
func LatestSnapshot(coin models.Coin, records []Record) Snapshot {
	if len(records) == 0 {
		return Snapshot{Coin: coin}
	}
	last := records[len(records)-1]
	return Snapshot{
		Coin:       coin,
		Balance:    last.Position.Balance,
		Price:      last.Position.KRWPrice,
		KRWBalance: last.KRWBalance,
		Timestamp:  last.Timestamp,
		Found:      true,
	}
}

// Holding is an asset balance valued at a price.
type Holding struct {
	Coin    models.Coin
	Balance float64
	Price   float64
}

// Value returns balance times price.
func (h Holding) Value() float64 {
	return h.Balance * h.Price
}

// AssetShare is one line of the portfolio composition.
type AssetShare struct {
	Asset      string  `json:"asset"`
	Balance    float64 `json:"balance"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Cash       bool    `json:"cash"`
}

// Portfolio is the valuation of the tracked assets plus cash.
type Portfolio struct {
	Assets []AssetShare `json:"assets"`
	Total  float64      `json:"total"`
}

// Valuate values each holding and the cash balance and computes their share
// of the total. When the total is not positive every share is 0.
func Valuate(holdings []Holding, krwBalance float64) Portfolio {
	p := Portfolio{Assets: make([]AssetShare, 0, len(holdings)+1)}
	for _, h := range holdings {
		v := h.Value()
		p.Assets = append(p.Assets, AssetShare{Asset: string(h.Coin), Balance: h.Balance, Value: v})
		p.Total += v
	}
	p.Assets = append(p.Assets, AssetShare{Asset: CashAsset, Balance: krwBalance, Value: krwBalance, Cash: true})
	p.Total += krwBalance

	if p.Total <= 0 {
		return p
	}
	for i := range p.Assets {
		p.Assets[i].Percentage = percentOf(p.Assets[i].Value, p.Total)
	}
	return p
}

// CompositionRow is the display form of an AssetShare.
type CompositionRow struct {
	Asset      string `json:"asset"`
	Balance    string `json:"balance"`
	Percentage string `json:"percentage"`
}

// Composition formats the portfolio as a table: crypto balances with 8
// decimals, cash as a thousands-separated won amount, shares with one decimal.
func (p Portfolio) Composition() []CompositionRow {
	rows := make([]CompositionRow, 0, len(p.Assets))
	for _, a := range p.Assets {
		rows = append(rows, CompositionRow{
			Asset:      a.Asset,
			Balance:    formatBalance(a),
			Percentage: p.formatShare(a),
		})
	}
	return rows
}

func formatBalance(a AssetShare) string {
	if a.Cash {
		return FormatKRW(a.Balance)
	}
	return decimal.NewFromFloat(a.Balance).StringFixed(8)
}

func (p Portfolio) formatShare(a AssetShare) string {
	if p.Total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", a.Percentage)
}

// FormatKRW formats a won amount rounded to the unit, e.g. "₩1,000,000".
func FormatKRW(amount float64) string {
	won := decimal.NewFromFloat(amount).Round(0).IntPart()
	return money.New(won, money.KRW).Display()
}
