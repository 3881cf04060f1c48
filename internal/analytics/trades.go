package analytics

import (
	"slices"
	"strings"
	"time"

	"upbit-trade-dashboard/internal/models"
)

// DecisionCount is the number of rows recorded with a decision.
type DecisionCount struct {
	Decision models.Decision `json:"decision"`
	Count    int             `json:"count"`
}

// DecisionCounts tallies decisions, most frequent first.
func DecisionCounts(records []Record) []DecisionCount {
	byDecision := make(map[models.Decision]int)
	for _, r := range records {
		byDecision[r.Decision]++
	}

	counts := make([]DecisionCount, 0, len(byDecision))
	for d, n := range byDecision {
		counts = append(counts, DecisionCount{Decision: d, Count: n})
	}
	slices.SortFunc(counts, func(a, b DecisionCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(string(a.Decision), string(b.Decision))
	})
	return counts
}

// TradeRow is one line of the recent trades table.
type TradeRow struct {
	ID         uint            `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	Coin       models.Coin     `json:"coin_type"`
	Decision   models.Decision `json:"decision"`
	Percentage float64         `json:"percentage"`
	Reason     string          `json:"reason"`
}

// RecentTrades lists records in the order given.
func RecentTrades(records []Record) []TradeRow {
	rows := make([]TradeRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, TradeRow{
			ID:         r.ID,
			Timestamp:  r.Timestamp,
			Coin:       r.Coin,
			Decision:   r.Decision,
			Percentage: r.Percentage,
			Reason:     r.Reason,
		})
	}
	return rows
}
