package analytics

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"upbit-trade-dashboard/internal/models"
)

// ViewBoth selects the union of all tracked coins.
const ViewBoth View = "Both"

// View is the coin selection of a dashboard render: ViewBoth or a single coin.
type View string

// ParseView accepts "Both" (or an empty string) and any tracked coin name.
func ParseView(s string) (View, error) {
	if s == "" || strings.EqualFold(s, string(ViewBoth)) {
		return ViewBoth, nil
	}
	coin, err := models.ParseCoin(s)
	if err != nil {
		return "", fmt.Errorf("invalid view: %w", err)
	}
	return ForCoin(coin), nil
}

// ForCoin returns the single-coin view of coin.
func ForCoin(coin models.Coin) View {
	return View(coin)
}

// Coin reports the coin of a single-coin view.
func (v View) Coin() (models.Coin, bool) {
	if v == ViewBoth {
		return "", false
	}
	return models.Coin(v), true
}

// Record is a trade row as seen by the engine: the common envelope plus the
// position of the row's own coin.
type Record struct {
	// ID is the stable row identifier used for selections.
	ID         uint
	Timestamp  time.Time
	Coin       models.Coin
	Decision   models.Decision
	Percentage float64
	KRWBalance float64
	Position   models.Position
	Reason     string
	Reflection string
}

// NewRecords converts stored rows, keeping their order.
func NewRecords(trades []models.Trade) []Record {
	records := make([]Record, 0, len(trades))
	for _, t := range trades {
		records = append(records, Record{
			ID:         t.ID,
			Timestamp:  t.Timestamp.Time,
			Coin:       t.CoinType,
			Decision:   t.Decision,
			Percentage: t.Percentage,
			KRWBalance: t.KRWBalance,
			Position:   t.Position(),
			Reason:     deref(t.Reason),
			Reflection: deref(t.Reflection),
		})
	}
	return records
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Combine returns the union of the given sets sorted by timestamp, most
// recent first. Rows with equal timestamps keep their relative order.
func Combine(sets ...[]Record) []Record {
	var n int
	for _, set := range sets {
		n += len(set)
	}
	combined := make([]Record, 0, n)
	for _, set := range sets {
		combined = append(combined, set...)
	}
	sortNewestFirst(combined)
	return combined
}

func sortNewestFirst(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
}
