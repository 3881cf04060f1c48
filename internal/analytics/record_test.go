package analytics

import (
	"testing"

	"upbit-trade-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseView(t *testing.T) {
	testCases := []struct {
		input       string
		expected    View
		expectError bool
	}{
		{input: "", expected: ViewBoth},
		{input: "Both", expected: ViewBoth},
		{input: "both", expected: ViewBoth},
		{input: "BTC", expected: ForCoin(models.BTC)},
		{input: "eth", expected: ForCoin(models.ETH)},
		{input: "XRP", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			view, err := ParseView(tc.input)
			if tc.expectError {
				assert.ErrorIs(t, err, models.ErrUnknownCoin)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, view)
		})
	}
}

func TestView_Coin(t *testing.T) {
	_, ok := ViewBoth.Coin()
	assert.False(t, ok)

	coin, ok := ForCoin(models.ETH).Coin()
	assert.True(t, ok)
	assert.Equal(t, models.ETH, coin)
}

func TestNewRecords(t *testing.T) {
	reason := "momentum"
	trades := []models.Trade{
		{ID: 4, Timestamp: models.NewTimestamp(at(0)), CoinType: models.ETH, Decision: models.Buy, Percentage: 25,
			KRWBalance: 100, ETHBalance: 1.5, ETHKRWPrice: 3000000, ETHAvgBuyPrice: 2900000,
			BTCBalance: 9, BTCKRWPrice: 9, Reason: &reason},
		{ID: 5, Timestamp: models.NewTimestamp(at(1)), CoinType: models.BTC, Decision: models.Hold},
	}

	records := NewRecords(trades)

	require.Len(t, records, 2)
	assert.Equal(t, uint(4), records[0].ID)
	assert.Equal(t, models.Position{Coin: models.ETH, Balance: 1.5, KRWPrice: 3000000, AvgBuyPrice: 2900000}, records[0].Position)
	assert.Equal(t, "momentum", records[0].Reason)
	assert.Equal(t, "", records[0].Reflection)
	assert.Equal(t, "", records[1].Reason)
}

func TestCombine(t *testing.T) {
	btc := []Record{{ID: 1, Timestamp: at(0)}, {ID: 2, Timestamp: at(20)}}
	eth := []Record{{ID: 3, Timestamp: at(10)}, {ID: 4, Timestamp: at(20)}}

	combined := Combine(btc, eth)

	ids := make([]uint, 0, len(combined))
	for _, r := range combined {
		ids = append(ids, r.ID)
	}
	// equal timestamps keep concatenation order
	assert.Equal(t, []uint{2, 4, 3, 1}, ids)
	assert.Equal(t, uint(1), btc[0].ID, "inputs are not reordered")
}
