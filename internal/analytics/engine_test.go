package analytics

import (
	"context"
	"errors"
	"testing"

	"upbit-trade-dashboard/internal/config"
	"upbit-trade-dashboard/internal/metrics"
	"upbit-trade-dashboard/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTradeReader is a mock implementation of TradeReader.
type MockTradeReader struct {
	mock.Mock
}

func (m *MockTradeReader) LoadTrades(ctx context.Context, coin *models.Coin) ([]models.Trade, error) {
	args := m.Called(*coin)
	return args.Get(0).([]models.Trade), args.Error(1)
}

// MockPriceSource is a mock implementation of PriceSource.
type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) Prices(ctx context.Context, coins []models.Coin) (map[models.Coin]float64, error) {
	args := m.Called(coins)
	return args.Get(0).(map[models.Coin]float64), args.Error(1)
}

func strPtr(s string) *string { return &s }

func btcTrades() []models.Trade {
	return []models.Trade{
		{ID: 1, Timestamp: models.NewTimestamp(at(0)), CoinType: models.BTC, Decision: models.Buy, Percentage: 50,
			BTCBalance: 0.5, BTCKRWPrice: 90, BTCAvgBuyPrice: 90, KRWBalance: 2000000, Reason: strPtr("dip")},
		{ID: 3, Timestamp: models.NewTimestamp(at(20)), CoinType: models.BTC, Decision: models.Sell, Percentage: 20,
			BTCBalance: 0.4, BTCKRWPrice: 100, BTCAvgBuyPrice: 90, KRWBalance: 1500000,
			Reflection: strPtr("good exit")},
		{ID: 5, Timestamp: models.NewTimestamp(at(40)), CoinType: models.BTC, Decision: models.Sell, Percentage: 20,
			BTCBalance: 0.5, BTCKRWPrice: 50000000, BTCAvgBuyPrice: 60000000, KRWBalance: 1200000},
	}
}

func ethTrades() []models.Trade {
	return []models.Trade{
		{ID: 2, Timestamp: models.NewTimestamp(at(10)), CoinType: models.ETH, Decision: models.Hold,
			ETHBalance: 0, ETHKRWPrice: 3000000, KRWBalance: 1800000, Reflection: strPtr("stayed flat")},
		{ID: 4, Timestamp: models.NewTimestamp(at(30)), CoinType: models.ETH, Decision: models.Sell, Percentage: 100,
			ETHBalance: 0, ETHKRWPrice: 3100000, ETHAvgBuyPrice: 0, KRWBalance: 1000000},
	}
}

func newTestEngine(store TradeReader, prices PriceSource, m *metrics.Metrics) *Engine {
	cfg := &config.Dashboard{FeeRate: DefaultFeeRate, TimeFormat: DefaultLabelTimeFormat}
	return NewEngine(zap.NewNop(), cfg, store, prices, m)
}

func setupStore(btc, eth []models.Trade) *MockTradeReader {
	store := new(MockTradeReader)
	store.On("LoadTrades", models.BTC).Return(btc, nil)
	store.On("LoadTrades", models.ETH).Return(eth, nil)
	return store
}

func TestEngine_Build_Both(t *testing.T) {
	store := setupStore(btcTrades(), ethTrades())
	engine := newTestEngine(store, nil, nil)

	dash, err := engine.Build(context.Background(), ViewBoth)
	require.NoError(t, err)
	store.AssertExpectations(t)

	assert.False(t, dash.Empty)
	assert.False(t, dash.LivePrices)

	require.Len(t, dash.Assets, 2)
	assert.Equal(t, SuccessStats{Successful: 1, Total: 2}, dash.Assets[0].Success)
	assert.Equal(t, 50.0, dash.Assets[0].SuccessRate)
	// zero average buy price never counts as a success
	assert.Equal(t, SuccessStats{Successful: 0, Total: 1}, dash.Assets[1].Success)

	assert.Equal(t, 25000000.0, dash.Assets[0].Value)
	// cash comes from the most recent row overall: BTC at minute 40
	assert.Equal(t, 26200000.0, dash.Portfolio.Total)
	assert.Equal(t, "₩1,200,000", dash.Composition[2].Balance)

	// trades of the combined view are newest first
	ids := make([]uint, 0, len(dash.Trades))
	for _, tr := range dash.Trades {
		ids = append(ids, tr.ID)
	}
	assert.Equal(t, []uint{5, 4, 3, 2, 1}, ids)

	require.Len(t, dash.Series, 2)
	assert.Equal(t, models.BTC, dash.Series[0].Coin)
	assert.Len(t, dash.Series[0].Balance, 3)
	assert.Equal(t, models.ETH, dash.Series[1].Coin)
	assert.Len(t, dash.Series[1].Price, 2)

	require.Len(t, dash.Reflections, 2)
	assert.Equal(t, uint(3), dash.Reflections[0].ID)
	assert.Equal(t, uint(2), dash.Reflections[1].ID)

	assert.Equal(t, []DecisionCount{
		{Decision: models.Sell, Count: 3},
		{Decision: models.Buy, Count: 1},
		{Decision: models.Hold, Count: 1},
	}, dash.Decisions)
}

func TestEngine_Build_SingleCoin(t *testing.T) {
	store := setupStore(btcTrades(), ethTrades())
	engine := newTestEngine(store, nil, nil)

	dash, err := engine.Build(context.Background(), ForCoin(models.ETH))
	require.NoError(t, err)

	assert.Len(t, dash.Trades, 2)
	assert.Equal(t, uint(2), dash.Trades[0].ID, "single coin view keeps storage order")
	require.Len(t, dash.Series, 1)
	assert.Equal(t, models.ETH, dash.Series[0].Coin)
	require.Len(t, dash.Reflections, 1)
	assert.Equal(t, "stayed flat", dash.Reflections[0].Reflection)
	// both asset panels are always computed
	assert.Len(t, dash.Assets, 2)
}

func TestEngine_Build_Empty(t *testing.T) {
	store := setupStore([]models.Trade{}, []models.Trade{})
	engine := newTestEngine(store, nil, nil)

	dash, err := engine.Build(context.Background(), ViewBoth)
	require.NoError(t, err)
	assert.True(t, dash.Empty)
	assert.Empty(t, dash.Assets)
	assert.Equal(t, 0.0, dash.Portfolio.Total)
}

func TestEngine_Build_OneCoinEmpty(t *testing.T) {
	store := setupStore(btcTrades(), []models.Trade{})
	engine := newTestEngine(store, nil, nil)

	dash, err := engine.Build(context.Background(), ForCoin(models.BTC))
	require.NoError(t, err)

	assert.Equal(t, SuccessStats{}, dash.Assets[1].Success)
	assert.Equal(t, 0.0, dash.Assets[1].SuccessRate)
	assert.False(t, dash.Assets[1].Latest.Found)
	assert.Equal(t, "0.00000000", dash.Composition[1].Balance)
}

func TestEngine_Build_StoreError(t *testing.T) {
	store := new(MockTradeReader)
	store.On("LoadTrades", models.BTC).Return([]models.Trade(nil), errors.New("database is locked"))
	m := metrics.New()
	engine := newTestEngine(store, nil, m)

	dash, err := engine.Build(context.Background(), ViewBoth)
	assert.Nil(t, dash)
	assert.ErrorContains(t, err, "could not load BTC trades")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("Both", "error")))
}

func TestEngine_Build_LivePrices(t *testing.T) {
	t.Run("QuotesApplied", func(t *testing.T) {
		store := setupStore(btcTrades(), ethTrades())
		prices := new(MockPriceSource)
		prices.On("Prices", models.TrackedCoins).Return(map[models.Coin]float64{models.BTC: 60000000}, nil)
		engine := newTestEngine(store, prices, nil)

		dash, err := engine.Build(context.Background(), ViewBoth)
		require.NoError(t, err)
		prices.AssertExpectations(t)

		assert.True(t, dash.LivePrices)
		assert.Equal(t, 60000000.0, dash.Assets[0].Latest.Price)
		assert.Equal(t, 30000000.0, dash.Assets[0].Value)
		// ETH has no quote and keeps the stored price
		assert.Equal(t, 3100000.0, dash.Assets[1].Latest.Price)
	})

	t.Run("FeedDown", func(t *testing.T) {
		store := setupStore(btcTrades(), ethTrades())
		prices := new(MockPriceSource)
		prices.On("Prices", mock.Anything).Return(map[models.Coin]float64(nil), errors.New("timeout"))
		m := metrics.New()
		engine := newTestEngine(store, prices, m)

		dash, err := engine.Build(context.Background(), ViewBoth)
		require.NoError(t, err)

		assert.False(t, dash.LivePrices)
		assert.Equal(t, 50000000.0, dash.Assets[0].Latest.Price)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.PriceFeedFailures))
	})
}
