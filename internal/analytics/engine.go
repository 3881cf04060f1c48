package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"upbit-trade-dashboard/internal/config"
	"upbit-trade-dashboard/internal/metrics"
	"upbit-trade-dashboard/internal/models"
)

// TradeReader is the record store as seen by the engine.
type TradeReader interface {
	LoadTrades(ctx context.Context, coin *models.Coin) ([]models.Trade, error)
}

// PriceSource quotes current KRW prices. A coin missing from the result
// keeps its stored price.
type PriceSource interface {
	Prices(ctx context.Context, coins []models.Coin) (map[models.Coin]float64, error)
}

// AssetPerformance is the per-coin panel of the dashboard.
type AssetPerformance struct {
	Coin        models.Coin  `json:"coin"`
	Success     SuccessStats `json:"success"`
	SuccessRate float64      `json:"success_rate"`
	Latest      Snapshot     `json:"latest"`
	Value       float64      `json:"value"`
}

// Dashboard is everything one render shows.
type Dashboard struct {
	View        View               `json:"view"`
	GeneratedAt time.Time          `json:"generated_at"`
	Empty       bool               `json:"empty"`
	LivePrices  bool               `json:"live_prices"`
	Assets      []AssetPerformance `json:"assets"`
	Portfolio   Portfolio          `json:"portfolio"`
	Composition []CompositionRow   `json:"composition"`
	Decisions   []DecisionCount    `json:"decisions"`
	Trades      []TradeRow         `json:"trades"`
	Series      []Series           `json:"series"`
	Reflections []ReflectionEntry  `json:"reflections"`
}

// Engine computes dashboards from the record store. It keeps no state
// between builds.
type Engine struct {
	logger     *zap.Logger
	store      TradeReader
	prices     PriceSource
	metrics    *metrics.Metrics
	feeRate    float64
	timeFormat string
	now        func() time.Time
}

// NewEngine creates a new engine. prices and m may be nil.
func NewEngine(logger *zap.Logger, cfg *config.Dashboard, store TradeReader, prices PriceSource, m *metrics.Metrics) *Engine {
	feeRate := cfg.FeeRate
	if feeRate < 0 {
		logger.Warn("Negative fee rate configured, using default", zap.Float64("fee_rate", feeRate))
		feeRate = DefaultFeeRate
	}
	return &Engine{
		logger:     logger,
		store:      store,
		prices:     prices,
		metrics:    m,
		feeRate:    feeRate,
		timeFormat: cfg.TimeFormat,
		now:        time.Now,
	}
}

// Build runs one render pass for view. Only record store failures are
// returned; degenerate data yields zero metrics.
func (e *Engine) Build(ctx context.Context, view View) (dash *Dashboard, err error) {
	start := e.now()
	defer func() {
		e.metrics.ObserveRender(string(view), e.now().Sub(start), err)
	}()

	sets := make(map[models.Coin][]Record, len(models.TrackedCoins))
	for _, coin := range models.TrackedCoins {
		trades, err := e.store.LoadTrades(ctx, &coin)
		if err != nil {
			return nil, fmt.Errorf("could not load %s trades: %w", coin, err)
		}
		sets[coin] = NewRecords(trades)
	}

	records, err := viewRecords(view, sets)
	if err != nil {
		return nil, err
	}

	dash = &Dashboard{View: view, GeneratedAt: start}
	if len(records) == 0 {
		e.logger.Info("No trade data available", zap.String("view", string(view)))
		dash.Empty = true
		return dash, nil
	}

	snapshots := make([]Snapshot, 0, len(models.TrackedCoins))
	for _, coin := range models.TrackedCoins {
		success := SuccessRate(sets[coin], e.feeRate)
		snap := LatestSnapshot(coin, sets[coin])
		snapshots = append(snapshots, snap)
		dash.Assets = append(dash.Assets, AssetPerformance{
			Coin:        coin,
			Success:     success,
			SuccessRate: success.Rate(),
			Latest:      snap,
		})
	}

	dash.LivePrices = e.applyLivePrices(ctx, dash.Assets)

	holdings := make([]Holding, 0, len(dash.Assets))
	for i := range dash.Assets {
		h := Holding{Coin: dash.Assets[i].Coin, Balance: dash.Assets[i].Latest.Balance, Price: dash.Assets[i].Latest.Price}
		dash.Assets[i].Value = h.Value()
		holdings = append(holdings, h)
	}
	dash.Portfolio = Valuate(holdings, cashBalance(snapshots))
	dash.Composition = dash.Portfolio.Composition()

	dash.Decisions = DecisionCounts(records)
	dash.Trades = RecentTrades(records)
	dash.Reflections = Reflections(records, e.timeFormat)

	if coin, ok := view.Coin(); ok {
		dash.Series = []Series{Project(coin, sets[coin])}
	} else {
		for _, coin := range models.TrackedCoins {
			dash.Series = append(dash.Series, Project(coin, sets[coin]))
		}
	}

	e.logger.Debug("Dashboard built",
		zap.String("view", string(view)),
		zap.Int("records", len(records)),
		zap.Int("reflections", len(dash.Reflections)),
		zap.Float64("total_value", dash.Portfolio.Total),
	)
	return dash, nil
}

func viewRecords(view View, sets map[models.Coin][]Record) ([]Record, error) {
	if coin, ok := view.Coin(); ok {
		set, tracked := sets[coin]
		if !tracked {
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownCoin, coin)
		}
		return set, nil
	}
	all := make([][]Record, 0, len(models.TrackedCoins))
	for _, coin := range models.TrackedCoins {
		all = append(all, sets[coin])
	}
	return Combine(all...), nil
}

// cashBalance takes the KRW balance of the most recent snapshot, since cash
// is shared by every asset of the account.
func cashBalance(snapshots []Snapshot) float64 {
	var latest Snapshot
	for _, s := range snapshots {
		if s.Found && (!latest.Found || s.Timestamp.After(latest.Timestamp)) {
			latest = s
		}
	}
	return latest.KRWBalance
}

// applyLivePrices replaces stored prices with quotes when a price source is
// configured. It reports whether any quote was applied.
func (e *Engine) applyLivePrices(ctx context.Context, assets []AssetPerformance) bool {
	if e.prices == nil {
		return false
	}
	coins := make([]models.Coin, 0, len(assets))
	for _, a := range assets {
		coins = append(coins, a.Coin)
	}

	quotes, err := e.prices.Prices(ctx, coins)
	if err != nil {
		e.metrics.PriceFeedFailed()
		e.logger.Warn("Live prices unavailable, using stored prices", zap.Error(err))
		return false
	}

	applied := false
	for i := range assets {
		if price, ok := quotes[assets[i].Coin]; ok && price > 0 {
			assets[i].Latest.Price = price
			applied = true
		}
	}
	return applied
}
