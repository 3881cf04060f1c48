package models

// Trade is one row of the trades table written by the trading bot.
// Only the columns of the row's own CoinType are meaningful.
type Trade struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Timestamp      Timestamp `gorm:"index" json:"timestamp"`
	CoinType       Coin      `gorm:"index" json:"coin_type"`
	Decision       Decision  `json:"decision"`
	Percentage     float64   `json:"percentage"`
	Reason         *string   `json:"reason,omitempty"`
	KRWBalance     float64   `gorm:"column:krw_balance" json:"krw_balance"`
	BTCBalance     float64   `gorm:"column:btc_balance" json:"btc_balance"`
	BTCAvgBuyPrice float64   `gorm:"column:btc_avg_buy_price" json:"btc_avg_buy_price"`
	BTCKRWPrice    float64   `gorm:"column:btc_krw_price" json:"btc_krw_price"`
	ETHBalance     float64   `gorm:"column:eth_balance" json:"eth_balance"`
	ETHAvgBuyPrice float64   `gorm:"column:eth_avg_buy_price" json:"eth_avg_buy_price"`
	ETHKRWPrice    float64   `gorm:"column:eth_krw_price" json:"eth_krw_price"`
	Reflection     *string   `json:"reflection,omitempty"`
}

// TableName keeps the table name the bot writes to.
func (Trade) TableName() string {
	return "trades"
}

// Position holds the coin-specific figures of a row.
type Position struct {
	Coin        Coin    `json:"coin"`
	Balance     float64 `json:"balance"`
	KRWPrice    float64 `json:"krw_price"`
	AvgBuyPrice float64 `json:"avg_buy_price"`
}

// Position returns the figures for the row's own coin. A row with an
// unknown coin type yields a zero position carrying that coin.
func (t Trade) Position() Position {
	switch t.CoinType {
	case BTC:
		return Position{Coin: BTC, Balance: t.BTCBalance, KRWPrice: t.BTCKRWPrice, AvgBuyPrice: t.BTCAvgBuyPrice}
	case ETH:
		return Position{Coin: ETH, Balance: t.ETHBalance, KRWPrice: t.ETHKRWPrice, AvgBuyPrice: t.ETHAvgBuyPrice}
	default:
		return Position{Coin: t.CoinType}
	}
}
