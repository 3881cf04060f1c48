package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCoin is returned when a coin name is not one of the tracked assets.
var ErrUnknownCoin = errors.New("unknown coin")

// Coin is a tracked crypto asset, stored in the coin_type column.
type Coin string

const (
	BTC Coin = "BTC"
	ETH Coin = "ETH"
)

// TrackedCoins lists the tracked assets in display order.
var TrackedCoins = []Coin{BTC, ETH}

// ParseCoin returns the tracked coin matching s, ignoring case.
func ParseCoin(s string) (Coin, error) {
	c := Coin(strings.ToUpper(strings.TrimSpace(s)))
	for _, tracked := range TrackedCoins {
		if c == tracked {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCoin, s)
}

// Market returns the KRW market code of the coin, e.g. "KRW-BTC".
func (c Coin) Market() string {
	return "KRW-" + string(c)
}

// Decision is the action recorded for a trade row.
type Decision string

const (
	Buy  Decision = "buy"
	Sell Decision = "sell"
	Hold Decision = "hold"
)
