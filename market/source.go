package market

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceSource supplies the last traded price for a symbol. The position
// monitor polls this once per tick.
type PriceSource interface {
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// DataSource supplies candle history on top of last-price polling. Calls may
// fail transiently; callers retry per their own policy.
type DataSource interface {
	PriceSource
	Candles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
}
