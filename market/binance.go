package market

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
)

// BinanceSource fetches candles and last-traded prices from the Binance REST
// API. It is read-only: no order endpoints are ever called.
type BinanceSource struct {
	client *binance.Client
}

// NewBinanceSource builds a source from API credentials. Empty credentials are
// fine for the public market-data endpoints used here.
func NewBinanceSource(apiKey, apiSecret string) *BinanceSource {
	return &BinanceSource{client: binance.NewClient(apiKey, apiSecret)}
}

func (b *BinanceSource) Candles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error) {
	klines, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s klines: %w", symbol, interval, err)
	}

	candles := make([]Candle, 0, len(klines))
	for _, k := range klines {
		c, err := candleFromKline(k)
		if err != nil {
			return nil, fmt.Errorf("parse %s kline at %d: %w", symbol, k.OpenTime, err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func (b *BinanceSource) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch %s price: %w", symbol, err)
	}
	if len(prices) == 0 {
		return decimal.Zero, fmt.Errorf("fetch %s price: empty response", symbol)
	}
	px, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s price %q: %w", symbol, prices[0].Price, err)
	}
	return px, nil
}

func candleFromKline(k *binance.Kline) (Candle, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return Candle{}, err
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return Candle{}, err
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return Candle{}, err
	}
	closePx, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return Candle{}, err
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return Candle{}, err
	}

	return Candle{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePx,
		Volume: volume,
	}, nil
}
