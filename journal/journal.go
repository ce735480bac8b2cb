// Package journal is the append-only trade log. Records are write-once: a
// settled trade is recorded exactly once and never mutated or deleted.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one settled trade.
type TradeRecord struct {
	ID           string
	Symbol       string
	Side         string
	Quantity     decimal.Decimal
	EntryPrice   decimal.Decimal
	ExitPrice    decimal.Decimal
	OpenedAt     time.Time
	ClosedAt     time.Time
	RealizedPnL  decimal.Decimal
	BalanceAfter decimal.Decimal
	Reason       string
}

type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}
