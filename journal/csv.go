package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{
	"trade_id", "symbol", "side", "quantity", "entry_price", "exit_price",
	"opened_at", "closed_at", "realized_pnl", "balance_after", "reason",
}

type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

// NewCSV opens (or creates) the trade log for appending. The header row is
// only written for a fresh file, so restarts keep appending to the same log.
func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trade log: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.w.Write([]string{
		t.ID,
		t.Symbol,
		t.Side,
		t.Quantity.String(),
		t.EntryPrice.String(),
		t.ExitPrice.String(),
		t.OpenedAt.UTC().Format(time.RFC3339),
		t.ClosedAt.UTC().Format(time.RFC3339),
		t.RealizedPnL.String(),
		t.BalanceAfter.String(),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}

func scanDecimals(t *TradeRecord, qty, entry, exit, pnl, after string) error {
	var err error
	if t.Quantity, err = decimal.NewFromString(qty); err != nil {
		return fmt.Errorf("parse quantity %q: %w", qty, err)
	}
	if t.EntryPrice, err = decimal.NewFromString(entry); err != nil {
		return fmt.Errorf("parse entry price %q: %w", entry, err)
	}
	if t.ExitPrice, err = decimal.NewFromString(exit); err != nil {
		return fmt.Errorf("parse exit price %q: %w", exit, err)
	}
	if t.RealizedPnL, err = decimal.NewFromString(pnl); err != nil {
		return fmt.Errorf("parse realized pnl %q: %w", pnl, err)
	}
	if t.BalanceAfter, err = decimal.NewFromString(after); err != nil {
		return fmt.Errorf("parse balance %q: %w", after, err)
	}
	return nil
}
