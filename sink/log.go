package sink

import (
	"context"
	"encoding/hex"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/pswap/x/swap"
)

// Log writes every event to a logger.
type Log struct {
	logger log.Logger
}

var _ swap.EventSink = (*Log)(nil)

// NewLog returns a sink writing to given logger.
func NewLog(logger log.Logger) *Log {
	return &Log{logger: logger.With("module", "sink")}
}

// Emit logs the event. It never fails.
func (l *Log) Emit(ctx context.Context, e swap.Event) error {
	l.logger.Info("swap event",
		"id", e.ID.String(),
		"kind", string(e.Kind),
		"key", hex.EncodeToString(e.CommitmentKey),
		"caller", e.Caller,
		"ticker", e.Ticker,
		"amount", e.Amount,
		"premium", e.PremiumCurrent,
		"asset", e.AssetCurrent,
		"time", e.Time,
	)
	return nil
}
