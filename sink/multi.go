package sink

import (
	"context"

	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/x/swap"
)

// Multi emits every event to all of its sinks.
type Multi []swap.EventSink

var _ swap.EventSink = Multi(nil)

// Emit passes the event to every sink, even if some of them fail. All
// failures are returned.
func (m Multi) Emit(ctx context.Context, e swap.Event) error {
	var errs error
	for _, s := range m {
		errs = errors.Append(errs, s.Emit(ctx, e))
	}
	return errs
}
