package swap

import (
	"context"

	"github.com/google/uuid"

	"github.com/iov-one/pswap"
)

// EventKind names a completed transition.
type EventKind string

// Kinds of events emitted by the engine, one per transition.
const (
	KindSetUp           EventKind = "pswap.set_up"
	KindPremiumEscrowed EventKind = "pswap.premium_escrowed"
	KindAssetEscrowed   EventKind = "pswap.asset_escrowed"
	KindAssetRedeemed   EventKind = "pswap.asset_redeemed"
	KindPremiumRefunded EventKind = "pswap.premium_refunded"
	KindAssetRefunded   EventKind = "pswap.asset_refunded"
	KindPremiumRedeemed EventKind = "pswap.premium_redeemed"
)

// Transfer describes value moved by the ledger.
type Transfer struct {
	Ticker      string        `json:"ticker"`
	Amount      uint64        `json:"amount"`
	Source      pswap.Address `json:"source"`
	Destination pswap.Address `json:"destination"`
}

// Event is emitted after a transition was committed. The primary transfer of
// the transition is described by the top level fields, Settlements lists
// every transfer that took place, in order.
type Event struct {
	ID             uuid.UUID      `json:"id"`
	Kind           EventKind      `json:"kind"`
	CommitmentKey  []byte         `json:"commitment_key"`
	Caller         pswap.Address  `json:"caller"`
	Ticker         string         `json:"ticker"`
	Amount         uint64         `json:"amount"`
	Source         pswap.Address  `json:"source,omitempty"`
	Destination    pswap.Address  `json:"destination,omitempty"`
	PremiumCurrent uint64         `json:"premium_current"`
	AssetCurrent   uint64         `json:"asset_current"`
	Time           pswap.UnixTime `json:"time"`
	Settlements    []Transfer     `json:"settlements,omitempty"`
}

// EventSink receives the events of committed transitions. An error returned
// by the sink never reverts a transition.
type EventSink interface {
	Emit(ctx context.Context, e Event) error
}

// nopSink drops all events.
type nopSink struct{}

func (nopSink) Emit(context.Context, Event) error { return nil }
