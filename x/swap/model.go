package swap

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/orm"
)

// Agreement is the immutable part of a swap, decided at setup.
type Agreement struct {
	AssetEscrower   pswap.Address `protobuf:"bytes,1,opt,name=asset_escrower,json=assetEscrower,proto3" json:"asset_escrower"`
	PremiumEscrower pswap.Address `protobuf:"bytes,2,opt,name=premium_escrower,json=premiumEscrower,proto3" json:"premium_escrower"`
	CommitmentKey   []byte        `protobuf:"bytes,3,opt,name=commitment_key,json=commitmentKey,proto3" json:"commitment_key"`
	AssetTicker     string        `protobuf:"bytes,4,opt,name=asset_ticker,json=assetTicker,proto3" json:"asset_ticker"`
}

// Validate returns an error if the agreement cannot be used.
func (a *Agreement) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "AssetEscrower", a.AssetEscrower.Validate())
	errs = errors.AppendField(errs, "PremiumEscrower", a.PremiumEscrower.Validate())
	if a.AssetEscrower.Equals(a.PremiumEscrower) && len(a.AssetEscrower) != 0 {
		errs = errors.AppendField(errs, "PremiumEscrower",
			errors.Wrap(errors.ErrInvalidInput, "both parties are the same"))
	}
	errs = errors.AppendField(errs, "CommitmentKey", validateCommitmentKey(a.CommitmentKey))
	if !coin.IsCC(a.AssetTicker) {
		errs = errors.AppendField(errs, "AssetTicker",
			errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", a.AssetTicker))
	}
	return errs
}

// AssetPosition tracks the escrowed asset.
type AssetPosition struct {
	Expected uint64         `protobuf:"varint,1,opt,name=expected,proto3" json:"expected"`
	Current  uint64         `protobuf:"varint,2,opt,name=current,proto3" json:"current"`
	Deadline pswap.UnixTime `protobuf:"varint,3,opt,name=deadline,proto3" json:"deadline"`
	Timeout  pswap.UnixTime `protobuf:"varint,4,opt,name=timeout,proto3" json:"timeout"`
}

// PremiumPosition tracks the escrowed premium.
type PremiumPosition struct {
	Expected uint64         `protobuf:"varint,1,opt,name=expected,proto3" json:"expected"`
	Current  uint64         `protobuf:"varint,2,opt,name=current,proto3" json:"current"`
	Deadline pswap.UnixTime `protobuf:"varint,3,opt,name=deadline,proto3" json:"deadline"`
}

// Swap is the complete state of a single swap. All three parts share the
// lifecycle of the record.
type Swap struct {
	Agreement Agreement       `protobuf:"bytes,1,opt,name=agreement,proto3" json:"agreement"`
	Asset     AssetPosition   `protobuf:"bytes,2,opt,name=asset,proto3" json:"asset"`
	Premium   PremiumPosition `protobuf:"bytes,3,opt,name=premium,proto3" json:"premium"`
}

var _ orm.Model = (*Swap)(nil)

// Key returns the commitment key the swap is stored under.
func (s *Swap) Key() []byte {
	return s.Agreement.CommitmentKey
}

// Deadlines returns the deadlines of this swap.
func (s *Swap) Deadlines() Deadlines {
	return Deadlines{
		Premium: s.Premium.Deadline,
		Asset:   s.Asset.Deadline,
		Timeout: s.Asset.Timeout,
	}
}

// Validate ensures the Swap is valid
func (s *Swap) Validate() error {
	errs := s.Agreement.Validate()
	if s.Asset.Expected == 0 {
		errs = errors.AppendField(errs, "Asset.Expected", errors.ErrInvalidAmount)
	}
	if s.Asset.Current != 0 && s.Asset.Current != s.Asset.Expected {
		errs = errors.AppendField(errs, "Asset.Current",
			errors.Wrapf(errors.ErrInvalidState, "%d of %d", s.Asset.Current, s.Asset.Expected))
	}
	if s.Premium.Expected == 0 {
		errs = errors.AppendField(errs, "Premium.Expected", errors.ErrInvalidAmount)
	}
	if s.Premium.Current != 0 && s.Premium.Current != s.Premium.Expected {
		errs = errors.AppendField(errs, "Premium.Current",
			errors.Wrapf(errors.ErrInvalidState, "%d of %d", s.Premium.Current, s.Premium.Expected))
	}
	if s.Asset.Current != 0 && s.Premium.Current == 0 {
		errs = errors.AppendField(errs, "Asset.Current",
			errors.Wrap(errors.ErrInvalidState, "asset escrowed without premium"))
	}
	errs = errors.AppendField(errs, "Deadlines", s.Deadlines().Validate())
	return errs
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

// Marshal serializes the swap using the protobuf binary format.
func (s *Swap) Marshal() ([]byte, error) {
	return orm.MarshalMessage((*swapMessage)(s))
}

// Unmarshal loads a swap serialized by Marshal. Unknown fields are ignored.
func (s *Swap) Unmarshal(raw []byte) error {
	return orm.UnmarshalMessage(raw, (*swapMessage)(s))
}

// swapMessage is the wire view of a Swap. Agreement and both positions are
// encoded as embedded messages.
type swapMessage Swap

func (m *swapMessage) Reset()         { *m = swapMessage{} }
func (m *swapMessage) String() string { return proto.CompactTextString(m) }
func (*swapMessage) ProtoMessage()    {}

// State of a stored swap. Terminal states are never stored because the
// record is deleted.
type State int

const (
	// Created swap waits for the premium.
	Created State = iota + 1
	// PremiumEscrowed swap waits for the asset.
	PremiumEscrowed
	// AssetEscrowed swap waits for the redemption.
	AssetEscrowed
)

var stateNames = map[State]string{
	Created:         "created",
	PremiumEscrowed: "premium_escrowed",
	AssetEscrowed:   "asset_escrowed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// MarshalText renders the state name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(raw []byte) error {
	for state, name := range stateNames {
		if name == string(raw) {
			*s = state
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInvalidInput, "unknown state %q", raw)
}

// State returns the lifecycle state inferred from the positions.
func (s *Swap) State() State {
	switch {
	case s.Premium.Current == 0:
		return Created
	case s.Asset.Current == 0:
		return PremiumEscrowed
	default:
		return AssetEscrowed
	}
}

// CustodyAddress returns the address holding the escrowed value of the swap
// with given commitment key.
func CustodyAddress(key []byte) pswap.Address {
	return pswap.NewCondition("pswap", "custody", key).Address()
}
