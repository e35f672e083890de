package coin

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/orm"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// MaxAmount is the largest amount a single coin can hold.
const MaxAmount uint64 = math.MaxInt64

// Coin is an amount of indivisible units of a single currency.
type Coin struct {
	Ticker string `protobuf:"bytes,1,opt,name=ticker,proto3" json:"ticker"`
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

// NewCoin creates a new coin object
func NewCoin(amount uint64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: amount,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// ID returns a coin ticker name.
func (c Coin) ID() string {
	return c.Ticker
}

// Add combines two coins.
// Returns error if they are of different
// currencies, or if the combination would cause
// an overflow
func (c Coin) Add(o Coin) (Coin, error) {
	// If any of the coins represents no value and does not have a ticker
	// set then it has no influence on the addition result.
	if c.Ticker == "" && c.IsZero() {
		return o, nil
	}
	if o.Ticker == "" && o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	if MaxAmount-c.Amount < o.Amount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", c, o)
	}
	c.Amount += o.Amount
	return c, nil
}

// Subtract given amount. Coins cannot hold a negative value and
// ErrInsufficientAmount is returned when o is greater than c.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	if c.Amount < o.Amount {
		return Coin{}, errors.Wrapf(errors.ErrInsufficientAmount, "%s - %s", c, o)
	}
	c.Amount -= o.Amount
	return c, nil
}

// Compare will check values of two coins, without
// inspecting the currency code.
//
// Returns 1 if c is larger, -1 if o is larger, 0 if equal
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount > o.Amount:
		return 1
	case c.Amount < o.Amount:
		return -1
	default:
		return 0
	}
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true amounts are 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsGTE returns true if c is same type and at least
// as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same currency
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate ensures that the coin is in the valid range
// and valid currency code.
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "invalid currency: %q", c.Ticker))
	}
	if c.Amount > MaxAmount {
		err = errors.Append(err, errors.ErrOverflow)
	}
	return err
}

// Marshal serializes the coin using the protobuf binary format.
func (c *Coin) Marshal() ([]byte, error) {
	return orm.MarshalMessage((*coinMessage)(c))
}

// Unmarshal loads a coin serialized by Marshal.
func (c *Coin) Unmarshal(raw []byte) error {
	return orm.UnmarshalMessage(raw, (*coinMessage)(c))
}

type coinMessage Coin

func (m *coinMessage) Reset()         { *m = coinMessage{} }
func (m *coinMessage) String() string { return proto.CompactTextString(m) }
func (*coinMessage) ProtoMessage()    {}

// UnmarshalJSON accepts both the human readable "<amount> <ticker>" string
// and the object notation.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Fallback into the default unmarhaling. Because UnmarshalJSON method
	// is provided, we can no longer use Coin type for this.
	var coin struct {
		Ticker string `json:"ticker"`
		Amount uint64 `json:"amount"`
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	c.Ticker = coin.Ticker
	c.Amount = coin.Amount
	return nil
}

// String provides a human readable representation of the coin. For a valid
// coin the result can be parsed back with ParseHumanFormat.
func (c Coin) String() string {
	s := strconv.FormatUint(c.Amount, 10)
	if c.Ticker != "" {
		s += " " + c.Ticker
	}
	return s
}

// ParseHumanFormat parse a human readable coin representation. Accepted format
// is a string:
//   "<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	results := humanCoinFormatRx.FindStringSubmatch(h)
	if results == nil {
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "invalid coin format %q", h)
	}
	amount, err := strconv.ParseUint(results[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %q", results[1])
	}
	c := Coin{Amount: amount, Ticker: results[2]}
	if c.Amount > MaxAmount {
		return Coin{}, errors.Wrap(errors.ErrOverflow, "amount")
	}
	return c, nil
}

var humanCoinFormatRx = regexp.MustCompile(`^\s*(\d+)\s*([A-Z]{3,4})\s*$`)

// MustParse is ParseHumanFormat that panics on error. Use it only for static
// values and in tests.
func MustParse(h string) Coin {
	c, err := ParseHumanFormat(h)
	if err != nil {
		panic(fmt.Sprintf("%q: %s", h, err))
	}
	return c
}
