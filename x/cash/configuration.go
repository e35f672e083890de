package cash

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/gconf"
	"github.com/iov-one/pswap/orm"
)

const packageName = "cash"

// Configuration of the ledger.
type Configuration struct {
	// NativeTicker is the currency moved by NativeTransfer.
	NativeTicker string `protobuf:"bytes,1,opt,name=native_ticker,json=nativeTicker,proto3" json:"native_ticker"`
	// CollectorAddress receives all transfer fees.
	CollectorAddress pswap.Address `protobuf:"bytes,2,opt,name=collector_address,json=collectorAddress,proto3" json:"collector_address"`
	// TransferFees is charged on every gateway transfer of the fee
	// currency. At most one fee per ticker.
	TransferFees coin.Coins `protobuf:"bytes,3,rep,name=transfer_fees,json=transferFees,proto3" json:"transfer_fees"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// Validate returns an error if the configuration cannot be used.
func (c *Configuration) Validate() error {
	var errs error
	if !coin.IsCC(c.NativeTicker) {
		errs = errors.AppendField(errs, "NativeTicker", errors.ErrCurrency)
	}
	if len(c.TransferFees) != 0 {
		errs = errors.AppendField(errs, "CollectorAddress", c.CollectorAddress.Validate())
		errs = errors.AppendField(errs, "TransferFees", c.TransferFees.Validate())
	} else if len(c.CollectorAddress) != 0 {
		errs = errors.AppendField(errs, "CollectorAddress", c.CollectorAddress.Validate())
	}
	return errs
}

// Fee returns the amount charged for transferring given ticker.
func (c *Configuration) Fee(ticker string) uint64 {
	return c.TransferFees.Get(ticker)
}

// Marshal serializes the configuration using the protobuf binary format.
func (c *Configuration) Marshal() ([]byte, error) {
	return orm.MarshalMessage((*configurationMessage)(c))
}

// Unmarshal loads a configuration serialized by Marshal.
func (c *Configuration) Unmarshal(raw []byte) error {
	return orm.UnmarshalMessage(raw, (*configurationMessage)(c))
}

type configurationMessage Configuration

func (m *configurationMessage) Reset()         { *m = configurationMessage{} }
func (m *configurationMessage) String() string { return proto.CompactTextString(m) }
func (*configurationMessage) ProtoMessage()    {}

// SaveConfiguration validates and stores the ledger configuration.
func SaveConfiguration(db gconf.Store, c *Configuration) error {
	return gconf.Save(db, packageName, c)
}

// LoadConfiguration returns the ledger configuration.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var c Configuration
	if err := gconf.Load(db, packageName, &c); err != nil {
		return nil, errors.Wrap(err, "load cash configuration")
	}
	return &c, nil
}
