package swap

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/gconf"
	"github.com/iov-one/pswap/orm"
)

const packageName = "pswap"

// Configuration of the swap engine.
type Configuration struct {
	// NativeTicker is the currency the premium is paid in.
	NativeTicker string `protobuf:"bytes,1,opt,name=native_ticker,json=nativeTicker,proto3" json:"native_ticker"`
	// MinDelta and MaxDelta limit the delta accepted at setup.
	MinDelta pswap.UnixDuration `protobuf:"varint,2,opt,name=min_delta,json=minDelta,proto3" json:"min_delta"`
	MaxDelta pswap.UnixDuration `protobuf:"varint,3,opt,name=max_delta,json=maxDelta,proto3" json:"max_delta"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// Validate returns an error if the configuration cannot be used.
func (c *Configuration) Validate() error {
	var errs error
	if !coin.IsCC(c.NativeTicker) {
		errs = errors.AppendField(errs, "NativeTicker",
			errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", c.NativeTicker))
	}
	if c.MinDelta < 1 {
		errs = errors.AppendField(errs, "MinDelta",
			errors.Wrap(errors.ErrInvalidInput, "must be at least one second"))
	}
	if c.MaxDelta < c.MinDelta {
		errs = errors.AppendField(errs, "MaxDelta",
			errors.Wrap(errors.ErrInvalidInput, "must not be less than the minimum"))
	}
	return errs
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

// SaveConfiguration validates and stores the engine configuration.
func SaveConfiguration(db gconf.Store, c *Configuration) error {
	return gconf.Save(db, packageName, c)
}

// LoadConfiguration returns the engine configuration.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var c Configuration
	if err := gconf.Load(db, packageName, &c); err != nil {
		return nil, errors.Wrap(err, "load swap configuration")
	}
	return &c, nil
}

// Initializer loads the engine configuration from the genesis file.
type Initializer struct{}

var _ pswap.Initializer = Initializer{}

// FromGenesis reads the "conf.pswap" section of the genesis.
func (Initializer) FromGenesis(opts pswap.Options, db pswap.KVStore) error {
	return gconf.InitConfig(db, opts, packageName, &Configuration{})
}
