package cash

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

//---- Set

// Set is the content of a wallet.
type Set struct {
	Coins coin.Coins `protobuf:"bytes,1,rep,name=coins,proto3"`
}

var _ orm.CloneableData = (*Set)(nil)

// Validate requires that all coins are in alphabetical
func (s *Set) Validate() error {
	return s.Coins.Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Coins: s.Coins.Clone(),
	}
}

// Marshal serializes the set using the protobuf binary format.
func (s *Set) Marshal() ([]byte, error) {
	return orm.MarshalMessage((*setMessage)(s))
}

// Unmarshal loads a set serialized by Marshal.
func (s *Set) Unmarshal(raw []byte) error {
	return orm.UnmarshalMessage(raw, (*setMessage)(s))
}

type setMessage Set

func (m *setMessage) Reset()         { *m = setMessage{} }
func (m *setMessage) String() string { return proto.CompactTextString(m) }
func (*setMessage) ProtoMessage()    {}

//--- Wallet (Set object, wallet + key)

// Wallet is the actual object that we want to pass around
// in our code. It contains a set of coins, as well as the
// address. It is connected to the Bucket to easily manipulate
// state.
//
// Wallet is a type-safe wrapper around orm.SimpleObj
type Wallet struct {
	key   []byte
	value *Set
}

var _ orm.Object = (*Wallet)(nil)

// NewWallet creates an empty wallet with this address
func NewWallet(key pswap.Address) *Wallet {
	return &Wallet{key: key, value: new(Set)}
}

// WalletWith creates a wallet holding given coins.
func WalletWith(key pswap.Address, coins ...*coin.Coin) (*Wallet, error) {
	w := NewWallet(key)
	for _, c := range coins {
		if c == nil {
			continue
		}
		if err := w.Add(*c); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Value gets the value stored in the object
func (w Wallet) Value() pswap.Persistent {
	return w.value
}

// Key returns the key to store the object under
func (w Wallet) Key() []byte {
	return w.key
}

// Validate makes sure the fields aren't empty.
// And delegates to the value validator if present
func (w Wallet) Validate() error {
	if len(w.key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	return w.value.Validate()
}

// SetKey may be used to update a simple obj key
func (w *Wallet) SetKey(key []byte) {
	w.key = key
}

// Clone will make a copy of this object
func (w *Wallet) Clone() orm.Object {
	res := &Wallet{
		value: w.value.Copy().(*Set),
	}
	// only copy key if non-nil
	if len(w.key) > 0 {
		res.key = append([]byte(nil), w.key...)
	}
	return res
}

// Coins returns the coins stored in the wallet
func (w Wallet) Coins() coin.Coins {
	return w.value.Coins
}

// Add modifies the wallet to add Coin c
func (w *Wallet) Add(c coin.Coin) error {
	cs, err := w.Coins().Add(c)
	if err != nil {
		return err
	}
	w.value.Coins = cs
	return nil
}

// Subtract modifies the wallet to remove Coin c
func (w *Wallet) Subtract(c coin.Coin) error {
	cs, err := w.Coins().Subtract(c)
	if err != nil {
		return err
	}
	w.value.Coins = cs
	return nil
}

//--- cash.Bucket - type-safe bucket

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

// Get returns the wallet of given address or nil.
func (b Bucket) Get(db pswap.ReadOnlyKVStore, key pswap.Address) (*Wallet, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	w, ok := obj.(*Wallet)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidType, obj)
	}
	return w, nil
}

// Save persists the wallet. An empty wallet is removed from the store.
func (b Bucket) Save(db pswap.KVStore, w *Wallet) error {
	if w.Coins().IsEmpty() {
		ok, err := b.Bucket.Has(db, w.Key())
		if err != nil || !ok {
			return err
		}
		return b.Bucket.Delete(db, w.Key())
	}
	return b.Bucket.Save(db, w)
}

// GetOrCreate returns the wallet of given address or a new empty wallet.
func (b Bucket) GetOrCreate(db pswap.ReadOnlyKVStore, key pswap.Address) (*Wallet, error) {
	wallet, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		wallet = NewWallet(key)
	}
	return wallet, nil
}
