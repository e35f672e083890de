package cash

import (
	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/coin"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/gconf"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use pswap.Address, so address in hex, not base64
type GenesisAccount struct {
	Address pswap.Address `json:"address"`
	Coins   coin.Coins    `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ pswap.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts pswap.Options, kv pswap.KVStore) error {
	if err := gconf.InitConfig(kv, opts, packageName, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	bucket := NewBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		wallet, err := WalletWith(acct.Address, acct.Coins...)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := bucket.Save(kv, wallet); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
