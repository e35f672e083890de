package commands

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"io/ioutil"

	"github.com/spf13/cobra"

	"github.com/iov-one/pswap"
	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/lock"
	"github.com/iov-one/pswap/x/cash"
	"github.com/iov-one/pswap/x/swap"
)

// Initializers loads every genesis section understood by pswapd.
var Initializers = pswap.ChainInitializers(
	cash.Initializer{},
	swap.Initializer{},
)

type commitResult struct {
	Version int64  `json:"version"`
	Hash    string `json:"hash"`
}

func newInitCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init <genesis.json>",
		Short: "Initialize the state from a genesis file",
		Long: `Initialize the state from a genesis file. Use - to read the genesis from the
standard input. The genesis is a JSON object with the "cash" wallets and the
"conf" section holding the "cash" and "pswap" configurations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readGenesis(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			var opts pswap.Options
			if err := json.Unmarshal(raw, &opts); err != nil {
				return errors.Wrapf(errors.ErrInvalidInput, "genesis: %s", err)
			}

			return e.withHome(func(lock.RedisClient) error {
				return initialize(e, opts)
			})
		},
	}
}

func initialize(e *env, opts pswap.Options) error {
	db, err := openStore(e.conf.Home)
	if err != nil {
		return err
	}
	defer db.Close()

	latest, err := db.LatestVersion()
	if err != nil {
		return err
	}
	if latest.Version != 0 {
		return errors.Wrapf(errors.ErrDuplicate, "state in %s is already initialized", e.conf.Home)
	}

	cache := db.CacheWrap()
	if err := Initializers.FromGenesis(opts, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return err
	}
	id, err := db.Commit()
	if err != nil {
		return err
	}
	e.logger.Info("state initialized", "home", e.conf.Home, "version", id.Version)
	return e.print(commitResult{Version: id.Version, Hash: hex.EncodeToString(id.Hash)})
}

func readGenesis(stdin io.Reader, path string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = ioutil.ReadAll(stdin)
	} else {
		raw, err = ioutil.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "read genesis: %s", err)
	}
	return raw, nil
}
