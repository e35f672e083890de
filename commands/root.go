package commands

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/yaml.v3"

	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/lock"
)

// env is shared by all commands of a single invocation.
type env struct {
	v      *viper.Viper
	conf   *Config
	logger log.Logger
	out    io.Writer
	errOut io.Writer

	dialRedis func(url string) (redisClient, error)
}

// redisClient is the connection shared by the home lock and the swap locks.
type redisClient interface {
	lock.RedisClient
	Close() error
}

func dialRedis(url string) (redisClient, error) {
	c, err := lock.Connect(url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewRootCommand returns the pswapd command tree. Results are written to out,
// logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	e := &env{v: viper.New(), out: out, errOut: errOut, dialRedis: dialRedis}

	cmd := &cobra.Command{
		Use:           "pswapd",
		Short:         "Premium backed hash locked swaps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(e.v, cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(e.errOut, conf.LogLevel)
			if err != nil {
				return err
			}
			e.conf, e.logger = conf, logger
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	addGlobalFlags(cmd)

	cmd.AddCommand(
		newInitCommand(e),
		newSetupCommand(e),
		newEscrowPremiumCommand(e),
		newEscrowAssetCommand(e),
		newRedeemAssetCommand(e),
		newRefundPremiumCommand(e),
		newRefundAssetCommand(e),
		newRedeemPremiumCommand(e),
		newQueryCommand(e),
		newHashCommand(e),
		newServeCommand(e),
		newVersionCommand(e),
	)
	return cmd
}

// print writes obj in the configured output format. YAML documents are
// produced from the JSON representation so that both formats render
// addresses and times the same way.
func (e *env) print(obj interface{}) error {
	raw, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if e.conf == nil || e.conf.Output != "yaml" {
		_, err := e.out.Write(append(raw, '\n'))
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	enc := yaml.NewEncoder(e.out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return enc.Close()
}

// withNode runs fn with an opened node and closes it afterwards.
func (e *env) withNode(fn func(n *node) error) error {
	return e.withHome(func(client lock.RedisClient) error {
		n, err := openNode(e.conf, e.logger, client)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := n.Close(); cerr != nil {
				e.logger.Error("cannot close node", "err", cerr)
			}
		}()
		return fn(n)
	})
}

// withHome runs fn while holding the lock of the home directory. Without
// Redis the exclusive lock of the store is all there is and a concurrent
// invocation fails at open. With Redis, invocations sharing a home wait for
// each other up to the lock TTL. The Redis client is passed to fn, or nil.
func (e *env) withHome(fn func(client lock.RedisClient) error) error {
	if e.conf.RedisURL == "" {
		return fn(nil)
	}
	client, err := e.dialRedis(e.conf.RedisURL)
	if err != nil {
		return errors.Wrap(err, "redis lock")
	}
	defer client.Close()

	home, err := filepath.Abs(e.conf.Home)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "home %s: %s", e.conf.Home, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.conf.LockTTL)
	defer cancel()
	unlock, err := lock.NewRedis(client, lock.WithTTL(e.conf.LockTTL)).Hold(ctx, homeLockKey(home))
	if err != nil {
		return errors.Wrapf(err, "home %s is in use", home)
	}
	defer unlock()

	return fn(client)
}

func homeLockKey(home string) []byte {
	return []byte("home:" + home)
}
