package commands

import (
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/lock"
	"github.com/iov-one/pswap/sink"
	"github.com/iov-one/pswap/store/iavl"
	"github.com/iov-one/pswap/x/cash"
	"github.com/iov-one/pswap/x/swap"
)

// node is the swap engine running on the persistent state of the home
// directory, together with its event sinks and locks.
type node struct {
	store  *iavl.CommitStore
	ledger cash.BaseController
	engine *swap.Engine
	audit  *sink.SQLite

	closers []func() error
}

// openStore opens the versioned state kept in the home directory.
func openStore(home string) (*iavl.CommitStore, error) {
	dir := filepath.Join(home, "data")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create %s: %s", dir, err)
	}
	db, err := iavl.NewCommitStore(dir, "pswap")
	if err != nil {
		return nil, err
	}
	if err := db.LoadLatestVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// openNode wires the engine as configured. The state must be initialized.
// Swaps are locked in Redis when a client is given.
func openNode(c *Config, logger log.Logger, redisClient lock.RedisClient) (*node, error) {
	db, err := openStore(c.Home)
	if err != nil {
		return nil, err
	}
	n := &node{
		store:  db,
		ledger: cash.NewController(cash.NewBucket()),
	}
	n.closers = append(n.closers, func() error { db.Close(); return nil })

	if v, err := db.LatestVersion(); err != nil || v.Version == 0 {
		n.Close()
		return nil, errors.Wrapf(errors.ErrNotFound, "state in %s is not initialized, run init first", c.Home)
	}

	sinks := sink.Multi{sink.NewLog(logger)}
	if c.SQLitePath != "" {
		audit, err := sink.OpenSQLite(c.SQLitePath)
		if err != nil {
			n.Close()
			return nil, errors.Wrap(err, "sqlite sink")
		}
		n.audit = audit
		n.closers = append(n.closers, audit.Close)
		sinks = append(sinks, audit)
	}
	if len(c.KafkaBrokers) != 0 {
		k, err := sink.NewKafka(c.KafkaBrokers, c.KafkaTopic)
		if err != nil {
			n.Close()
			return nil, errors.Wrap(err, "kafka sink")
		}
		n.closers = append(n.closers, k.Close)
		sinks = append(sinks, k)
	}

	opts := []swap.EngineOption{
		swap.WithLogger(logger),
		swap.WithSink(sinks),
	}
	if redisClient != nil {
		opts = append(opts, swap.WithLocker(lock.NewRedis(redisClient, lock.WithTTL(c.LockTTL))))
	}

	engine, err := swap.NewEngine(db, cash.NewGateway(n.ledger), opts...)
	if err != nil {
		n.Close()
		return nil, err
	}
	n.engine = engine
	return n, nil
}

// Close releases all resources in the reverse order of acquisition.
func (n *node) Close() error {
	var errs error
	for i := len(n.closers) - 1; i >= 0; i-- {
		errs = errors.Append(errs, n.closers[i]())
	}
	n.closers = nil
	return errs
}
