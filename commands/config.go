package commands

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/pswap/errors"
)

const (
	flagHome         = "home"
	flagLogLevel     = "log-level"
	flagOutput       = "output"
	flagHTTPAddr     = "http-addr"
	flagSQLitePath   = "sqlite-path"
	flagKafkaBrokers = "kafka-brokers"
	flagKafkaTopic   = "kafka-topic"
	flagRedisURL     = "redis-url"
	flagLockTTL      = "lock-ttl"
)

// Config is the process configuration of pswapd.
type Config struct {
	Home         string
	LogLevel     string
	Output       string
	HTTPAddr     string
	SQLitePath   string
	KafkaBrokers []string
	KafkaTopic   string
	RedisURL     string
	LockTTL      time.Duration
}

// DefaultHome returns the directory used when no home is configured.
func DefaultHome() string {
	return filepath.Join(os.ExpandEnv("$HOME"), ".pswapd")
}

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String(flagHome, DefaultHome(), "directory to store files under")
	f.String(flagLogLevel, "info", "log level (debug|info|error|none)")
	f.StringP(flagOutput, "o", "json", "output format (json|yaml)")
	f.String(flagSQLitePath, "", "file of the SQLite event log, disabled if empty")
	f.StringSlice(flagKafkaBrokers, nil, "kafka brokers receiving the events")
	f.String(flagKafkaTopic, "pswap.events", "kafka topic of the events")
	f.String(flagRedisURL, "", "redis server used for the home and swap locks, in process locks if empty")
	f.Duration(flagLockTTL, 30*time.Second, "expiration of an unreleased redis lock")
}

// loadConfig merges the flags, the environment and the config file of the
// home directory.
func loadConfig(v *viper.Viper, cmd *cobra.Command) (*Config, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	v.SetEnvPrefix("PSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString(flagHome))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "config file: %s", err)
		}
	}

	c := &Config{
		Home:         v.GetString(flagHome),
		LogLevel:     v.GetString(flagLogLevel),
		Output:       v.GetString(flagOutput),
		HTTPAddr:     v.GetString(flagHTTPAddr),
		SQLitePath:   v.GetString(flagSQLitePath),
		KafkaBrokers: v.GetStringSlice(flagKafkaBrokers),
		KafkaTopic:   v.GetString(flagKafkaTopic),
		RedisURL:     v.GetString(flagRedisURL),
		LockTTL:      v.GetDuration(flagLockTTL),
	}
	if c.Output != "json" && c.Output != "yaml" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown output format %q", c.Output)
	}
	return c, nil
}

// newLogger returns a logger writing to w, filtered by given level
// description.
func newLogger(w io.Writer, level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "log level: %s", err)
	}
	return log.NewFilter(logger, opt).With("module", "pswapd"), nil
}
