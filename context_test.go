package pswap

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(ctx))

	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx = WithLogger(ctx, logger)
	ctx = WithLogInfo(ctx, "module", "test")

	GetLogger(ctx).Info("hello", "key", "value")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "module=test")
	assert.Contains(t, buf.String(), "key=value")
}
