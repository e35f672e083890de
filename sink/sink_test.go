package sink

import (
	"bytes"
	"context"
	"encoding/hex"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/pswaptest"
	"github.com/iov-one/pswap/x/swap"
)

func testEvent(kind swap.EventKind, key []byte) swap.Event {
	return swap.Event{
		ID:             uuid.New(),
		Kind:           kind,
		CommitmentKey:  key,
		Caller:         pswaptest.NamedAddress("alice"),
		Ticker:         "ETH",
		Amount:         100,
		Source:         pswaptest.NamedAddress("alice"),
		Destination:    swap.CustodyAddress(key),
		PremiumCurrent: 10,
		AssetCurrent:   100,
		Time:           1600000000,
		Settlements: []swap.Transfer{
			{
				Ticker:      "ETH",
				Amount:      100,
				Source:      pswaptest.NamedAddress("alice"),
				Destination: swap.CustodyAddress(key),
			},
		},
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	s := NewLog(log.NewTMLogger(log.NewSyncWriter(&buf)))

	key := swap.HashSecret([]byte("secret"))
	require.NoError(t, s.Emit(context.Background(), testEvent(swap.KindAssetEscrowed, key)))
	out := buf.String()
	assert.Contains(t, out, "swap event")
	assert.Contains(t, out, "kind=pswap.asset_escrowed")
	assert.Contains(t, out, "key="+hex.EncodeToString(key))
}

type failingSink struct{ err error }

func (f failingSink) Emit(context.Context, swap.Event) error { return f.err }

type countingSink struct {
	mu sync.Mutex
	n  int
}

func (c *countingSink) Emit(context.Context, swap.Event) error {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	return nil
}

func TestMulti(t *testing.T) {
	first, last := &countingSink{}, &countingSink{}
	m := Multi{first, failingSink{err: errors.ErrDatabase}, last}

	err := m.Emit(context.Background(), testEvent(swap.KindSetUp, swap.HashSecret(nil)))
	assert.True(t, errors.ErrDatabase.Is(err))
	assert.Equal(t, 1, first.n)
	assert.Equal(t, 1, last.n, "a failing sink must not stop the others")

	require.NoError(t, Multi{first}.Emit(context.Background(), testEvent(swap.KindSetUp, nil)))
	require.NoError(t, Multi(nil).Emit(context.Background(), testEvent(swap.KindSetUp, nil)))
}

func TestSQLite(t *testing.T) {
	dir, err := ioutil.TempDir("", "pswap-sink")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := OpenSQLite(filepath.Join(dir, "audit.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	keyA := swap.HashSecret([]byte("a"))
	keyB := swap.HashSecret([]byte("b"))

	setUp := testEvent(swap.KindSetUp, keyA)
	escrowed := testEvent(swap.KindPremiumEscrowed, keyA)
	other := testEvent(swap.KindSetUp, keyB)
	for _, e := range []swap.Event{setUp, escrowed, other} {
		require.NoError(t, s.Emit(ctx, e))
	}

	history, err := s.History(ctx, keyA)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, setUp, history[0])
	assert.Equal(t, escrowed, history[1])

	history, err = s.History(ctx, swap.HashSecret([]byte("unknown")))
	require.NoError(t, err)
	assert.Empty(t, history)

	n, err := s.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = s.Count(ctx, swap.KindSetUp)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	err = s.Emit(ctx, setUp)
	assert.True(t, errors.ErrDatabase.Is(err), "duplicated event id: %+v", err)
}

func TestSQLiteReopen(t *testing.T) {
	dir, err := ioutil.TempDir("", "pswap-sink")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "audit.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	key := swap.HashSecret([]byte("a"))
	require.NoError(t, s.Emit(context.Background(), testEvent(swap.KindSetUp, key)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	history, err := s.History(context.Background(), key)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafka(t *testing.T) {
	w := &fakeWriter{}
	s := NewKafkaWriter(w, "pswap-events")

	key := swap.HashSecret([]byte("a"))
	e := testEvent(swap.KindAssetRedeemed, key)
	require.NoError(t, s.Emit(context.Background(), e))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "pswap-events", msg.Topic)
	assert.Equal(t, hex.EncodeToString(key), string(msg.Key))
	assert.Equal(t, e.Time.Time().UTC(), msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "pswap.asset_redeemed", string(msg.Headers[0].Value))
	assert.Contains(t, string(msg.Value), `"kind":"pswap.asset_redeemed"`)

	w.err = kafka.LeaderNotAvailable
	err := s.Emit(context.Background(), e)
	assert.True(t, errors.ErrDatabase.Is(err))

	require.NoError(t, s.Close())
	assert.True(t, w.closed)
}

func TestNewKafka(t *testing.T) {
	_, err := NewKafka(nil, "topic")
	assert.True(t, errors.ErrInvalidInput.Is(err))

	_, err = NewKafka([]string{"localhost:9092"}, "")
	assert.True(t, errors.ErrInvalidInput.Is(err))

	s, err := NewKafka([]string{"localhost:9092"}, "topic")
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
