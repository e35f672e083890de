package sink

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/x/swap"
)

// MessageWriter is the part of kafka.Writer used by the sink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ MessageWriter = (*kafka.Writer)(nil)

// Kafka publishes every event as a JSON message. The message key is the hex
// encoded commitment key.
type Kafka struct {
	writer MessageWriter
	topic  string
}

var _ swap.EventSink = (*Kafka)(nil)

// NewKafka returns a sink publishing to given topic of the brokers.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "kafka sink requires at least one broker")
	}
	if topic == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "kafka sink requires a topic")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
	}
	return NewKafkaWriter(w, topic), nil
}

// NewKafkaWriter returns a sink publishing with given writer.
func NewKafkaWriter(w MessageWriter, topic string) *Kafka {
	return &Kafka{writer: w, topic: topic}
}

// Emit publishes the event and waits for the acknowledgement.
func (k *Kafka) Emit(ctx context.Context, e swap.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	msg := kafka.Message{
		Topic: k.topic,
		Key:   []byte(hex.EncodeToString(e.CommitmentKey)),
		Value: payload,
		Time:  e.Time.Time().UTC(),
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(e.Kind)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "publish event %s: %s", e.ID, err)
	}
	return nil
}

// Close flushes pending messages and releases the writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
