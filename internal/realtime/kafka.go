package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

type eventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// KafkaNotifier publishes changes so every instance's relay can fan them out.
type KafkaNotifier struct {
	Producer eventPublisher
	Topic    string
}

func (n *KafkaNotifier) Notify(ctx context.Context, ch Change) error {
	// keyed by cart so a cart's changes stay ordered on one partition
	return n.Producer.PublishEvent(ctx, n.Topic, ch.CartID.String(), ch)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaRelay consumes the vote topic and feeds the local hub.
type KafkaRelay struct {
	Reader messageReader
	Hub    *Hub
}

// RelayGroupID names the consumer group of one instance. Every instance needs
// its own group to see every change; a stable instance id lets a restart
// resume the same group instead of leaving an orphan behind.
func RelayGroupID(service, instance string) string {
	return fmt.Sprintf("%s-relay-%s", service, instance)
}

func NewKafkaRelay(brokers []string, topic, groupID string, hub *Hub) *KafkaRelay {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    1 << 20,
	})
	return &KafkaRelay{Reader: r, Hub: hub}
}

// Run blocks until ctx is done or the reader fails.
func (r *KafkaRelay) Run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("component", "kafka_relay")
	defer r.Reader.Close()

	for {
		msg, err := r.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read vote event: %w", err)
		}

		var ch Change
		if err := json.Unmarshal(msg.Value, &ch); err != nil {
			l.Warn("vote_event_decode_failed", "offset", msg.Offset, "error", err)
			continue
		}
		r.Hub.Publish(ch.Target())
	}
}
