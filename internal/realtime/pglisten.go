package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

const pgPingInterval = 90 * time.Second

// PGListener turns LISTEN/NOTIFY payloads from the votes trigger into hub signals.
type PGListener struct {
	DSN     string
	Channel string
	Hub     *Hub
}

func (p *PGListener) Run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("component", "pg_listener", "channel", p.Channel)

	listener := pq.NewListener(p.DSN, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.Warn("pg_listener_event", "event", int(ev), "error", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(p.Channel); err != nil {
		return fmt.Errorf("listen %s: %w", p.Channel, err)
	}
	l.Info("pg_listener_started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			if n == nil {
				// connection was re-established; anything in between is lost
				p.Hub.PublishAll()
				continue
			}
			p.handle(ctx, n.Extra)
		case <-time.After(pgPingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					l.Warn("pg_listener_ping_failed", "error", err)
				}
			}()
		}
	}
}

func (p *PGListener) handle(ctx context.Context, payload string) {
	var ch Change
	if err := json.Unmarshal([]byte(payload), &ch); err != nil {
		logging.FromContext(ctx).Warn("pg_notify_decode_failed", "payload", payload, "error", err)
		return
	}
	p.Hub.Publish(ch.Target())
}
