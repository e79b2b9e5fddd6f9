// Package realtime fans vote invalidations out to subscribers. A Change only
// says that a target's votes moved; subscribers recount on their own.
package realtime

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/spark_cart/internal/models"
)

type Change struct {
	TargetType models.TargetType `json:"target_type"`
	TargetID   uuid.UUID         `json:"target_id"`
	CartID     uuid.UUID         `json:"cart_id"`
}

func (c Change) Target() models.Target {
	return models.Target{Type: c.TargetType, ID: c.TargetID}
}

func NewChange(target models.Target, cartID uuid.UUID) Change {
	return Change{TargetType: target.Type, TargetID: target.ID, CartID: cartID}
}

// Notifier publishes a change after the vote mutation committed.
type Notifier interface {
	Notify(ctx context.Context, ch Change) error
}

// Source hands out subscriptions for a set of targets.
type Source interface {
	Subscribe(targets ...models.Target) *Subscription
	Unsubscribe(sub *Subscription)
}

// NopNotifier is used when the store itself emits changes.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Change) error { return nil }
