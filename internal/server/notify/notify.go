// Package notify dispatches mutation events to the real-time and push
// channels. Delivery is best effort on both: failures are logged and
// swallowed, never surfaced to the caller of the triggering operation, and
// never retried here.
package notify

import (
	"context"

	"github.com/avolkovx/listsync/internal/logging"
)

// RealtimeSender delivers an event to the currently-connected sessions of the
// given users. No ordering guarantee across users, no delivery guarantee for
// disconnected users.
type RealtimeSender interface {
	SendToUsers(ctx context.Context, userIDs []string, event string, payload any) error
}

// PushSender delivers a push notification to every registered device of the
// user, independent of connection state.
type PushSender interface {
	SendToUser(ctx context.Context, userID, title, body string, data map[string]string) error
}

// Dispatcher fans events out to both channels.
type Dispatcher struct {
	realtime RealtimeSender
	push     PushSender
	logger   logging.Logger
}

func NewDispatcher(realtime RealtimeSender, push PushSender, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		realtime: realtime,
		push:     push,
		logger:   logger.With("component", "notify"),
	}
}

// Broadcast sends the event to every user in userIDs over the real-time
// channel. The recipient set is computed by the caller (permission join,
// visibility filtered, acting user excluded).
func (d *Dispatcher) Broadcast(ctx context.Context, userIDs []string, event string, payload any) {
	if len(userIDs) == 0 {
		return
	}
	if err := d.realtime.SendToUsers(ctx, userIDs, event, payload); err != nil {
		d.logger.Warn(ctx, "realtime delivery failed", "event", event, "error", err)
	}
}

// SendToUser sends the event to a single user over the real-time channel.
func (d *Dispatcher) SendToUser(ctx context.Context, userID, event string, payload any) {
	d.Broadcast(ctx, []string{userID}, event, payload)
}

// Push sends a push notification to a single user.
func (d *Dispatcher) Push(ctx context.Context, userID, title, body string, data map[string]string) {
	if err := d.push.SendToUser(ctx, userID, title, body, data); err != nil {
		d.logger.Warn(ctx, "push delivery failed", "user_id", userID, "error", err)
	}
}
