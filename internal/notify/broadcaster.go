package notify

import (
	"context"

	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// Sender delivers one text message to one chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Outcome is the result of a single delivery attempt.
type Outcome struct {
	Recipient int64
	Err       error
}

// Delivered reports whether the attempt succeeded.
func (o Outcome) Delivered() bool {
	return o.Err == nil
}

// Broadcaster fans a message out to a fixed recipient list.
type Broadcaster struct {
	sender Sender
}

// NewBroadcaster constructs a broadcaster over sender.
func NewBroadcaster(sender Sender) *Broadcaster {
	return &Broadcaster{sender: sender}
}

// Broadcast makes exactly one attempt per recipient, in order. A failure for
// one recipient never prevents delivery to the next; failures are reported
// as *NotificationError values in the returned outcomes.
func (b *Broadcaster) Broadcast(ctx context.Context, recipients []int64, text string) []Outcome {
	outcomes := make([]Outcome, 0, len(recipients))
	for _, id := range recipients {
		outcome := Outcome{Recipient: id}
		if err := b.sender.Send(ctx, id, text); err != nil {
			outcome.Err = &apperrors.NotificationError{Recipient: id, Err: err}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
