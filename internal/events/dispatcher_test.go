package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/lead-service/internal/domain"
)

func TestPublishInvokesEveryHandlerDespiteErrors(t *testing.T) {
	d := NewInMemoryDispatcher(zaptest.NewLogger(t))
	var calls []string

	d.Subscribe(EventLeadCreated, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("smtp down")
	})
	d.Subscribe(EventLeadCreated, func(ctx context.Context, e Event) error {
		calls = append(calls, "second")
		payload, ok := e.Payload.(LeadCreatedPayload)
		assert.True(t, ok)
		assert.Equal(t, "Ivan", payload.Lead.Name)
		return nil
	})

	err := d.Publish(context.Background(), NewLeadCreated(domain.Lead{ID: 7, Name: "Ivan"}))
	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	assert.NoError(t, d.Publish(context.Background(), NewLeadCreated(domain.Lead{ID: 1})))
}

func TestNewLeadCreated(t *testing.T) {
	e := NewLeadCreated(domain.Lead{ID: 42})
	assert.Equal(t, EventLeadCreated, e.Type)
	assert.Equal(t, int64(42), e.LeadID)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
}
