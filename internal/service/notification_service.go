package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/notify"
	"github.com/spec-kit/lead-service/internal/observability"
)

// NotificationService relays new leads to the admin chats.
type NotificationService struct {
	dispatcher  events.Dispatcher
	broadcaster *notify.Broadcaster
	recipients  []int64
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender notify.Sender, recipients []int64, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher:  dispatcher,
		broadcaster: notify.NewBroadcaster(sender),
		recipients:  append([]int64(nil), recipients...),
		metrics:     metrics,
		logger:      logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	if len(n.recipients) == 0 {
		n.logger.Warn("no admin chats configured, new leads will not be relayed")
	}
	n.dispatcher.Subscribe(events.EventLeadCreated, n.handleLeadCreated)
}

func (n *NotificationService) handleLeadCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.LeadCreatedPayload)
	if !ok {
		n.logger.Warn("unexpected lead_created payload", zap.String("event_id", event.ID))
		return nil
	}
	n.NotifyNewLead(ctx, payload.Lead.ID, notify.FormatNewLead(payload.Lead))
	return nil
}

// NotifyNewLead broadcasts text and logs every outcome.
func (n *NotificationService) NotifyNewLead(ctx context.Context, leadID int64, text string) []notify.Outcome {
	if len(n.recipients) == 0 {
		n.logger.Warn("lead not relayed: no recipients", zap.Int64("lead_id", leadID))
		return nil
	}

	outcomes := n.broadcaster.Broadcast(ctx, n.recipients, text)
	for _, o := range outcomes {
		n.metrics.RecordNotification(o.Delivered())
		if o.Delivered() {
			n.logger.Debug("lead relayed", zap.Int64("lead_id", leadID), zap.Int64("chat_id", o.Recipient))
			continue
		}
		n.logger.Warn("lead relay failed", zap.Int64("lead_id", leadID), zap.Error(o.Err))
	}
	return outcomes
}
