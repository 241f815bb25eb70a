package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hrumbles/candidate-pipeline/internal/config"
	"github.com/hrumbles/candidate-pipeline/internal/events"
)

// NotificationService reacts to applied status transitions. Delivery is a
// logging stub; downstream systems follow the Redis channel instead.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCandidateStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventCandidateBgvStatusChanged, n.handleStatusChanged)
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		n.logger.Warn("unexpected status event payload", zap.String("event_id", event.ID))
		return nil
	}
	n.logger.Info("CandidateStatusChanged",
		zap.String("candidate_id", event.CandidateID),
		zap.String("pipeline", string(payload.Pipeline)),
		zap.String("from", payload.Previous.SubStatusName),
		zap.String("to", payload.Current.SubStatusName))
	if payload.Terminal {
		n.sendWebhookNotificationStub(ctx, event, payload)
	}
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event, payload events.StatusChangedPayload) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("candidate_id", event.CandidateID),
		zap.String("status", payload.Current.SubStatusName),
		zap.String("event_type", string(event.Type)))
}
