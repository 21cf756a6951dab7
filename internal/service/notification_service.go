package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/call-monitoring-service/internal/config"
	"github.com/spec-kit/call-monitoring-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
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
	n.dispatcher.Subscribe(events.EventCallCreated, n.handleCallCreated)
	n.dispatcher.Subscribe(events.EventCallStatusChanged, n.handleCallStatusChanged)
	n.dispatcher.Subscribe(events.EventEvaluationSubmitted, n.handleEvaluationSubmitted)
	n.dispatcher.Subscribe(events.EventCoachingFlagged, n.handleCoachingFlagged)
}

func (n *NotificationService) handleCallCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CallCreated", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCallStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("CallStatusChanged", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEvaluationSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("EvaluationSubmitted", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

// handleCoachingFlagged notifies the supervisor chain when an evaluation
// marks an operator for coaching.
func (n *NotificationService) handleCoachingFlagged(ctx context.Context, event events.Event) error {
	n.logger.Info("CoachingFlagged", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
