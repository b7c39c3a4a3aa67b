package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/paykash-service/internal/config"
	"github.com/spec-kit/paykash-service/internal/events"
)

// NotificationService emits notifications for auth events. Delivery channels
// are stubs; the audit log entries are the real output.
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
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventLoginSucceeded, n.handleLoginSucceeded)
	n.dispatcher.Subscribe(events.EventLoginFailed, n.handleLoginFailed)
	n.dispatcher.Subscribe(events.EventServiceTokenMinted, n.handleServiceTokenMinted)
	n.dispatcher.Subscribe(events.EventPINResetRequested, n.handlePINResetRequested)
	n.dispatcher.Subscribe(events.EventPINResetConfirmed, n.handlePINResetConfirmed)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("email", event.Email), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLoginSucceeded(_ context.Context, event events.Event) error {
	n.logger.Info("LoginSucceeded", zap.String("email", event.Email))
	return nil
}

func (n *NotificationService) handleLoginFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("LoginFailed", zap.String("email", event.Email), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleServiceTokenMinted(ctx context.Context, event events.Event) error {
	n.logger.Info("ServiceTokenMinted", zap.String("email", event.Email), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePINResetRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("PINResetRequested", zap.String("email", event.Email))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePINResetConfirmed(_ context.Context, event events.Event) error {
	n.logger.Info("PINResetConfirmed", zap.String("email", event.Email))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("email", event.Email),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("email", event.Email),
		zap.String("event_type", string(event.Type)))
}
