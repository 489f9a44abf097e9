package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/school-kit/helpdesk-service/internal/config"
	"github.com/school-kit/helpdesk-service/internal/events"
)

// NotificationService turns domain events into notifications. Delivery is
// best-effort: every event is logged, and when Redis is available the
// event is pushed onto a list for external consumers to drain.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	redis      *redis.Client
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service. redisClient may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, redisClient *redis.Client, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		redis:      redisClient,
		cfg:        cfg,
	}
}

// Register subscribes to every notifying event type.
func (n *NotificationService) Register() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketSubmitted, n.handle)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handle)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handle)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("notification",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	n.pushToQueue(ctx, event)
	return nil
}

func (n *NotificationService) pushToQueue(ctx context.Context, event events.Event) {
	if n.redis == nil || n.cfg.QueueKey == "" {
		return
	}
	raw, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("encode notification", zap.Error(err))
		return
	}
	if err := n.redis.LPush(ctx, n.cfg.QueueKey, raw).Err(); err != nil {
		n.logger.Warn("push notification", zap.Error(err), zap.String("queue", n.cfg.QueueKey))
	}
}
