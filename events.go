package main

import (
	"encoding/json"

	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// authEventLogger records consumed auth events. Undecodable messages are
// logged and acked so they cannot loop through the queue.
func authEventLogger(logger *zap.Logger) rabbitmq.Handler {
	return func(msg amqp.Delivery) error {
		var event services.AuthEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			logger.Warn("dropping malformed auth event",
				zap.Uint64("delivery_tag", msg.DeliveryTag),
				zap.Error(err),
			)
			return nil
		}

		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("type", event.Type),
			zap.Time("occurred_at", event.OccurredAt),
		}
		if event.UserID != 0 {
			fields = append(fields, zap.Uint("user_id", event.UserID))
		}
		if event.Type == services.EventUserLoginFailed {
			logger.Warn("auth event", fields...)
			return nil
		}
		logger.Info("auth event", fields...)
		return nil
	}
}
