package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth event routing keys.
const (
	EventUserRegistered     = "user.registered"
	EventUserLoginSucceeded = "user.login_succeeded"
	EventUserLoginFailed    = "user.login_failed"
)

// EventPublisher sends a message body under a routing key.
// rabbitmq.Client implements it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// AuthEvent is the JSON payload of every auth event.
type AuthEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Email      string    `json:"email"`
	UserID     uint      `json:"userId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewAuthEvent stamps an event with a fresh ID and the current time.
func NewAuthEvent(eventType, email string, userID uint) AuthEvent {
	return AuthEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Email:      email,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// publishEvent is best effort: a broker failure is logged and never fails the caller.
func publishEvent(publisher EventPublisher, logger *zap.Logger, event AuthEvent) {
	if publisher == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		logger.Warn("failed to marshal auth event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	if err := publisher.Publish(event.Type, body); err != nil {
		logger.Warn("failed to publish auth event",
			zap.String("type", event.Type),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return
	}
	logger.Debug("published auth event", zap.String("type", event.Type), zap.String("event_id", event.ID))
}
