// FILE: internal/service/notification_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"borrowed-brain-be/internal/pkg/logger"
	"borrowed-brain-be/internal/pkg/mailer"
	"borrowed-brain-be/internal/repository/specification"
	"borrowed-brain-be/internal/repository/unitofwork"
	"borrowed-brain-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, event events.SyncStatusEvent)
}

type NotificationService struct {
	subscriber   message.Subscriber
	uowFactory   unitofwork.RepositoryFactory
	delivery     NotificationDelivery
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewNotificationService(
	sub message.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	delivery NotificationDelivery,
	emailService mailer.IEmailService,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		subscriber:   sub,
		uowFactory:   uowFactory,
		delivery:     delivery,
		emailService: emailService,
		logger:       log,
	}
}

// Start begins listening to the sync status bus.
func (s *NotificationService) Start(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, events.TopicSyncStatus)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to subscribe to status bus", map[string]interface{}{"error": err})
		return err
	}
	s.logger.Info("NotificationService", "Notification service started", map[string]interface{}{"topic": events.TopicSyncStatus})

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *NotificationService) processMessage(ctx context.Context, msg *message.Message) {
	var event events.SyncStatusEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		s.logger.Error("NotificationService", "Failed to unmarshal status event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Invalid payload, retrying won't help.
		return
	}

	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", event.Type), map[string]interface{}{
		"user_id":    event.UserId,
		"episode_id": event.EpisodeId,
	})

	// Real-time delivery first. The hub fans out to every open connection.
	if s.delivery != nil {
		s.delivery.Send(event.UserId, event)
	}

	// Terminal outcomes also go out by email.
	switch event.Type {
	case events.EventSyncCompleted:
		s.sendEmail(ctx, event, func(email string) error {
			return s.emailService.SendSyncCompletedEmail(email, event.EpisodeName)
		})
	case events.EventSyncFailed:
		s.sendEmail(ctx, event, func(email string) error {
			return s.emailService.SendSyncFailedEmail(email, event.EpisodeName, event.ErrorMessage)
		})
	}

	msg.Ack()
}

func (s *NotificationService) sendEmail(ctx context.Context, event events.SyncStatusEvent, send func(email string) error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: event.UserId})
	if err != nil || user == nil {
		s.logger.Warn("NotificationService", "Could not resolve user for email delivery", map[string]interface{}{"user_id": event.UserId})
		return
	}

	if err := send(user.Email); err != nil {
		// Email is best-effort, the websocket push already happened.
		s.logger.Warn("NotificationService", "Failed to send sync email", map[string]interface{}{
			"user_id": event.UserId,
			"error":   err.Error(),
		})
	}
}
