package notification

import (
	"context"
	"fmt"

	clientRepo "pawhaven/database/repository/client"
	contractorRepo "pawhaven/database/repository/contractor"
	"pawhaven/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendClientPush(ctx context.Context, clientID, title, body string, data map[string]string) error
	SendContractorPush(ctx context.Context, contractorID, title, body string, data map[string]string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Clients     clientRepo.ClientRepository
	Contractors contractorRepo.ContractorRepository
}

func NewDefaultNotificationService(clients clientRepo.ClientRepository, contractors contractorRepo.ContractorRepository) (*DefaultNotificationService, error) {
	if clients == nil || contractors == nil {
		return nil, fmt.Errorf("notification service initialization error: client or contractor repo is nil")
	}
	return &DefaultNotificationService{Clients: clients, Contractors: contractors}, nil
}

// SendClientPush looks up a client's FCM token and sends a push.
func (s *DefaultNotificationService) SendClientPush(ctx context.Context, clientID, title, body string, data map[string]string) error {
	cl, err := s.Clients.GetByID(clientID)
	if err != nil {
		return fmt.Errorf("SendClientPush: could not find client %s: %w", clientID, err)
	}
	if cl.FCMToken == "" {
		return fmt.Errorf("SendClientPush: client %s has no FCM token", clientID)
	}
	return send(ctx, cl.FCMToken, title, body, withRole(data, "client"))
}

// SendContractorPush looks up a contractor's FCM token and sends a push.
func (s *DefaultNotificationService) SendContractorPush(ctx context.Context, contractorID, title, body string, data map[string]string) error {
	ct, err := s.Contractors.GetByID(contractorID)
	if err != nil {
		return fmt.Errorf("SendContractorPush: could not find contractor %s: %w", contractorID, err)
	}
	if ct.FCMToken == "" {
		return fmt.Errorf("SendContractorPush: contractor %s has no FCM token", contractorID)
	}
	return send(ctx, ct.FCMToken, title, body, withRole(data, "contractor"))
}

func withRole(data map[string]string, role string) map[string]string {
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = role
	}
	return data
}

func send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		utils.GetLogger().Error("failed to send push", zap.String("token", token), zap.Error(err))
		return fmt.Errorf("failed to send push: %w", err)
	}
	return nil
}
