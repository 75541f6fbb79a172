package utils

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Notifier delivers a push notification to one device token.
type Notifier interface {
	Notify(ctx context.Context, token, title, body string, data map[string]string) error
}

// NopNotifier is used when no Firebase credentials are configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string, string, map[string]string) error {
	return nil
}

// FCMNotifier sends through Firebase Cloud Messaging.
type FCMNotifier struct {
	client *messaging.Client
	log    *zap.Logger
}

// NewFCMNotifier builds a messaging client from a service-account JSON file.
func NewFCMNotifier(ctx context.Context, credentialsFile string, log *zap.Logger) (*FCMNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	log.Info("firebase cloud messaging ready")
	return &FCMNotifier{client: client, log: log}, nil
}

func (n *FCMNotifier) Notify(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return nil
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := n.client.Send(ctx, message); err != nil {
		n.log.Warn("push notification failed", zap.Error(err))
		return err
	}
	return nil
}
