// Package notification delivers push messages through Firebase Cloud
// Messaging. Callers treat delivery as best effort.
package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	ntypes "plantPactAPI/internal/types/notification"
	"plantPactAPI/utils"
)

// titles keyed by message type; the body carries the sender's text.
var titles = map[ntypes.Type]string{
	ntypes.TypeChallengeCreate:  "New challenge invitation",
	ntypes.TypeChallengeApprove: "Challenge accepted",
	ntypes.TypeCommit:           "Your partner checked in",
	ntypes.TypeSting:            "A nudge from your partner",
}

type FCMProvider struct {
	client *messaging.Client
}

// NewFCMProvider builds the messaging client. Base64 credentials from the
// environment win over the local service account key file.
func NewFCMProvider(ctx context.Context, encodedCreds, localFilePath string) (*FCMProvider, error) {
	var opt option.ClientOption
	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("decode base64 firebase credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
	} else {
		if _, err := os.Stat(localFilePath); err != nil {
			return nil, fmt.Errorf("firebase credentials file %s: %w", localFilePath, err)
		}
		opt = option.WithCredentialsFile(localFilePath)
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}
	return &FCMProvider{client: client}, nil
}

// SendPush sends one message per call; batch sends hit the deprecated
// /batch endpoint and 404.
func (p *FCMProvider) SendPush(ctx context.Context, push ntypes.Push) error {
	title, ok := titles[push.Type]
	if !ok {
		title = "PlantPact"
	}

	message := &messaging.Message{
		Token: push.DeviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  push.Message,
		},
		Data: map[string]string{
			"type":     string(push.Type),
			"nickname": push.Nickname,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
	}

	if _, err := p.client.Send(ctx, message); err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	utils.Log.Debugw("sent push", "type", push.Type)
	return nil
}

// LogProvider stands in for FCM in local development and tests; it only
// logs what would have been sent.
type LogProvider struct{}

func (LogProvider) SendPush(_ context.Context, push ntypes.Push) error {
	utils.Log.Infow("push (log only)", "type", push.Type, "message", push.Message)
	return nil
}
