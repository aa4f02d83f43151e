package notify

import (
	"context"

	"firebase.google.com/go/v4/messaging"
)

// Note is the push payload handed to the gateway: title is the actor's
// display name, body the localized action string, data the client-side
// deep-linking metadata.
type Note struct {
	Title string
	Body  string
	Image string
	Sound bool
	Data  map[string]string
}

// Pusher dispatches a push message to a set of device tokens.
// Delivery is fire-and-forget; callers never surface its errors.
type Pusher interface {
	Send(ctx context.Context, tokens []string, note Note) error
}

// FCMPusher implements Pusher on Firebase Cloud Messaging.
type FCMPusher struct {
	client *messaging.Client
}

func NewFCMPusher(client *messaging.Client) *FCMPusher {
	return &FCMPusher{client: client}
}

func (p *FCMPusher) Send(ctx context.Context, tokens []string, note Note) error {
	if len(tokens) == 0 {
		return nil
	}
	sound := "default"
	if !note.Sound {
		sound = "nosound.wav"
	}
	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title:    note.Title,
			Body:     note.Body,
			ImageURL: note.Image,
		},
		Data: note.Data,
		Android: &messaging.AndroidConfig{
			Priority:     "high",
			Notification: &messaging.AndroidNotification{Sound: sound},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: sound, ContentAvailable: true},
			},
		},
	}
	_, err := p.client.SendEachForMulticast(ctx, msg)
	return err
}
