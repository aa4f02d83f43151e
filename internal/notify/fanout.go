// Package notify writes the denormalized notification feed and dispatches
// gated push messages for every social action.
package notify

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/events"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/store"
)

// Push bodies shown to recipients, per event kind.
var pushBodies = map[models.NotificationKind]string{
	models.NotificationLike:    "님이 회원님의 게시글에 좋아요를 눌렀습니다",
	models.NotificationComment: "님이 회원님의 게시글에 댓글을 달았습니다.",
	models.NotificationFollow:  "님이 회원님을 팔로우하기 시작했습니다.",
}

// Event is one notification-worthy social action.
type Event struct {
	Kind      models.NotificationKind
	ActorID   primitive.ObjectID
	TargetID  primitive.ObjectID // recipient
	PostID    *primitive.ObjectID
	PostKind  string
	RefID     *primitive.ObjectID // the triggering like/comment/follow/message
	PushBody  string              // overrides the default body (message text)
	PushImage string
	PushData  map[string]string
}

// Fanout performs the two-row write-amplified fanout and the gated push.
type Fanout struct {
	users         store.Users
	notifications store.Notifications
	bus           *events.Bus
	pusher        Pusher
}

func NewFanout(users store.Users, notifications store.Notifications, bus *events.Bus, pusher Pusher) *Fanout {
	return &Fanout{users: users, notifications: notifications, bus: bus, pusher: pusher}
}

// Created writes exactly two Notification rows for the event, one keyed to
// the actor and one keyed to the recipient with otherwise identical metadata,
// and pushes each row onto its keyed user's feed array. The recipient-keyed row
// is returned. Push dispatch is fire-and-forget and never rolls back the
// rows.
func (f *Fanout) Created(ctx context.Context, ev Event) (*models.Notification, error) {
	var recipientRow *models.Notification
	for _, key := range []primitive.ObjectID{ev.ActorID, ev.TargetID} {
		row := &models.Notification{
			AuthorID: ev.ActorID,
			UserID:   ev.TargetID,
			Key:      key,
			PostID:   ev.PostID,
			PostKind: ev.PostKind,
		}
		row.SetRef(ev.Kind, ev.RefID)
		if err := f.notifications.Create(ctx, row); err != nil {
			return nil, fmt.Errorf("create notification: %w", err)
		}
		if err := f.users.PushRef(ctx, key, store.FieldNotifications, row.ID); err != nil {
			return nil, fmt.Errorf("attach notification to user: %w", err)
		}
		f.bus.Publish(events.Event{Name: events.NotificationChanged, Payload: NotificationChange{
			Operation:    "CREATE",
			Notification: row,
		}})
		if key == ev.TargetID {
			recipientRow = row
		}
	}

	f.dispatch(ctx, ev)
	return recipientRow, nil
}

// NotificationChange is the payload published on the events bus.
type NotificationChange struct {
	Operation    string               `json:"operation"`
	Notification *models.Notification `json:"notification"`
}

// dispatch sends the push if the gating rules allow it: never to oneself,
// never against the recipient's notification setting, and message events
// additionally require the message setting.
func (f *Fanout) dispatch(ctx context.Context, ev Event) {
	if ev.ActorID == ev.TargetID {
		return
	}
	recipient, err := f.users.ByID(ctx, ev.TargetID)
	if err != nil {
		log.Printf("notify: load recipient: %v", err)
		return
	}
	actor, err := f.users.ByID(ctx, ev.ActorID)
	if err != nil {
		log.Printf("notify: load actor: %v", err)
		return
	}
	if !ShouldPush(ev.Kind, actor, recipient) {
		return
	}

	body := ev.PushBody
	if body == "" {
		body = pushBodies[ev.Kind]
	}
	image := ev.PushImage
	if image == "" {
		image = actor.Image
	}
	data := ev.PushData
	if data == nil {
		data = map[string]string{"type": string(ev.Kind)}
		if ev.PostID != nil {
			data["postId"] = ev.PostID.Hex()
		}
	}
	note := Note{
		Title: actor.Username,
		Body:  body,
		Image: image,
		Sound: recipient.Settings.Sound,
		Data:  data,
	}
	if err := f.pusher.Send(ctx, recipient.DeviceTokens, note); err != nil {
		log.Printf("notify: push dispatch: %v", err)
	}
}

// ShouldPush is the push-suppression predicate: actor and recipient must
// differ and the recipient's settings must allow the event kind.
func ShouldPush(kind models.NotificationKind, actor, recipient *models.User) bool {
	if actor.ID == recipient.ID {
		return false
	}
	if !recipient.Settings.Notification {
		return false
	}
	if kind == models.NotificationMessage && !recipient.Settings.Message {
		return false
	}
	return true
}

// LikeDeleted removes every notification referencing the like, detaching
// each row from its keyed user's feed array one by one.
func (f *Fanout) LikeDeleted(ctx context.Context, likeID primitive.ObjectID) error {
	rows, err := f.notifications.ByLike(ctx, likeID)
	if err != nil {
		return fmt.Errorf("find like notifications: %w", err)
	}
	for i := range rows {
		row := rows[i]
		if _, err := f.notifications.Delete(ctx, row.ID); err != nil {
			return fmt.Errorf("delete notification %s: %w", row.ID.Hex(), err)
		}
		if err := f.users.PullRef(ctx, row.Key, store.FieldNotifications, row.ID); err != nil {
			return fmt.Errorf("detach notification %s: %w", row.ID.Hex(), err)
		}
		f.bus.Publish(events.Event{Name: events.NotificationChanged, Payload: NotificationChange{
			Operation:    "DELETE",
			Notification: &row,
		}})
	}
	return nil
}
