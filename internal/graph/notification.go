package graph

import (
	"fmt"
	"log"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/events"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/notify"
	"github.com/delibee-app/server/internal/store"
)

// NotificationsPayload pairs a feed page with the full count.
type NotificationsPayload struct {
	Notifications []models.Notification `json:"notifications"`
	Count         int64                 `json:"count"`
}

// GetUserNotifications pages through the feed rows keyed to a user.
func (r *Resolver) GetUserNotifications(p graphql.ResolveParams) (any, error) {
	userID, err := idArg(p, "userId")
	if err != nil {
		return nil, err
	}
	skip, limit := pageArgs(p)
	rows, count, err := r.Store.Notifications.ByKey(p.Context, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	return &NotificationsPayload{Notifications: rows, Count: count}, nil
}

// CreateNotification runs the two-row fanout on behalf of a client that
// drives notifications itself. The recipient-keyed row is returned.
func (r *Resolver) CreateNotification(p graphql.ResolveParams) (any, error) {
	if _, err := r.authUser(p); err != nil {
		return nil, err
	}
	var input models.CreateNotificationInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	userID, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id")
	}
	authorID, err := primitive.ObjectIDFromHex(input.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author_id")
	}
	refID, err := primitive.ObjectIDFromHex(input.RefID)
	if err != nil {
		return nil, fmt.Errorf("invalid ref_id")
	}

	ev := notify.Event{
		Kind:     models.NotificationKind(input.Kind),
		ActorID:  authorID,
		TargetID: userID,
		PostKind: input.PostKind,
		RefID:    &refID,
	}
	if input.PostID != "" {
		postID, err := primitive.ObjectIDFromHex(input.PostID)
		if err != nil {
			return nil, fmt.Errorf("invalid post_id")
		}
		ev.PostID = &postID
	}

	row, err := r.Fanout.Created(p.Context, ev)
	if err != nil {
		return nil, fmt.Errorf("notification fanout: %w", err)
	}
	return row, nil
}

// DeleteNotification removes one feed row and detaches it from its keyed
// user.
func (r *Resolver) DeleteNotification(p graphql.ResolveParams) (any, error) {
	if _, err := r.authUser(p); err != nil {
		return nil, err
	}
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}

	row, err := r.Store.Notifications.Delete(p.Context, id)
	if err != nil {
		return nil, notFound("notification", err)
	}
	if err := r.Store.Users.PullRef(p.Context, row.Key, store.FieldNotifications, row.ID); err != nil {
		return nil, fmt.Errorf("detach notification: %w", err)
	}
	r.Bus.Publish(events.Event{Name: events.NotificationChanged, Payload: notify.NotificationChange{
		Operation:    "DELETE",
		Notification: row,
	}})
	return row, nil
}

// DeleteLikeNotification removes every feed row referencing a like.
func (r *Resolver) DeleteLikeNotification(p graphql.ResolveParams) (any, error) {
	if _, err := r.authUser(p); err != nil {
		return nil, err
	}
	likeID, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	if err := r.Fanout.LikeDeleted(p.Context, likeID); err != nil {
		return nil, fmt.Errorf("delete like notifications: %w", err)
	}
	return true, nil
}

// UpdateNotificationSeen marks the caller's feed as read. Soft failure.
func (r *Resolver) UpdateNotificationSeen(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	if err := r.Store.Notifications.MarkSeen(p.Context, authID); err != nil {
		log.Printf("graph: notification seen: %v", err)
		return false, nil
	}
	return true, nil
}

// UpdateNotificationClick marks one row as clicked. Soft failure.
func (r *Resolver) UpdateNotificationClick(p graphql.ResolveParams) (any, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return false, nil
	}
	if err := r.Store.Notifications.SetClick(p.Context, id); err != nil {
		log.Printf("graph: notification click: %v", err)
		return false, nil
	}
	return true, nil
}
