package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationKind discriminates what triggered a notification. Exactly one
// of the optional reference fields below is set, matching the kind.
type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationFollow  NotificationKind = "follow"
	NotificationMessage NotificationKind = "message"
)

// Notification is one row of the per-user notification feed. Two rows are
// written per event, one keyed to each party, so that "notifications where
// key = me" answers both feeds without a join.
type Notification struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Kind      NotificationKind    `json:"kind" bson:"kind"`
	AuthorID  primitive.ObjectID  `json:"author_id" bson:"author"`
	UserID    primitive.ObjectID  `json:"user_id" bson:"user"`
	Key       primitive.ObjectID  `json:"key" bson:"key"`
	PostID    *primitive.ObjectID `json:"post_id,omitempty" bson:"post,omitempty"`
	PostKind  string              `json:"post_kind,omitempty" bson:"post_kind,omitempty"`
	LikeID    *primitive.ObjectID `json:"like_id,omitempty" bson:"like,omitempty"`
	CommentID *primitive.ObjectID `json:"comment_id,omitempty" bson:"comment,omitempty"`
	FollowID  *primitive.ObjectID `json:"follow_id,omitempty" bson:"follow,omitempty"`
	MessageID *primitive.ObjectID `json:"message_id,omitempty" bson:"message,omitempty"`
	Seen      bool                `json:"seen" bson:"seen"`
	Click     bool                `json:"click" bson:"click"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
}

// Ref returns the triggering entity reference for the notification's kind.
func (n *Notification) Ref() *primitive.ObjectID {
	switch n.Kind {
	case NotificationLike:
		return n.LikeID
	case NotificationComment:
		return n.CommentID
	case NotificationFollow:
		return n.FollowID
	case NotificationMessage:
		return n.MessageID
	}
	return nil
}

// SetRef stores the triggering entity reference in the field matching kind.
func (n *Notification) SetRef(kind NotificationKind, ref *primitive.ObjectID) {
	n.Kind = kind
	switch kind {
	case NotificationLike:
		n.LikeID = ref
	case NotificationComment:
		n.CommentID = ref
	case NotificationFollow:
		n.FollowID = ref
	case NotificationMessage:
		n.MessageID = ref
	}
}

// CreateNotificationInput defines the payload of the createNotification
// mutation kept for clients that drive fanout themselves.
type CreateNotificationInput struct {
	UserID   string `json:"user_id" validate:"required"`
	AuthorID string `json:"author_id" validate:"required"`
	PostID   string `json:"post_id,omitempty"`
	PostKind string `json:"post_kind,omitempty"`
	Kind     string `json:"kind" validate:"required,oneof=like comment follow message"`
	RefID    string `json:"ref_id" validate:"required"`
}
