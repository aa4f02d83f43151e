package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageKind discriminates the payload of a chat message.
type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageImage MessageKind = "image"
	MessageShare MessageKind = "share"
)

// Message is one chat message exchanged in the context of a listing.
type Message struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	SenderID   primitive.ObjectID  `json:"sender_id" bson:"sender"`
	ReceiverID primitive.ObjectID  `json:"receiver_id" bson:"receiver"`
	PostID     primitive.ObjectID  `json:"post_id" bson:"post"`
	ChannelID  primitive.ObjectID  `json:"channel_id,omitempty" bson:"channel,omitempty"`
	Body       string              `json:"body" bson:"body"`
	Image      string              `json:"image,omitempty" bson:"image,omitempty"`
	ImageKey   string              `json:"-" bson:"image_key,omitempty"`
	Kind       MessageKind         `json:"kind" bson:"kind"`
	ShareID    *primitive.ObjectID `json:"share_id,omitempty" bson:"share_id,omitempty"`
	Seen       bool                `json:"seen" bson:"seen"`
	IsFirst    bool                `json:"is_first" bson:"is_first"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
}

// Channel ties one non-author participant to one listing; it represents a
// single conversation thread. Created lazily on the first message.
type Channel struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user"`
	PostID    primitive.ObjectID `json:"post_id" bson:"post"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CreateMessageInput defines the payload for sending a chat message.
type CreateMessageInput struct {
	Body     string `json:"body"`
	Sender   string `json:"sender" validate:"required"`
	Receiver string `json:"receiver" validate:"required"`
	PostID   string `json:"post_id" validate:"required"`
	IsAuthor bool   `json:"is_author"`
	Image    string `json:"image,omitempty"`
	Kind     string `json:"kind,omitempty"`
	ShareID  string `json:"share_id,omitempty"`
}
