package graph

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/conversations"
	"github.com/delibee-app/server/internal/events"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/notify"
	"github.com/delibee-app/server/internal/store"
)

// GetMessages returns the conversation between the caller and another user
// about one listing, newest first.
func (r *Resolver) GetMessages(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	otherID, err := idArg(p, "userId")
	if err != nil {
		return nil, err
	}
	postID, err := idArg(p, "postId")
	if err != nil {
		return nil, err
	}
	messages, err := r.Store.Messages.Conversation(p.Context, authID, otherID, postID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return messages, nil
}

// GetConversations merges the caller's channels with the last message per
// channel into display rows, newest message first, channels without messages
// last.
func (r *Resolver) GetConversations(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	user, err := r.Store.Users.ByID(p.Context, authID)
	if err != nil {
		return nil, notFound("user", err)
	}

	channels, err := r.Store.Channels.ByIDs(p.Context, user.Channels)
	if err != nil {
		return nil, fmt.Errorf("load channels: %w", err)
	}

	postIDs := make([]primitive.ObjectID, 0, len(channels))
	userIDs := make([]primitive.ObjectID, 0, len(channels))
	for _, ch := range channels {
		postIDs = append(postIDs, ch.PostID)
		userIDs = append(userIDs, ch.UserID)
	}
	posts, err := r.Store.Posts.ByIDs(p.Context, postIDs)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	postsByID := make(map[primitive.ObjectID]models.Post, len(posts))
	for _, post := range posts {
		postsByID[post.ID] = post
		userIDs = append(userIDs, post.AuthorID)
	}
	users, err := r.Store.Users.ByIDs(p.Context, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	usersByID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	last, err := r.Store.Messages.LastPerChannel(p.Context, authID)
	if err != nil {
		return nil, fmt.Errorf("last messages: %w", err)
	}

	return conversations.Build(authID, channels, postsByID, usersByID, last), nil
}

// NewConversationEvent is published when a channel gains its first message
// or reappears for a participant.
type NewConversationEvent struct {
	ReceiverID primitive.ObjectID `json:"receiver_id"`
	Row        conversations.Row  `json:"row"`
}

// CreateMessage stores the message, lazily creates the channel keyed on
// (non-author participant, post), attaches the channel to both parties, and
// publishes the realtime events. The push notification carries the listing
// metadata for deep linking.
func (r *Resolver) CreateMessage(p graphql.ResolveParams) (any, error) {
	if _, err := r.authUser(p); err != nil {
		return nil, err
	}
	var input models.CreateMessageInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	senderID, err := primitive.ObjectIDFromHex(input.Sender)
	if err != nil {
		return nil, fmt.Errorf("invalid sender")
	}
	receiverID, err := primitive.ObjectIDFromHex(input.Receiver)
	if err != nil {
		return nil, fmt.Errorf("invalid receiver")
	}
	postID, err := primitive.ObjectIDFromHex(input.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post_id")
	}

	post, err := r.Store.Posts.ByID(p.Context, postID)
	if err != nil {
		return nil, notFound("post", err)
	}
	sender, err := r.Store.Users.ByID(p.Context, senderID)
	if err != nil {
		return nil, notFound("sender", err)
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		PostID:     postID,
		Body:       input.Body,
		Kind:       models.MessageKind(input.Kind),
	}
	if input.ShareID != "" {
		shareID, err := primitive.ObjectIDFromHex(input.ShareID)
		if err != nil {
			return nil, fmt.Errorf("invalid share_id")
		}
		message.ShareID = &shareID
		message.Kind = models.MessageShare
	}
	if input.Image != "" {
		data, err := base64.StdEncoding.DecodeString(input.Image)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		url, key, err := r.Uploader.Upload("message", "message.jpg", "image/jpeg", bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		message.Image, message.ImageKey = url, key
		message.Kind = models.MessageImage
	}

	if err := r.Store.Messages.Create(p.Context, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	r.Bus.Publish(events.Event{Name: events.MessageCreated, Payload: message})

	// The channel is keyed on the non-author participant so both directions
	// of the conversation share one thread.
	counterpart := senderID
	if input.IsAuthor {
		counterpart = receiverID
	}
	channel, err := r.Store.Channels.ByUserAndPost(p.Context, counterpart, postID)
	first := false
	switch err {
	case nil:
		// Re-attach for participants who deleted the conversation.
		for _, uid := range []primitive.ObjectID{senderID, receiverID} {
			u, err := r.Store.Users.ByID(p.Context, uid)
			if err != nil {
				continue
			}
			if !containsID(u.Channels, channel.ID) {
				if err := r.Store.Users.PushRef(p.Context, uid, store.FieldChannels, channel.ID); err != nil {
					log.Printf("graph: reattach channel: %v", err)
				}
			}
		}
	case store.ErrNotFound:
		first = true
		channel = &models.Channel{UserID: counterpart, PostID: postID}
		if err := r.Store.Channels.Create(p.Context, channel); err != nil {
			return nil, fmt.Errorf("create channel: %w", err)
		}
		for _, uid := range []primitive.ObjectID{senderID, receiverID} {
			if err := r.Store.Users.PushRef(p.Context, uid, store.FieldChannels, channel.ID); err != nil {
				return nil, fmt.Errorf("attach channel: %w", err)
			}
		}
		if err := r.Store.Posts.PushRef(p.Context, postID, store.FieldChannels, channel.ID); err != nil {
			return nil, fmt.Errorf("attach channel to post: %w", err)
		}
	default:
		return nil, fmt.Errorf("find channel: %w", err)
	}

	if err := r.Store.Messages.AttachChannel(p.Context, message.ID, channel.ID, first); err != nil {
		return nil, fmt.Errorf("attach message to channel: %w", err)
	}
	message.ChannelID = channel.ID
	message.IsFirst = first

	r.Bus.Publish(events.Event{Name: events.NewConversation, Payload: NewConversationEvent{
		ReceiverID: receiverID,
		Row: conversations.Row{
			ChannelID:         channel.ID,
			UserID:            counterpart,
			Username:          sender.Username,
			Image:             sender.Image,
			IsOnline:          sender.IsOnline,
			Post:              post,
			SenderID:          senderID,
			LastMessage:       message.Body,
			LastMessageAt:     message.CreatedAt,
			LastMessageSender: false,
			Seen:              false,
			ImageMessage:      message.Image != "",
		},
	}})

	pushData := map[string]string{
		"type":     string(models.NotificationMessage),
		"postId":   post.ID.Hex(),
		"authorId": post.AuthorID.Hex(),
		"price":    post.Price,
		"title":    post.Title,
		"receiver": counterpart.Hex(),
	}
	if len(post.Images) > 0 {
		pushData["image"] = post.Images[0]
	}
	if _, err := r.Fanout.Created(p.Context, notify.Event{
		Kind:     models.NotificationMessage,
		ActorID:  senderID,
		TargetID: receiverID,
		PostID:   &post.ID,
		PostKind: string(models.TargetPost),
		RefID:    &message.ID,
		PushBody: message.Body,
		PushData: pushData,
	}); err != nil {
		log.Printf("graph: message fanout: %v", err)
	}

	return message, nil
}

// UpdateMessageSeenInput marks a sender's messages about a post as read.
type UpdateMessageSeenInput struct {
	Sender   string `json:"sender" validate:"required"`
	Receiver string `json:"receiver" validate:"required"`
	PostID   string `json:"post_id" validate:"required"`
}

// UpdateMessageSeen flips seen on the unread messages. Soft failure.
func (r *Resolver) UpdateMessageSeen(p graphql.ResolveParams) (any, error) {
	var input UpdateMessageSeenInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	senderID, err1 := primitive.ObjectIDFromHex(input.Sender)
	receiverID, err2 := primitive.ObjectIDFromHex(input.Receiver)
	postID, err3 := primitive.ObjectIDFromHex(input.PostID)
	if err1 != nil || err2 != nil || err3 != nil {
		return false, nil
	}
	if err := r.Store.Messages.MarkSeen(p.Context, senderID, receiverID, postID); err != nil {
		log.Printf("graph: mark seen: %v", err)
		return false, nil
	}
	return true, nil
}

// ChannelInput names one conversation channel.
type ChannelInput struct {
	ID string `json:"id" validate:"required"`
}

// DeleteChatConversation hides the channel for the caller only; the channel
// row and its messages stay so the other participant keeps the thread.
func (r *Resolver) DeleteChatConversation(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input ChannelInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	channelID, err := primitive.ObjectIDFromHex(input.ID)
	if err != nil {
		return false, nil
	}
	if err := r.Store.Users.PullRef(p.Context, authID, store.FieldChannels, channelID); err != nil {
		log.Printf("graph: delete conversation: %v", err)
		return false, nil
	}
	return true, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
