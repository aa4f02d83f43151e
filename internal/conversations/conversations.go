// Package conversations reconstructs a user's conversation list: one row
// per channel, annotated with the channel's most recent message and the
// conversation partner's display fields.
package conversations

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/models"
)

// Row is one display-ready conversation.
type Row struct {
	ChannelID    primitive.ObjectID `json:"channel_id"`
	UserID       primitive.ObjectID `json:"user_id"`
	Username     string             `json:"username"`
	FullName     string             `json:"full_name"`
	Image        string             `json:"image"`
	IsOnline     bool               `json:"is_online"`
	LocationName string             `json:"location_name"`
	Post         *models.Post       `json:"post"`

	SenderID          primitive.ObjectID `json:"sender_id"`
	LastMessage       string             `json:"last_message"`
	LastMessageAt     time.Time          `json:"last_message_at"`
	LastMessageSender bool               `json:"last_message_sender"`
	Seen              bool               `json:"seen"`
	ImageMessage      bool               `json:"image_message"`
}

// Build merges the user's channels with the per-channel latest messages.
//
// The counterpart of a channel is derived through the post: a channel always
// names the non-author participant, so when the post's author is not the
// authenticated user the author is the counterpart, otherwise it is the
// channel's stored participant.
//
// Channels whose post no longer exists are skipped. Channels without any
// message get a placeholder row (empty body, seen=false, sender flag true)
// and sort after every channel that has a timestamp; rows with timestamps
// sort newest first.
func Build(
	authID primitive.ObjectID,
	channels []models.Channel,
	posts map[primitive.ObjectID]models.Post,
	users map[primitive.ObjectID]models.User,
	lastMessages []models.Message,
) []Row {
	rows := make([]Row, 0, len(channels))

	for _, ch := range channels {
		post, ok := posts[ch.PostID]
		if !ok {
			continue
		}

		counterpartID := ch.UserID
		if post.AuthorID != authID {
			counterpartID = post.AuthorID
		}
		counterpart, ok := users[counterpartID]
		if !ok {
			continue
		}

		row := Row{
			ChannelID:    ch.ID,
			UserID:       counterpartID,
			Username:     counterpart.Username,
			FullName:     counterpart.FullName,
			Image:        counterpart.Image,
			IsOnline:     counterpart.IsOnline,
			LocationName: counterpart.Location.Name,
			Post:         &post,

			// Placeholder until a matching message is found: treated as
			// already handled by the reader.
			LastMessageSender: true,
		}

		if m, ok := match(lastMessages, counterpartID, post.ID, true); ok {
			row.SenderID = m.SenderID
			row.Seen = m.Seen
			row.LastMessage = m.Body
			row.LastMessageAt = m.CreatedAt
			row.LastMessageSender = false
			row.ImageMessage = m.Image != ""
		} else if m, ok := match(lastMessages, counterpartID, post.ID, false); ok {
			row.SenderID = m.SenderID
			row.Seen = m.Seen
			row.LastMessage = m.Body
			row.LastMessageAt = m.CreatedAt
			row.LastMessageSender = true
			row.ImageMessage = m.Image != ""
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].LastMessageAt.After(rows[j].LastMessageAt)
	})
	return rows
}

// match finds a last-message record tied to both the counterpart identity
// and the post, on the sender or the receiver side.
func match(messages []models.Message, userID, postID primitive.ObjectID, asSender bool) (models.Message, bool) {
	for _, m := range messages {
		if m.PostID != postID {
			continue
		}
		if asSender && m.SenderID == userID {
			return m, true
		}
		if !asSender && m.ReceiverID == userID {
			return m, true
		}
	}
	return models.Message{}, false
}
