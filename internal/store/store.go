// Package store is the typed MongoDB persistence adapter. One repository
// per collection; cross-references are opaque ObjectIDs and every
// denormalized array is maintained through explicit push/pull operations.
package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a document does not exist. Callers translate
// it into a clean not-found error instead of assuming success.
var ErrNotFound = errors.New("not found")

// RefField names a denormalized ObjectID array on a user or post document.
type RefField string

const (
	FieldPosts         RefField = "posts"
	FieldSocialPosts   RefField = "social_posts"
	FieldLikes         RefField = "likes"
	FieldComments      RefField = "comments"
	FieldFollowers     RefField = "followers"
	FieldFollowing     RefField = "following"
	FieldNotifications RefField = "notifications"
	FieldChannels      RefField = "channels"
)

// Store bundles all repositories behind their interfaces so resolvers and
// tests can swap implementations.
type Store struct {
	Users         Users
	Posts         Posts
	SocialPosts   SocialPosts
	Comments      Comments
	Likes         Likes
	Messages      Messages
	Channels      Channels
	Notifications Notifications
	Follows       Follows
	Reports       Reports
}

// NewMongo wires every repository to its collection in the given database.
func NewMongo(db *mongo.Database) *Store {
	return &Store{
		Users:         NewMongoUsers(db),
		Posts:         NewMongoPosts(db),
		SocialPosts:   NewMongoSocialPosts(db),
		Comments:      NewMongoComments(db),
		Likes:         NewMongoLikes(db),
		Messages:      NewMongoMessages(db),
		Channels:      NewMongoChannels(db),
		Notifications: NewMongoNotifications(db),
		Follows:       NewMongoFollows(db),
		Reports:       NewMongoReports(db),
	}
}
