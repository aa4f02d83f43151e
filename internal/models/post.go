package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a marketplace listing stored in MongoDB.
type Post struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string               `json:"title" bson:"title"`
	Price     string               `json:"price" bson:"price"`
	Content   string               `json:"content" bson:"content"`
	Type      string               `json:"type" bson:"type"`
	Category  string               `json:"category" bson:"category"`
	Images    []string             `json:"images" bson:"images"`
	ImageKeys []string             `json:"-" bson:"image_keys,omitempty"`
	Location  Location             `json:"location" bson:"location"`
	View      int64                `json:"view" bson:"view"`
	Contact   int64                `json:"contact" bson:"contact"`
	AuthorID  primitive.ObjectID   `json:"author_id" bson:"author"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []primitive.ObjectID `json:"comments" bson:"comments"`
	Channels  []primitive.ObjectID `json:"channels" bson:"channels"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// CreatePostInput defines the payload for creating a listing.
type CreatePostInput struct {
	Title    string   `json:"title" validate:"required"`
	Price    string   `json:"price" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Type     string   `json:"type"`
	Category string   `json:"category"`
	Location Location `json:"location"`
	Images   []string `json:"images"`
}

// SocialImage is one uploaded image on a social post.
type SocialImage struct {
	URL string `json:"url" bson:"url"`
	Key string `json:"key" bson:"key"`
}

// SocialPost represents a community post stored in MongoDB.
type SocialPost struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string               `json:"title" bson:"title"`
	Topic     string               `json:"topic" bson:"topic"`
	Images    []SocialImage        `json:"images" bson:"images"`
	AuthorID  primitive.ObjectID   `json:"author_id" bson:"author"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []primitive.ObjectID `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// CreateSocialPostInput defines the payload for creating a social post.
type CreateSocialPostInput struct {
	Title  string   `json:"title" validate:"required"`
	Topic  string   `json:"topic" validate:"required"`
	Images []string `json:"images"`
}

// ReportPost is a user report filed against a listing.
type ReportPost struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostID    primitive.ObjectID `json:"post_id" bson:"post"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user"`
	Content   string             `json:"content" bson:"content"`
	Images    []string           `json:"images" bson:"images"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
