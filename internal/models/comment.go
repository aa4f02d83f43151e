package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetKind discriminates which collection a like or comment is attached to.
type TargetKind string

const (
	TargetPost       TargetKind = "post"
	TargetSocialPost TargetKind = "postSocial"
	TargetComment    TargetKind = "comment"
)

// Comment represents a comment on a post or social post. Replies carry a
// ParentID and are mirrored into the parent's Children array when created.
type Comment struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Text      string               `json:"text" bson:"text"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	ImageKey  string               `json:"-" bson:"image_key,omitempty"`
	PostID    primitive.ObjectID   `json:"post_id" bson:"post"`
	PostKind  TargetKind           `json:"post_kind" bson:"post_kind"`
	AuthorID  primitive.ObjectID   `json:"author_id" bson:"author"`
	ParentID  *primitive.ObjectID  `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Children  []primitive.ObjectID `json:"children" bson:"children"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// CreateCommentInput defines the payload for creating a comment or reply.
type CreateCommentInput struct {
	Text     string `json:"text" validate:"required_without=Image"`
	PostID   string `json:"post_id" validate:"required"`
	PostKind string `json:"post_kind" validate:"required,oneof=post postSocial"`
	ParentID string `json:"parent_id,omitempty"`
	Image    string `json:"image,omitempty"`
}

// Like represents a like on a post, social post or comment. The target kind
// is stored explicitly so deletion can detach from the right collection.
type Like struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"user_id" bson:"user"`
	TargetID   primitive.ObjectID `json:"target_id" bson:"target"`
	TargetKind TargetKind         `json:"target_kind" bson:"target_kind"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// Follow represents one user following another.
type Follow struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FollowerID primitive.ObjectID `json:"follower_id" bson:"follower"`
	UserID     primitive.ObjectID `json:"user_id" bson:"user"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
