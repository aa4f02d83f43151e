package graph

import (
	"fmt"
	"log"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/notify"
	"github.com/delibee-app/server/internal/store"
)

// CreateLikeInput targets a post, social post or comment.
type CreateLikeInput struct {
	TargetID   string `json:"target_id" validate:"required"`
	TargetKind string `json:"target_kind" validate:"required,oneof=post postSocial comment"`
}

// CreateLike stores a like, mirrors it into the target's and the liker's
// arrays, and fans out the notification to the target's author. Liking the
// same target twice returns the existing like unchanged.
func (r *Resolver) CreateLike(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input CreateLikeInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	targetID, err := primitive.ObjectIDFromHex(input.TargetID)
	if err != nil {
		return nil, fmt.Errorf("invalid target_id")
	}

	if existing, err := r.Store.Likes.ByUserAndTarget(p.Context, authID, targetID); err == nil {
		return existing, nil
	} else if err != store.ErrNotFound {
		return nil, fmt.Errorf("check like: %w", err)
	}

	kind := models.TargetKind(input.TargetKind)
	owner, postID, postKind, err := r.likeTarget(p, kind, targetID)
	if err != nil {
		return nil, err
	}

	like := &models.Like{UserID: authID, TargetID: targetID, TargetKind: kind}
	if err := r.Store.Likes.Create(p.Context, like); err != nil {
		return nil, fmt.Errorf("create like: %w", err)
	}

	switch kind {
	case models.TargetPost:
		err = r.Store.Posts.PushRef(p.Context, targetID, store.FieldLikes, like.ID)
	case models.TargetSocialPost:
		err = r.Store.SocialPosts.PushRef(p.Context, targetID, store.FieldLikes, like.ID)
	case models.TargetComment:
		err = r.Store.Comments.PushLike(p.Context, targetID, like.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("attach like to target: %w", err)
	}
	if err := r.Store.Users.PushRef(p.Context, authID, store.FieldLikes, like.ID); err != nil {
		return nil, fmt.Errorf("attach like to user: %w", err)
	}

	if _, err := r.Fanout.Created(p.Context, notify.Event{
		Kind:     models.NotificationLike,
		ActorID:  authID,
		TargetID: owner,
		PostID:   postID,
		PostKind: postKind,
		RefID:    &like.ID,
	}); err != nil {
		log.Printf("graph: like fanout: %v", err)
	}

	return like, nil
}

// likeTarget resolves who owns the liked entity and which post it belongs to.
func (r *Resolver) likeTarget(p graphql.ResolveParams, kind models.TargetKind, targetID primitive.ObjectID) (owner primitive.ObjectID, postID *primitive.ObjectID, postKind string, err error) {
	switch kind {
	case models.TargetPost:
		post, err := r.Store.Posts.ByID(p.Context, targetID)
		if err != nil {
			return primitive.NilObjectID, nil, "", notFound("post", err)
		}
		return post.AuthorID, &post.ID, string(models.TargetPost), nil
	case models.TargetSocialPost:
		post, err := r.Store.SocialPosts.ByID(p.Context, targetID)
		if err != nil {
			return primitive.NilObjectID, nil, "", notFound("post", err)
		}
		return post.AuthorID, &post.ID, string(models.TargetSocialPost), nil
	case models.TargetComment:
		comment, err := r.Store.Comments.ByID(p.Context, targetID)
		if err != nil {
			return primitive.NilObjectID, nil, "", notFound("comment", err)
		}
		return comment.AuthorID, &comment.PostID, string(comment.PostKind), nil
	}
	return primitive.NilObjectID, nil, "", fmt.Errorf("unknown target kind %q", kind)
}

// DeleteLike removes the like, detaches it from the target's and the liker's
// arrays, and deletes the notifications that referenced it.
func (r *Resolver) DeleteLike(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}

	like, err := r.Store.Likes.Delete(p.Context, id)
	if err != nil {
		return nil, notFound("like", err)
	}
	if like.UserID != authID {
		log.Printf("graph: like %s deleted by non-owner %s", like.ID.Hex(), authID.Hex())
	}

	switch like.TargetKind {
	case models.TargetSocialPost:
		err = r.Store.SocialPosts.PullRef(p.Context, like.TargetID, store.FieldLikes, like.ID)
	case models.TargetComment:
		err = r.Store.Comments.PullLike(p.Context, like.TargetID, like.ID)
	default:
		err = r.Store.Posts.PullRef(p.Context, like.TargetID, store.FieldLikes, like.ID)
	}
	if err != nil && err != store.ErrNotFound {
		return nil, fmt.Errorf("detach like from target: %w", err)
	}
	if err := r.Store.Users.PullRef(p.Context, like.UserID, store.FieldLikes, like.ID); err != nil {
		return nil, fmt.Errorf("detach like from user: %w", err)
	}

	if err := r.Fanout.LikeDeleted(p.Context, like.ID); err != nil {
		log.Printf("graph: like notification cleanup: %v", err)
	}
	return like, nil
}
