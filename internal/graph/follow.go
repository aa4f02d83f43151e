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

// FollowInput names the user being followed or unfollowed.
type FollowInput struct {
	UserID string `json:"user_id" validate:"required"`
}

// CreateFollow stores the follow edge, mirrors it into both users' arrays
// and fans out the notification. Following the same user twice returns the
// existing edge.
func (r *Resolver) CreateFollow(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input FollowInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	userID, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id")
	}
	if userID == authID {
		return nil, fmt.Errorf("cannot follow yourself")
	}

	if existing, err := r.Store.Follows.ByFollowerAndUser(p.Context, authID, userID); err == nil {
		return existing, nil
	} else if err != store.ErrNotFound {
		return nil, fmt.Errorf("check follow: %w", err)
	}

	follow := &models.Follow{FollowerID: authID, UserID: userID}
	if err := r.Store.Follows.Create(p.Context, follow); err != nil {
		return nil, fmt.Errorf("create follow: %w", err)
	}
	if err := r.Store.Users.PushRef(p.Context, userID, store.FieldFollowers, follow.ID); err != nil {
		return nil, fmt.Errorf("attach follower: %w", err)
	}
	if err := r.Store.Users.PushRef(p.Context, authID, store.FieldFollowing, follow.ID); err != nil {
		return nil, fmt.Errorf("attach following: %w", err)
	}

	if _, err := r.Fanout.Created(p.Context, notify.Event{
		Kind:     models.NotificationFollow,
		ActorID:  authID,
		TargetID: userID,
		RefID:    &follow.ID,
	}); err != nil {
		log.Printf("graph: follow fanout: %v", err)
	}

	return follow, nil
}

// DeleteFollow removes the follow edge and both array entries.
func (r *Resolver) DeleteFollow(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input FollowInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	userID, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id")
	}

	follow, err := r.Store.Follows.ByFollowerAndUser(p.Context, authID, userID)
	if err != nil {
		return nil, notFound("follow", err)
	}
	if _, err := r.Store.Follows.Delete(p.Context, follow.ID); err != nil {
		return nil, notFound("follow", err)
	}
	if err := r.Store.Users.PullRef(p.Context, userID, store.FieldFollowers, follow.ID); err != nil {
		return nil, fmt.Errorf("detach follower: %w", err)
	}
	if err := r.Store.Users.PullRef(p.Context, authID, store.FieldFollowing, follow.ID); err != nil {
		return nil, fmt.Errorf("detach following: %w", err)
	}
	return follow, nil
}
