package graph

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/geo"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/store"
)

// SocialPostsPayload pairs a page of social posts with the count.
type SocialPostsPayload struct {
	Posts []models.SocialPost `json:"posts"`
	Count int64               `json:"count"`
}

// CreatePostSocial uploads the images and stores the social post.
func (r *Resolver) CreatePostSocial(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input models.CreateSocialPostInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}

	urls, keys, err := r.uploadImages("postSocial", input.Images)
	if err != nil {
		return nil, err
	}
	images := make([]models.SocialImage, len(urls))
	for i := range urls {
		images[i] = models.SocialImage{URL: urls[i], Key: keys[i]}
	}

	post := &models.SocialPost{
		Title:    input.Title,
		Topic:    input.Topic,
		Images:   images,
		AuthorID: authID,
	}
	if err := r.Store.SocialPosts.Create(p.Context, post); err != nil {
		return nil, fmt.Errorf("create social post: %w", err)
	}
	if err := r.Store.Users.PushRef(p.Context, authID, store.FieldSocialPosts, post.ID); err != nil {
		return nil, fmt.Errorf("attach social post to user: %w", err)
	}
	return post, nil
}

// GetFollowedPostSocials returns social posts by nearby authors, nearest
// first. Authors are pre-filtered with the bounding box and then re-checked
// against the exact spherical distance, so box corners beyond the radius are
// excluded.
func (r *Resolver) GetFollowedPostSocials(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	user, err := r.Store.Users.ByID(p.Context, authID)
	if err != nil {
		return nil, notFound("user", err)
	}
	skip, limit := pageArgs(p)

	box := geo.BoundingBox(user.Location.Lat, user.Location.Long, r.Radius)
	candidates, err := r.Store.Users.WithinBox(p.Context, box)
	if err != nil {
		return nil, fmt.Errorf("users within box: %w", err)
	}

	distance := make(map[primitive.ObjectID]float64, len(candidates))
	authors := make([]primitive.ObjectID, 0, len(candidates))
	for _, c := range candidates {
		d := geo.Distance(user.Location.Lat, user.Location.Long, c.Location.Lat, c.Location.Long)
		if d > r.Radius {
			continue
		}
		distance[c.ID] = d
		authors = append(authors, c.ID)
	}

	posts, count, err := r.Store.SocialPosts.ByAuthors(p.Context, authors, stringArg(p, "topic"), skip, limit)
	if err != nil {
		return nil, fmt.Errorf("social posts: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return distance[posts[i].AuthorID] < distance[posts[j].AuthorID]
	})
	return &SocialPostsPayload{Posts: posts, Count: count}, nil
}

func (r *Resolver) GetUserPostSocials(p graphql.ResolveParams) (any, error) {
	userID, err := idArg(p, "userId")
	if err != nil {
		return nil, err
	}
	skip, limit := pageArgs(p)
	posts, count, err := r.Store.SocialPosts.ByAuthor(p.Context, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("user social posts: %w", err)
	}
	return &SocialPostsPayload{Posts: posts, Count: count}, nil
}

// DeletePostSocial removes the social post with the same cascade as
// DeletePost: images, likes, comments, notifications and all denormalized
// references.
func (r *Resolver) DeletePostSocial(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}

	post, err := r.Store.SocialPosts.ByID(p.Context, id)
	if err != nil {
		return nil, notFound("post", err)
	}
	if post.AuthorID != authID {
		return nil, fmt.Errorf("not the post author")
	}

	if _, err := r.Store.SocialPosts.Delete(p.Context, id); err != nil {
		return nil, fmt.Errorf("delete social post: %w", err)
	}

	var errs []error
	for _, img := range post.Images {
		if err := r.Uploader.Delete(img.Key); err != nil {
			errs = append(errs, fmt.Errorf("delete image %s: %w", img.Key, err))
		}
	}

	errs = append(errs, r.detachPostDependents(p, post.ID, post.AuthorID, store.FieldSocialPosts)...)

	if err := errors.Join(errs...); err != nil {
		log.Printf("graph: delete social post %s: %v", post.ID.Hex(), err)
		return nil, fmt.Errorf("delete social post cleanup: %w", err)
	}
	return post, nil
}
