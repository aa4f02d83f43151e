package graph

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/geo"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/store"
)

// PostsPayload pairs a page of listings with the unfiltered count.
type PostsPayload struct {
	Posts []models.Post `json:"posts"`
	Count int64         `json:"count"`
}

// PostPayload is a listing plus nearby listings in the same category.
type PostPayload struct {
	Post    *models.Post  `json:"post"`
	Related []models.Post `json:"related"`
}

// CreatePost uploads the listing images and stores the listing. An upload
// failure aborts the mutation.
func (r *Resolver) CreatePost(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input models.CreatePostInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}

	urls, keys, err := r.uploadImages("post", input.Images)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     input.Title,
		Price:     input.Price,
		Content:   input.Content,
		Type:      input.Type,
		Category:  input.Category,
		Location:  input.Location,
		Images:    urls,
		ImageKeys: keys,
		AuthorID:  authID,
	}
	if err := r.Store.Posts.Create(p.Context, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	if err := r.Store.Users.PushRef(p.Context, authID, store.FieldPosts, post.ID); err != nil {
		return nil, fmt.Errorf("attach post to user: %w", err)
	}
	return post, nil
}

// GetPosts lists other users' listings that carry at least one image.
func (r *Resolver) GetPosts(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	skip, limit := pageArgs(p)
	posts, count, err := r.Store.Posts.ListOthers(p.Context, authID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return &PostsPayload{Posts: posts, Count: count}, nil
}

// GetFollowedPosts returns listings inside the caller's geofence plus the
// caller's own, filtered by type and categories.
func (r *Resolver) GetFollowedPosts(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	user, err := r.Store.Users.ByID(p.Context, authID)
	if err != nil {
		return nil, notFound("user", err)
	}
	skip, limit := pageArgs(p)

	var categories []string
	if raw, ok := p.Args["categories"].([]any); ok {
		for _, c := range raw {
			if s, ok := c.(string); ok {
				categories = append(categories, s)
			}
		}
	}

	q := store.DiscoverQuery{
		Box:        geo.BoundingBox(user.Location.Lat, user.Location.Long, r.Radius),
		Author:     authID,
		Type:       stringArg(p, "type"),
		Categories: categories,
		Skip:       skip,
		Limit:      limit,
	}
	posts, count, err := r.Store.Posts.Discover(p.Context, q)
	if err != nil {
		return nil, fmt.Errorf("discover posts: %w", err)
	}
	return &PostsPayload{Posts: posts, Count: count}, nil
}

// GetPost loads one listing along with related nearby listings in the same
// category.
func (r *Resolver) GetPost(p graphql.ResolveParams) (any, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	post, err := r.Store.Posts.ByID(p.Context, id)
	if err != nil {
		return nil, notFound("post", err)
	}
	box := geo.BoundingBox(post.Location.Lat, post.Location.Long, r.Radius)
	related, err := r.Store.Posts.Related(p.Context, box, post.Category, post.ID)
	if err != nil {
		return nil, fmt.Errorf("related posts: %w", err)
	}
	return &PostPayload{Post: post, Related: related}, nil
}

func (r *Resolver) GetUserPosts(p graphql.ResolveParams) (any, error) {
	userID, err := idArg(p, "userId")
	if err != nil {
		return nil, err
	}
	skip, limit := pageArgs(p)
	posts, count, err := r.Store.Posts.ByAuthor(p.Context, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("user posts: %w", err)
	}
	return &PostsPayload{Posts: posts, Count: count}, nil
}

func (r *Resolver) SearchPosts(p graphql.ResolveParams) (any, error) {
	query := stringArg(p, "searchQuery")
	if query == "" {
		return []models.Post{}, nil
	}
	posts, err := r.Store.Posts.Search(p.Context, query, stringArg(p, "category"))
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, nil
}

// ViewPost bumps the view counter. Soft failure.
func (r *Resolver) ViewPost(p graphql.ResolveParams) (any, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	post, err := r.Store.Posts.IncView(p.Context, id)
	if err != nil {
		log.Printf("graph: view post: %v", err)
		return nil, nil
	}
	return post, nil
}

// ContactPost bumps the contact counter. Soft failure.
func (r *Resolver) ContactPost(p graphql.ResolveParams) (any, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	post, err := r.Store.Posts.IncContact(p.Context, id)
	if err != nil {
		log.Printf("graph: contact post: %v", err)
		return nil, nil
	}
	return post, nil
}

// DeletePost removes the listing and every dependent row: stored images,
// likes on the post and its comments, the comments themselves, notifications
// referencing the post, and every denormalized array entry pointing at any of
// them. Detachments run one by one; failures are collected, not retried, and
// never resurrect already-deleted rows.
func (r *Resolver) DeletePost(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}

	post, err := r.Store.Posts.ByID(p.Context, id)
	if err != nil {
		return nil, notFound("post", err)
	}
	if post.AuthorID != authID {
		return nil, fmt.Errorf("not the post author")
	}

	if _, err := r.Store.Posts.Delete(p.Context, id); err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}

	var errs []error
	for _, key := range post.ImageKeys {
		if err := r.Uploader.Delete(key); err != nil {
			errs = append(errs, fmt.Errorf("delete image %s: %w", key, err))
		}
	}

	errs = append(errs, r.detachPostDependents(p, post.ID, post.AuthorID, store.FieldPosts)...)

	if err := errors.Join(errs...); err != nil {
		log.Printf("graph: delete post %s: %v", post.ID.Hex(), err)
		return nil, fmt.Errorf("delete post cleanup: %w", err)
	}
	return post, nil
}

// detachPostDependents removes likes, comments and notifications hanging off
// a deleted post or social post and pulls every dangling reference out of the
// user documents. Errors are accumulated so one failed pull does not leave
// the rest attached.
func (r *Resolver) detachPostDependents(p graphql.ResolveParams, postID, authorID primitive.ObjectID, ownerField store.RefField) []error {
	ctx := p.Context
	var errs []error

	if err := r.Store.Users.PullRef(ctx, authorID, ownerField, postID); err != nil {
		errs = append(errs, fmt.Errorf("detach post from author: %w", err))
	}

	// Likes on the post itself.
	errs = append(errs, r.deleteLikesOn(p, postID)...)

	// Comments, their likes, and the commenters' arrays.
	comments, err := r.Store.Comments.ByPost(ctx, postID)
	if err != nil {
		errs = append(errs, fmt.Errorf("load comments: %w", err))
	}
	for _, c := range comments {
		errs = append(errs, r.deleteLikesOn(p, c.ID)...)
		if err := r.Store.Users.PullRef(ctx, c.AuthorID, store.FieldComments, c.ID); err != nil {
			errs = append(errs, fmt.Errorf("detach comment %s: %w", c.ID.Hex(), err))
		}
	}
	if err := r.Store.Comments.DeleteByPost(ctx, postID); err != nil {
		errs = append(errs, fmt.Errorf("delete comments: %w", err))
	}

	// Notifications referencing the post, keyed to both parties.
	rows, err := r.Store.Notifications.ByPost(ctx, postID)
	if err != nil {
		errs = append(errs, fmt.Errorf("load notifications: %w", err))
	}
	for _, row := range rows {
		if err := r.Store.Users.PullRef(ctx, row.Key, store.FieldNotifications, row.ID); err != nil {
			errs = append(errs, fmt.Errorf("detach notification %s: %w", row.ID.Hex(), err))
		}
	}
	if err := r.Store.Notifications.DeleteByPost(ctx, postID); err != nil {
		errs = append(errs, fmt.Errorf("delete notifications: %w", err))
	}

	return errs
}

// deleteLikesOn removes every like on a target and pulls each like from its
// user's array.
func (r *Resolver) deleteLikesOn(p graphql.ResolveParams, targetID primitive.ObjectID) []error {
	ctx := p.Context
	var errs []error
	likes, err := r.Store.Likes.ByTarget(ctx, targetID)
	if err != nil {
		return []error{fmt.Errorf("load likes: %w", err)}
	}
	for _, l := range likes {
		if err := r.Store.Users.PullRef(ctx, l.UserID, store.FieldLikes, l.ID); err != nil {
			errs = append(errs, fmt.Errorf("detach like %s: %w", l.ID.Hex(), err))
		}
	}
	if err := r.Store.Likes.DeleteByTarget(ctx, targetID); err != nil {
		errs = append(errs, fmt.Errorf("delete likes: %w", err))
	}
	return errs
}

// CreateReportPost files a report against a listing.
func (r *Resolver) CreateReportPost(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input struct {
		PostID  string   `json:"post_id" validate:"required"`
		Content string   `json:"content" validate:"required"`
		Images  []string `json:"images"`
	}
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	postID, err := primitive.ObjectIDFromHex(input.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post_id")
	}

	urls, _, err := r.uploadImages("report", input.Images)
	if err != nil {
		return nil, err
	}

	report := &models.ReportPost{
		PostID:  postID,
		UserID:  authID,
		Content: input.Content,
		Images:  urls,
	}
	if err := r.Store.Reports.Create(p.Context, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return report, nil
}

// uploadImages stores a batch of base64-encoded images under folder and
// returns their URLs and keys. The first failure aborts; earlier uploads are
// kept.
func (r *Resolver) uploadImages(folder string, images []string) (urls, keys []string, err error) {
	for i, img := range images {
		data, err := base64.StdEncoding.DecodeString(img)
		if err != nil {
			return nil, nil, fmt.Errorf("decode image %d: %w", i, err)
		}
		url, key, err := r.Uploader.Upload(folder, fmt.Sprintf("image-%d.jpg", i), "image/jpeg", bytes.NewReader(data))
		if err != nil {
			return nil, nil, fmt.Errorf("upload image %d: %w", i, err)
		}
		urls = append(urls, url)
		keys = append(keys, key)
	}
	return urls, keys, nil
}
