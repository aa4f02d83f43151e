package graph

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/notify"
	"github.com/delibee-app/server/internal/store"
)

// CreateComment stores a comment or reply, mirrors it into the target post's
// array (and the parent's children for replies), and fans out the
// notification to the post author.
func (r *Resolver) CreateComment(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input models.CreateCommentInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	postID, err := primitive.ObjectIDFromHex(input.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post_id")
	}

	comment := &models.Comment{
		Text:     input.Text,
		PostID:   postID,
		PostKind: models.TargetKind(input.PostKind),
		AuthorID: authID,
	}
	if input.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent_id")
		}
		comment.ParentID = &parentID
	}
	if input.Image != "" {
		data, err := base64.StdEncoding.DecodeString(input.Image)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		url, key, err := r.Uploader.Upload("comment", "comment.jpg", "image/jpeg", bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		comment.Image, comment.ImageKey = url, key
	}

	if err := r.Store.Comments.Create(p.Context, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if comment.ParentID != nil {
		if err := r.Store.Comments.PushChild(p.Context, *comment.ParentID, comment.ID); err != nil {
			return nil, fmt.Errorf("attach reply to parent: %w", err)
		}
	}

	var postAuthor primitive.ObjectID
	switch comment.PostKind {
	case models.TargetSocialPost:
		post, err := r.Store.SocialPosts.ByID(p.Context, postID)
		if err != nil {
			return nil, notFound("post", err)
		}
		postAuthor = post.AuthorID
		if err := r.Store.SocialPosts.PushRef(p.Context, postID, store.FieldComments, comment.ID); err != nil {
			return nil, fmt.Errorf("attach comment to post: %w", err)
		}
	default:
		post, err := r.Store.Posts.ByID(p.Context, postID)
		if err != nil {
			return nil, notFound("post", err)
		}
		postAuthor = post.AuthorID
		if err := r.Store.Posts.PushRef(p.Context, postID, store.FieldComments, comment.ID); err != nil {
			return nil, fmt.Errorf("attach comment to post: %w", err)
		}
	}

	if err := r.Store.Users.PushRef(p.Context, authID, store.FieldComments, comment.ID); err != nil {
		return nil, fmt.Errorf("attach comment to user: %w", err)
	}

	if _, err := r.Fanout.Created(p.Context, notify.Event{
		Kind:     models.NotificationComment,
		ActorID:  authID,
		TargetID: postAuthor,
		PostID:   &postID,
		PostKind: input.PostKind,
		RefID:    &comment.ID,
	}); err != nil {
		log.Printf("graph: comment fanout: %v", err)
	}

	return comment, nil
}

func (r *Resolver) GetComments(p graphql.ResolveParams) (any, error) {
	postID, err := idArg(p, "postId")
	if err != nil {
		return nil, err
	}
	comments, err := r.Store.Comments.ByPost(p.Context, postID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes the comment, its replies, and every reference to
// them: the post's array, the parent's children, the authors' arrays and any
// likes on the deleted comments.
func (r *Resolver) DeleteComment(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}

	comment, err := r.Store.Comments.ByID(p.Context, id)
	if err != nil {
		return nil, notFound("comment", err)
	}
	if comment.AuthorID != authID {
		return nil, fmt.Errorf("not the comment author")
	}

	var errs []error
	doomed := []models.Comment{*comment}
	if len(comment.Children) > 0 {
		children, err := r.Store.Comments.ByIDs(p.Context, comment.Children)
		if err != nil {
			errs = append(errs, fmt.Errorf("load replies: %w", err))
		}
		doomed = append(doomed, children...)
	}

	for _, c := range doomed {
		if _, err := r.Store.Comments.Delete(p.Context, c.ID); err != nil && err != store.ErrNotFound {
			errs = append(errs, fmt.Errorf("delete comment %s: %w", c.ID.Hex(), err))
		}
		if err := r.Store.Users.PullRef(p.Context, c.AuthorID, store.FieldComments, c.ID); err != nil {
			errs = append(errs, fmt.Errorf("detach comment %s from author: %w", c.ID.Hex(), err))
		}
		errs = append(errs, r.deleteLikesOn(p, c.ID)...)
		errs = append(errs, r.pullCommentFromPost(p, &c)...)
	}

	if comment.ParentID != nil {
		if err := r.Store.Comments.PullChild(p.Context, *comment.ParentID, comment.ID); err != nil && err != store.ErrNotFound {
			errs = append(errs, fmt.Errorf("detach reply from parent: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.Printf("graph: delete comment %s: %v", comment.ID.Hex(), err)
		return nil, fmt.Errorf("delete comment cleanup: %w", err)
	}
	return comment, nil
}

func (r *Resolver) pullCommentFromPost(p graphql.ResolveParams, c *models.Comment) []error {
	var err error
	switch c.PostKind {
	case models.TargetSocialPost:
		err = r.Store.SocialPosts.PullRef(p.Context, c.PostID, store.FieldComments, c.ID)
	default:
		err = r.Store.Posts.PullRef(p.Context, c.PostID, store.FieldComments, c.ID)
	}
	if err != nil && err != store.ErrNotFound {
		return []error{fmt.Errorf("detach comment %s from post: %w", c.ID.Hex(), err)}
	}
	return nil
}
