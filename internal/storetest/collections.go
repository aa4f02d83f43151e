package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/geo"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/store"
)

// Posts is the in-memory store.Posts.
type Posts struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Post
}

func (r *Posts) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	copied := *post
	r.docs[post.ID] = &copied
	return nil
}

func (r *Posts) ByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *Posts) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []models.Post
	for _, id := range ids {
		if p, ok := r.docs[id]; ok {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (r *Posts) ByAuthor(_ context.Context, author primitive.ObjectID, skip, limit int64) ([]models.Post, int64, error) {
	return r.page(func(p *models.Post) bool { return p.AuthorID == author }, skip, limit)
}

func (r *Posts) ListOthers(_ context.Context, exclude primitive.ObjectID, skip, limit int64) ([]models.Post, int64, error) {
	return r.page(func(p *models.Post) bool { return p.AuthorID != exclude && len(p.Images) > 0 }, skip, limit)
}

func (r *Posts) Discover(_ context.Context, q store.DiscoverQuery) ([]models.Post, int64, error) {
	categories := map[string]bool{}
	for _, c := range q.Categories {
		categories[c] = true
	}
	return r.page(func(p *models.Post) bool {
		if !q.Box.Contains(p.Location.Lat, p.Location.Long) && p.AuthorID != q.Author {
			return false
		}
		if q.Type != "" && p.Type != q.Type {
			return false
		}
		if len(categories) > 0 && !categories[p.Category] {
			return false
		}
		return true
	}, q.Skip, q.Limit)
}

func (r *Posts) Related(_ context.Context, box geo.Box, category string, exclude primitive.ObjectID) ([]models.Post, error) {
	posts, _, err := r.page(func(p *models.Post) bool {
		return p.ID != exclude && p.Category == category && box.Contains(p.Location.Lat, p.Location.Long)
	}, 0, 0)
	return posts, err
}

func (r *Posts) Search(_ context.Context, title, category string) ([]models.Post, error) {
	posts, _, err := r.page(func(p *models.Post) bool {
		if category != "" && p.Category != category {
			return false
		}
		return strings.Contains(strings.ToLower(p.Title), strings.ToLower(title))
	}, 0, 0)
	return posts, err
}

func (r *Posts) Delete(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(r.docs, id)
	return p, nil
}

func (r *Posts) IncView(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return r.inc(id, func(p *models.Post) { p.View++ })
}

func (r *Posts) IncContact(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return r.inc(id, func(p *models.Post) { p.Contact++ })
}

func (r *Posts) inc(id primitive.ObjectID, f func(*models.Post)) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	f(p)
	copied := *p
	return &copied, nil
}

func (r *Posts) PushRef(_ context.Context, id primitive.ObjectID, field store.RefField, ref primitive.ObjectID) error {
	return r.editRefs(id, field, func(arr []primitive.ObjectID) []primitive.ObjectID { return append(arr, ref) })
}

func (r *Posts) PullRef(_ context.Context, id primitive.ObjectID, field store.RefField, ref primitive.ObjectID) error {
	return r.editRefs(id, field, func(arr []primitive.ObjectID) []primitive.ObjectID { return pull(arr, ref) })
}

func (r *Posts) editRefs(id primitive.ObjectID, field store.RefField, f func([]primitive.ObjectID) []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	switch field {
	case store.FieldLikes:
		p.Likes = f(p.Likes)
	case store.FieldComments:
		p.Comments = f(p.Comments)
	case store.FieldChannels:
		p.Channels = f(p.Channels)
	}
	return nil
}

func (r *Posts) page(match func(*models.Post) bool, skip, limit int64) ([]models.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []models.Post
	for _, p := range r.docs {
		if match(p) {
			posts = append(posts, *p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	total := int64(len(posts))
	if skip >= total {
		return nil, total, nil
	}
	posts = posts[skip:]
	if limit > 0 && int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts, total, nil
}

// SocialPosts is the in-memory store.SocialPosts.
type SocialPosts struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.SocialPost
}

func (r *SocialPosts) Create(_ context.Context, post *models.SocialPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	copied := *post
	r.docs[post.ID] = &copied
	return nil
}

func (r *SocialPosts) ByID(_ context.Context, id primitive.ObjectID) (*models.SocialPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *SocialPosts) ByAuthor(_ context.Context, author primitive.ObjectID, skip, limit int64) ([]models.SocialPost, int64, error) {
	return r.page(func(p *models.SocialPost) bool { return p.AuthorID == author }, skip, limit)
}

func (r *SocialPosts) ByAuthors(_ context.Context, authors []primitive.ObjectID, topic string, skip, limit int64) ([]models.SocialPost, int64, error) {
	set := map[primitive.ObjectID]bool{}
	for _, a := range authors {
		set[a] = true
	}
	return r.page(func(p *models.SocialPost) bool {
		if topic != "" && p.Topic != topic {
			return false
		}
		return set[p.AuthorID]
	}, skip, limit)
}

func (r *SocialPosts) Delete(_ context.Context, id primitive.ObjectID) (*models.SocialPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(r.docs, id)
	return p, nil
}

func (r *SocialPosts) PushRef(_ context.Context, id primitive.ObjectID, field store.RefField, ref primitive.ObjectID) error {
	return r.editRefs(id, field, func(arr []primitive.ObjectID) []primitive.ObjectID { return append(arr, ref) })
}

func (r *SocialPosts) PullRef(_ context.Context, id primitive.ObjectID, field store.RefField, ref primitive.ObjectID) error {
	return r.editRefs(id, field, func(arr []primitive.ObjectID) []primitive.ObjectID { return pull(arr, ref) })
}

func (r *SocialPosts) editRefs(id primitive.ObjectID, field store.RefField, f func([]primitive.ObjectID) []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	switch field {
	case store.FieldLikes:
		p.Likes = f(p.Likes)
	case store.FieldComments:
		p.Comments = f(p.Comments)
	}
	return nil
}

func (r *SocialPosts) page(match func(*models.SocialPost) bool, skip, limit int64) ([]models.SocialPost, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []models.SocialPost
	for _, p := range r.docs {
		if match(p) {
			posts = append(posts, *p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	total := int64(len(posts))
	if skip >= total {
		return nil, total, nil
	}
	posts = posts[skip:]
	if limit > 0 && int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts, total, nil
}

// Comments is the in-memory store.Comments.
type Comments struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Comment
}

func (r *Comments) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	copied := *comment
	r.docs[comment.ID] = &copied
	return nil
}

func (r *Comments) ByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *Comments) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var comments []models.Comment
	for _, id := range ids {
		if c, ok := r.docs[id]; ok {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (r *Comments) ByPost(_ context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var comments []models.Comment
	for _, c := range r.docs {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.After(comments[j].CreatedAt) })
	return comments, nil
}

func (r *Comments) Delete(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(r.docs, id)
	return c, nil
}

func (r *Comments) DeleteByPost(_ context.Context, postID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.docs {
		if c.PostID == postID {
			delete(r.docs, id)
		}
	}
	return nil
}

func (r *Comments) PushChild(_ context.Context, parentID, childID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent, ok := r.docs[parentID]
	if !ok {
		return store.ErrNotFound
	}
	parent.Children = append(parent.Children, childID)
	return nil
}

func (r *Comments) PullChild(_ context.Context, parentID, childID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent, ok := r.docs[parentID]
	if !ok {
		return store.ErrNotFound
	}
	parent.Children = pull(parent.Children, childID)
	return nil
}

func (r *Comments) PushLike(_ context.Context, id, likeID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	c.Likes = append(c.Likes, likeID)
	return nil
}

func (r *Comments) PullLike(_ context.Context, id, likeID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	c.Likes = pull(c.Likes, likeID)
	return nil
}

// Likes is the in-memory store.Likes.
type Likes struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Like
}

func (r *Likes) Create(_ context.Context, like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	like.ID = primitive.NewObjectID()
	like.CreatedAt = time.Now()
	copied := *like
	r.docs[like.ID] = &copied
	return nil
}

func (r *Likes) ByID(_ context.Context, id primitive.ObjectID) (*models.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (r *Likes) ByUserAndTarget(_ context.Context, userID, targetID primitive.ObjectID) (*models.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.docs {
		if l.UserID == userID && l.TargetID == targetID {
			copied := *l
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *Likes) ByTarget(_ context.Context, targetID primitive.ObjectID) ([]models.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var likes []models.Like
	for _, l := range r.docs {
		if l.TargetID == targetID {
			likes = append(likes, *l)
		}
	}
	return likes, nil
}

func (r *Likes) Delete(_ context.Context, id primitive.ObjectID) (*models.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(r.docs, id)
	return l, nil
}

func (r *Likes) DeleteByTarget(_ context.Context, targetID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.docs {
		if l.TargetID == targetID {
			delete(r.docs, id)
		}
	}
	return nil
}

// Messages is the in-memory store.Messages.
type Messages struct {
	mu   sync.Mutex
	docs []*models.Message
}

func (r *Messages) Create(_ context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	if message.Kind == "" {
		message.Kind = models.MessageText
	}
	copied := *message
	r.docs = append(r.docs, &copied)
	return nil
}

func (r *Messages) Conversation(_ context.Context, authID, otherID, postID primitive.ObjectID) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var messages []models.Message
	for _, m := range r.docs {
		if m.PostID != postID {
			continue
		}
		if (m.SenderID == authID || m.ReceiverID == authID) && (m.SenderID == otherID || m.ReceiverID == otherID) {
			messages = append(messages, *m)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].CreatedAt.After(messages[j].CreatedAt) })
	return messages, nil
}

func (r *Messages) LastPerChannel(_ context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	return r.lastBy(
		func(m *models.Message) bool { return m.SenderID == userID || m.ReceiverID == userID },
		func(m *models.Message) primitive.ObjectID { return m.ChannelID },
	), nil
}

func (r *Messages) LastUnseenPerSender(_ context.Context, receiverID primitive.ObjectID) ([]models.Message, error) {
	return r.lastBy(
		func(m *models.Message) bool { return m.ReceiverID == receiverID && !m.Seen },
		func(m *models.Message) primitive.ObjectID { return m.SenderID },
	), nil
}

func (r *Messages) lastBy(match func(*models.Message) bool, key func(*models.Message) primitive.ObjectID) []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := map[primitive.ObjectID]models.Message{}
	for _, m := range r.docs {
		if !match(m) {
			continue
		}
		k := key(m)
		if cur, ok := latest[k]; !ok || m.CreatedAt.After(cur.CreatedAt) {
			latest[k] = *m
		}
	}
	out := make([]models.Message, 0, len(latest))
	for _, m := range latest {
		out = append(out, m)
	}
	return out
}

func (r *Messages) AttachChannel(_ context.Context, id, channelID primitive.ObjectID, first bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.docs {
		if m.ID == id {
			m.ChannelID = channelID
			m.IsFirst = first
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *Messages) MarkSeen(_ context.Context, senderID, receiverID, postID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.docs {
		if m.SenderID == senderID && m.ReceiverID == receiverID && m.PostID == postID {
			m.Seen = true
		}
	}
	return nil
}

// Channels is the in-memory store.Channels.
type Channels struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Channel
}

func (r *Channels) Create(_ context.Context, channel *models.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	channel.ID = primitive.NewObjectID()
	channel.CreatedAt = time.Now()
	copied := *channel
	r.docs[channel.ID] = &copied
	return nil
}

func (r *Channels) ByID(_ context.Context, id primitive.ObjectID) (*models.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *Channels) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var channels []models.Channel
	for _, id := range ids {
		if c, ok := r.docs[id]; ok {
			channels = append(channels, *c)
		}
	}
	return channels, nil
}

func (r *Channels) ByUserAndPost(_ context.Context, userID, postID primitive.ObjectID) (*models.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.docs {
		if c.UserID == userID && c.PostID == postID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

// Notifications is the in-memory store.Notifications.
type Notifications struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Notification
}

func (r *Notifications) Create(_ context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	copied := *notification
	r.docs[notification.ID] = &copied
	return nil
}

func (r *Notifications) ByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *Notifications) ByKey(_ context.Context, key primitive.ObjectID, skip, limit int64) ([]models.Notification, int64, error) {
	rows := r.filter(func(n *models.Notification) bool { return n.Key == key })
	total := int64(len(rows))
	if skip >= total {
		return nil, total, nil
	}
	rows = rows[skip:]
	if limit > 0 && int64(len(rows)) > limit {
		rows = rows[:limit]
	}
	return rows, total, nil
}

func (r *Notifications) ByLike(_ context.Context, likeID primitive.ObjectID) ([]models.Notification, error) {
	return r.filter(func(n *models.Notification) bool { return n.LikeID != nil && *n.LikeID == likeID }), nil
}

func (r *Notifications) ByPost(_ context.Context, postID primitive.ObjectID) ([]models.Notification, error) {
	return r.filter(func(n *models.Notification) bool { return n.PostID != nil && *n.PostID == postID }), nil
}

func (r *Notifications) Delete(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(r.docs, id)
	return n, nil
}

func (r *Notifications) DeleteByPost(_ context.Context, postID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.docs {
		if n.PostID != nil && *n.PostID == postID {
			delete(r.docs, id)
		}
	}
	return nil
}

func (r *Notifications) MarkSeen(_ context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.docs {
		if n.UserID == userID {
			n.Seen = true
		}
	}
	return nil
}

func (r *Notifications) SetClick(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	n.Click = true
	return nil
}

func (r *Notifications) filter(match func(*models.Notification) bool) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []models.Notification
	for _, n := range r.docs {
		if match(n) {
			rows = append(rows, *n)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows
}

// Follows is the in-memory store.Follows.
type Follows struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Follow
}

func (r *Follows) Create(_ context.Context, follow *models.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	follow.ID = primitive.NewObjectID()
	follow.CreatedAt = time.Now()
	copied := *follow
	r.docs[follow.ID] = &copied
	return nil
}

func (r *Follows) ByFollowerAndUser(_ context.Context, followerID, userID primitive.ObjectID) (*models.Follow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.docs {
		if f.FollowerID == followerID && f.UserID == userID {
			copied := *f
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *Follows) Delete(_ context.Context, id primitive.ObjectID) (*models.Follow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(r.docs, id)
	return f, nil
}

func (r *Follows) FollowedBy(_ context.Context, followerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []primitive.ObjectID
	for _, f := range r.docs {
		if f.FollowerID == followerID {
			ids = append(ids, f.UserID)
		}
	}
	return ids, nil
}

// Reports is the in-memory store.Reports.
type Reports struct {
	mu   sync.Mutex
	docs []*models.ReportPost
}

func (r *Reports) Create(_ context.Context, report *models.ReportPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now()
	copied := *report
	r.docs = append(r.docs, &copied)
	return nil
}
