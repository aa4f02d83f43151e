// Package storetest provides in-memory implementations of the store
// interfaces for tests. Semantics mirror the Mongo repositories: ErrNotFound
// on missing documents, manual array push/pull, newest-first sorts.
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

// New returns a store.Store backed entirely by memory.
func New() *store.Store {
	return &store.Store{
		Users:         &Users{docs: map[primitive.ObjectID]*models.User{}},
		Posts:         &Posts{docs: map[primitive.ObjectID]*models.Post{}},
		SocialPosts:   &SocialPosts{docs: map[primitive.ObjectID]*models.SocialPost{}},
		Comments:      &Comments{docs: map[primitive.ObjectID]*models.Comment{}},
		Likes:         &Likes{docs: map[primitive.ObjectID]*models.Like{}},
		Messages:      &Messages{},
		Channels:      &Channels{docs: map[primitive.ObjectID]*models.Channel{}},
		Notifications: &Notifications{docs: map[primitive.ObjectID]*models.Notification{}},
		Follows:       &Follows{docs: map[primitive.ObjectID]*models.Follow{}},
		Reports:       &Reports{},
	}
}

func pull(ids []primitive.ObjectID, ref primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, id := range ids {
		if id != ref {
			out = append(out, id)
		}
	}
	return out
}

func refArray(u *models.User, field store.RefField) *[]primitive.ObjectID {
	switch field {
	case store.FieldPosts:
		return &u.Posts
	case store.FieldSocialPosts:
		return &u.SocialPosts
	case store.FieldLikes:
		return &u.Likes
	case store.FieldComments:
		return &u.Comments
	case store.FieldFollowers:
		return &u.Followers
	case store.FieldFollowing:
		return &u.Following
	case store.FieldNotifications:
		return &u.Notifications
	case store.FieldChannels:
		return &u.Channels
	}
	return nil
}

// Users is the in-memory store.Users.
type Users struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.User
}

func (r *Users) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	copied := *user
	r.docs[user.ID] = &copied
	return nil
}

func (r *Users) ByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *Users) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	for _, id := range ids {
		if u, ok := r.docs[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *Users) ByProvider(_ context.Context, provider, providerID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.docs {
		var match bool
		switch provider {
		case "naver":
			match = u.NaverID == providerID
		case "kakao":
			match = u.KakaoID == providerID
		case "google":
			match = u.GoogleID == providerID
		}
		if match {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *Users) Search(_ context.Context, query string, exclude primitive.ObjectID, limit int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	q := strings.ToLower(query)
	for _, u := range r.docs {
		if u.ID == exclude {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.FullName), q) {
			users = append(users, *u)
		}
		if int64(len(users)) == limit {
			break
		}
	}
	return users, nil
}

func (r *Users) ListExcluding(_ context.Context, exclude []primitive.ObjectID, skip, limit int64) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	excluded := map[primitive.ObjectID]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}
	var users []models.User
	for _, u := range r.docs {
		if !excluded[u.ID] {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	total := int64(len(users))
	if skip >= total {
		return nil, total, nil
	}
	users = users[skip:]
	if limit > 0 && int64(len(users)) > limit {
		users = users[:limit]
	}
	return users, total, nil
}

func (r *Users) CountExcluding(ctx context.Context, exclude []primitive.ObjectID) (int64, error) {
	_, total, err := r.ListExcluding(ctx, exclude, 0, 0)
	return total, err
}

func (r *Users) WithinBox(_ context.Context, box geo.Box) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	for _, u := range r.docs {
		if box.Contains(u.Location.Lat, u.Location.Long) {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *Users) UpdateAccount(_ context.Context, id primitive.ObjectID, username, phone, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Username, u.PhoneNumber, u.Email = username, phone, email
	copied := *u
	return &copied, nil
}

func (r *Users) SetPhoto(_ context.Context, id primitive.ObjectID, url, key string, cover bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if cover {
		u.CoverImage, u.CoverKey = url, key
	} else {
		u.Image, u.ImageKey = url, key
	}
	copied := *u
	return &copied, nil
}

func (r *Users) SetOnline(_ context.Context, id primitive.ObjectID, online bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.IsOnline = online
	copied := *u
	return &copied, nil
}

func (r *Users) UpdateSettings(_ context.Context, id primitive.ObjectID, s models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Settings = s
	return nil
}

func (r *Users) AddDeviceToken(_ context.Context, id primitive.ObjectID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	for _, t := range u.DeviceTokens {
		if t == token {
			return nil
		}
	}
	u.DeviceTokens = append(u.DeviceTokens, token)
	return nil
}

func (r *Users) RemoveDeviceToken(_ context.Context, id primitive.ObjectID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	tokens := u.DeviceTokens[:0]
	for _, t := range u.DeviceTokens {
		if t != token {
			tokens = append(tokens, t)
		}
	}
	u.DeviceTokens = tokens
	return nil
}

func (r *Users) PushRef(_ context.Context, id primitive.ObjectID, field store.RefField, ref primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	arr := refArray(u, field)
	*arr = append(*arr, ref)
	return nil
}

func (r *Users) PullRef(_ context.Context, id primitive.ObjectID, field store.RefField, ref primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	arr := refArray(u, field)
	*arr = pull(*arr, ref)
	return nil
}

func (r *Users) PullRefFromAll(_ context.Context, field store.RefField, ref primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.docs {
		arr := refArray(u, field)
		*arr = pull(*arr, ref)
	}
	return nil
}
