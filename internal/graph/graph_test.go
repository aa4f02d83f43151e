package graph

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/conversations"
	"github.com/delibee-app/server/internal/events"
	"github.com/delibee-app/server/internal/identity"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/notify"
	"github.com/delibee-app/server/internal/store"
	"github.com/delibee-app/server/internal/storetest"
)

type fakeUploader struct {
	mu      sync.Mutex
	uploads int
	deleted []string
}

func (f *fakeUploader) Upload(folder, filename, contentType string, body io.ReadSeeker) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	key := fmt.Sprintf("%s/obj-%d", folder, f.uploads)
	return "https://cdn.example.com/" + key, key, nil
}

func (f *fakeUploader) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeVerifier struct {
	profile *identity.Profile
}

func (f *fakeVerifier) Verify(_ context.Context, provider, accessToken string) (*identity.Profile, error) {
	if accessToken != "valid" {
		return nil, fmt.Errorf("bad token")
	}
	p := *f.profile
	p.Provider = provider
	return &p, nil
}

type nopPusher struct{}

func (nopPusher) Send(context.Context, []string, notify.Note) error { return nil }

type fixture struct {
	resolver *Resolver
	store    *store.Store
	uploader *fakeUploader
	bus      *events.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := storetest.New()
	bus := events.NewBus()
	fanout := notify.NewFanout(s.Users, s.Notifications, bus, nopPusher{})
	uploader := &fakeUploader{}
	verifier := &fakeVerifier{profile: &identity.Profile{ID: "prov-1", Name: "tester", Email: "t@t.kr", Image: "img"}}
	return &fixture{
		resolver: NewResolver(s, fanout, bus, uploader, verifier, 2000, "secret"),
		store:    s,
		uploader: uploader,
		bus:      bus,
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Settings: models.DefaultSettings()}
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return u
}

func params(authID primitive.ObjectID, args map[string]any) graphql.ResolveParams {
	ctx := context.Background()
	if !authID.IsZero() {
		ctx = WithAuthUser(ctx, authID)
	}
	return graphql.ResolveParams{Context: ctx, Args: args}
}

func input(authID primitive.ObjectID, in map[string]any) graphql.ResolveParams {
	return params(authID, map[string]any{"input": in})
}

func TestSignInCreatesAccountOnce(t *testing.T) {
	f := newFixture(t)

	res, err := f.resolver.SignInWithProvider(input(primitive.NilObjectID, map[string]any{
		"provider":     "kakao",
		"access_token": "valid",
		"lat":          37.5,
		"long":         127.0,
		"place":        "Seoul",
	}))
	require.NoError(t, err)
	payload := res.(*AuthPayload)
	assert.NotEmpty(t, payload.Token)
	assert.Equal(t, "tester", payload.User.Username)
	assert.Equal(t, "prov-1", payload.User.KakaoID)
	assert.True(t, payload.User.Settings.Notification)

	// Second sign-in resolves to the same account.
	res2, err := f.resolver.SignInWithProvider(input(primitive.NilObjectID, map[string]any{
		"provider":     "kakao",
		"access_token": "valid",
	}))
	require.NoError(t, err)
	assert.Equal(t, payload.User.ID, res2.(*AuthPayload).User.ID)
}

func TestSignInRejectsBadToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.resolver.SignInWithProvider(input(primitive.NilObjectID, map[string]any{
		"provider":     "naver",
		"access_token": "expired",
	}))
	assert.Error(t, err)
}

func TestCreateLikeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	liker := f.user(t, "liker")

	post := &models.Post{Title: "bike", AuthorID: author.ID}
	require.NoError(t, f.store.Posts.Create(ctx, post))

	args := map[string]any{"target_id": post.ID.Hex(), "target_kind": "post"}
	res, err := f.resolver.CreateLike(input(liker.ID, args))
	require.NoError(t, err)
	like := res.(*models.Like)

	res2, err := f.resolver.CreateLike(input(liker.ID, args))
	require.NoError(t, err)
	assert.Equal(t, like.ID, res2.(*models.Like).ID)

	// One like on the post, one on the user, two notification rows.
	p, err := f.store.Posts.ByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, p.Likes, 1)
	u, err := f.store.Users.ByID(ctx, liker.ID)
	require.NoError(t, err)
	assert.Len(t, u.Likes, 1)
	rows, err := f.store.Notifications.ByLike(ctx, like.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDeleteLikeDetachesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	liker := f.user(t, "liker")

	post := &models.Post{Title: "bike", AuthorID: author.ID}
	require.NoError(t, f.store.Posts.Create(ctx, post))

	res, err := f.resolver.CreateLike(input(liker.ID, map[string]any{
		"target_id": post.ID.Hex(), "target_kind": "post",
	}))
	require.NoError(t, err)
	like := res.(*models.Like)

	_, err = f.resolver.DeleteLike(params(liker.ID, map[string]any{"id": like.ID.Hex()}))
	require.NoError(t, err)

	p, err := f.store.Posts.ByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, p.Likes)
	u, err := f.store.Users.ByID(ctx, liker.ID)
	require.NoError(t, err)
	assert.Empty(t, u.Likes)
	rows, err := f.store.Notifications.ByLike(ctx, like.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestThreadedCommentIntegrity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	commenter := f.user(t, "commenter")

	post := &models.Post{Title: "desk", AuthorID: author.ID}
	require.NoError(t, f.store.Posts.Create(ctx, post))

	res, err := f.resolver.CreateComment(input(commenter.ID, map[string]any{
		"text": "top", "post_id": post.ID.Hex(), "post_kind": "post",
	}))
	require.NoError(t, err)
	top := res.(*models.Comment)

	res, err = f.resolver.CreateComment(input(author.ID, map[string]any{
		"text": "reply", "post_id": post.ID.Hex(), "post_kind": "post", "parent_id": top.ID.Hex(),
	}))
	require.NoError(t, err)
	reply := res.(*models.Comment)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, top.ID, *reply.ParentID)

	// Parent links back to the reply; both are on the post.
	parent, err := f.store.Comments.ByID(ctx, top.ID)
	require.NoError(t, err)
	assert.Contains(t, parent.Children, reply.ID)
	p, err := f.store.Posts.ByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, p.Comments, 2)

	// Deleting the parent removes the reply and every reference.
	_, err = f.resolver.DeleteComment(params(commenter.ID, map[string]any{"id": top.ID.Hex()}))
	require.NoError(t, err)

	_, err = f.store.Comments.ByID(ctx, top.ID)
	assert.Equal(t, store.ErrNotFound, err)
	_, err = f.store.Comments.ByID(ctx, reply.ID)
	assert.Equal(t, store.ErrNotFound, err)
	p, err = f.store.Posts.ByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, p.Comments)
	cu, err := f.store.Users.ByID(ctx, commenter.ID)
	require.NoError(t, err)
	assert.Empty(t, cu.Comments)
	au, err := f.store.Users.ByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, au.Comments)
}

func TestDeletePostCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	other := f.user(t, "other")

	res, err := f.resolver.CreatePost(input(author.ID, map[string]any{
		"title": "lamp", "price": "5000", "content": "warm light",
		"images": []any{"aGVsbG8="},
	}))
	require.NoError(t, err)
	post := res.(*models.Post)

	// A like and a comment from another user, plus a like on the comment.
	_, err = f.resolver.CreateLike(input(other.ID, map[string]any{
		"target_id": post.ID.Hex(), "target_kind": "post",
	}))
	require.NoError(t, err)
	res, err = f.resolver.CreateComment(input(other.ID, map[string]any{
		"text": "nice", "post_id": post.ID.Hex(), "post_kind": "post",
	}))
	require.NoError(t, err)
	comment := res.(*models.Comment)
	_, err = f.resolver.CreateLike(input(author.ID, map[string]any{
		"target_id": comment.ID.Hex(), "target_kind": "comment",
	}))
	require.NoError(t, err)

	_, err = f.resolver.DeletePost(params(author.ID, map[string]any{"id": post.ID.Hex()}))
	require.NoError(t, err)

	// No dependent row survives and no user array references anything.
	_, err = f.store.Posts.ByID(ctx, post.ID)
	assert.Equal(t, store.ErrNotFound, err)
	comments, err := f.store.Comments.ByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	likes, err := f.store.Likes.ByTarget(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)
	notifs, err := f.store.Notifications.ByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, notifs)

	for _, id := range []primitive.ObjectID{author.ID, other.ID} {
		u, err := f.store.Users.ByID(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, u.Posts)
		assert.Empty(t, u.Likes)
		assert.Empty(t, u.Comments)
		assert.Empty(t, u.Notifications)
	}

	// The stored image is gone too.
	assert.Len(t, f.uploader.deleted, 1)
}

func TestDeletePostRequiresAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	stranger := f.user(t, "stranger")

	post := &models.Post{Title: "sofa", AuthorID: author.ID}
	require.NoError(t, f.store.Posts.Create(ctx, post))

	_, err := f.resolver.DeletePost(params(stranger.ID, map[string]any{"id": post.ID.Hex()}))
	assert.Error(t, err)
	_, err = f.store.Posts.ByID(ctx, post.ID)
	assert.NoError(t, err)
}

func TestCreateMessageReusesChannel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller")
	buyer := f.user(t, "buyer")

	post := &models.Post{Title: "chair", AuthorID: seller.ID, Price: "100"}
	require.NoError(t, f.store.Posts.Create(ctx, post))

	res, err := f.resolver.CreateMessage(input(buyer.ID, map[string]any{
		"body": "hi", "sender": buyer.ID.Hex(), "receiver": seller.ID.Hex(),
		"post_id": post.ID.Hex(), "is_author": false,
	}))
	require.NoError(t, err)
	first := res.(*models.Message)
	assert.True(t, first.IsFirst)
	assert.False(t, first.ChannelID.IsZero())

	// The reply from the author lands in the same channel.
	res, err = f.resolver.CreateMessage(input(seller.ID, map[string]any{
		"body": "hello", "sender": seller.ID.Hex(), "receiver": buyer.ID.Hex(),
		"post_id": post.ID.Hex(), "is_author": true,
	}))
	require.NoError(t, err)
	reply := res.(*models.Message)
	assert.False(t, reply.IsFirst)
	assert.Equal(t, first.ChannelID, reply.ChannelID)

	// Both users carry the channel exactly once.
	for _, id := range []primitive.ObjectID{seller.ID, buyer.ID} {
		u, err := f.store.Users.ByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{first.ChannelID}, u.Channels)
	}
}

func TestConversationFlow(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	buyer := f.user(t, "buyer")

	post := &models.Post{Title: "table", AuthorID: seller.ID}
	require.NoError(t, f.store.Posts.Create(context.Background(), post))

	_, err := f.resolver.CreateMessage(input(buyer.ID, map[string]any{
		"body": "still for sale?", "sender": buyer.ID.Hex(), "receiver": seller.ID.Hex(),
		"post_id": post.ID.Hex(),
	}))
	require.NoError(t, err)

	// The seller sees one conversation row naming the buyer.
	res, err := f.resolver.GetConversations(params(seller.ID, nil))
	require.NoError(t, err)
	rows := res.([]conversations.Row)
	require.Len(t, rows, 1)
	assert.Equal(t, buyer.ID, rows[0].UserID)
	assert.Equal(t, "still for sale?", rows[0].LastMessage)
	assert.False(t, rows[0].LastMessageSender)

	// The buyer sees the seller on the same channel.
	res, err = f.resolver.GetConversations(params(buyer.ID, nil))
	require.NoError(t, err)
	rows = res.([]conversations.Row)
	require.Len(t, rows, 1)
	assert.Equal(t, seller.ID, rows[0].UserID)
	assert.True(t, rows[0].LastMessageSender)

	// Marking seen clears the unseen summary.
	ok, err := f.resolver.UpdateMessageSeen(input(seller.ID, map[string]any{
		"sender": buyer.ID.Hex(), "receiver": seller.ID.Hex(), "post_id": post.ID.Hex(),
	}))
	require.NoError(t, err)
	assert.Equal(t, true, ok)

	res, err = f.resolver.GetAuthUser(params(seller.ID, nil))
	require.NoError(t, err)
	assert.Empty(t, res.(*AuthUser).NewConversations)
}

func TestDeleteChatConversationHidesForCallerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller")
	buyer := f.user(t, "buyer")

	post := &models.Post{Title: "rug", AuthorID: seller.ID}
	require.NoError(t, f.store.Posts.Create(ctx, post))

	res, err := f.resolver.CreateMessage(input(buyer.ID, map[string]any{
		"body": "hey", "sender": buyer.ID.Hex(), "receiver": seller.ID.Hex(),
		"post_id": post.ID.Hex(),
	}))
	require.NoError(t, err)
	channelID := res.(*models.Message).ChannelID

	ok, err := f.resolver.DeleteChatConversation(input(seller.ID, map[string]any{"id": channelID.Hex()}))
	require.NoError(t, err)
	assert.Equal(t, true, ok)

	s, err := f.store.Users.ByID(ctx, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, s.Channels)
	b, err := f.store.Users.ByID(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, b.Channels, 1)

	// The next message re-attaches the channel for the seller.
	_, err = f.resolver.CreateMessage(input(buyer.ID, map[string]any{
		"body": "ping", "sender": buyer.ID.Hex(), "receiver": seller.ID.Hex(),
		"post_id": post.ID.Hex(),
	}))
	require.NoError(t, err)
	s, err = f.store.Users.ByID(ctx, seller.ID)
	require.NoError(t, err)
	assert.Len(t, s.Channels, 1)
}

func TestGetFollowedPostsGeofence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	me := &models.User{Username: "me", Location: models.Location{Lat: 37.5, Long: 127.0}, Settings: models.DefaultSettings()}
	require.NoError(t, f.store.Users.Create(ctx, me))
	far := f.user(t, "far")
	near := f.user(t, "near")

	// ~1.1km north is inside the 2km radius; ~0.09 degrees (~10km) is not.
	inside := &models.Post{Title: "near", AuthorID: near.ID, Location: models.Location{Lat: 37.51, Long: 127.0}}
	outside := &models.Post{Title: "far", AuthorID: far.ID, Location: models.Location{Lat: 37.59, Long: 127.0}}
	mine := &models.Post{Title: "mine", AuthorID: me.ID, Location: models.Location{Lat: 0, Long: 0}}
	for _, p := range []*models.Post{inside, outside, mine} {
		require.NoError(t, f.store.Posts.Create(ctx, p))
	}

	res, err := f.resolver.GetFollowedPosts(params(me.ID, map[string]any{}))
	require.NoError(t, err)
	payload := res.(*PostsPayload)
	require.Equal(t, int64(2), payload.Count)

	titles := map[string]bool{}
	for _, p := range payload.Posts {
		titles[p.Title] = true
	}
	assert.True(t, titles["near"])
	assert.True(t, titles["mine"]) // own posts always included
	assert.False(t, titles["far"])
}

func TestFollowLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a")
	b := f.user(t, "b")

	res, err := f.resolver.CreateFollow(input(a.ID, map[string]any{"user_id": b.ID.Hex()}))
	require.NoError(t, err)
	follow := res.(*models.Follow)

	// Idempotent.
	res2, err := f.resolver.CreateFollow(input(a.ID, map[string]any{"user_id": b.ID.Hex()}))
	require.NoError(t, err)
	assert.Equal(t, follow.ID, res2.(*models.Follow).ID)

	bu, err := f.store.Users.ByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{follow.ID}, bu.Followers)

	_, err = f.resolver.DeleteFollow(input(a.ID, map[string]any{"user_id": b.ID.Hex()}))
	require.NoError(t, err)
	bu, err = f.store.Users.ByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, bu.Followers)
	au, err := f.store.Users.ByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, au.Following)
}

func TestFollowSelfRejected(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	_, err := f.resolver.CreateFollow(input(a.ID, map[string]any{"user_id": a.ID.Hex()}))
	assert.Error(t, err)
}

func TestGetAuthUserPublishesPresence(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")

	sub := f.bus.Subscribe(1, func(ev events.Event) bool { return ev.Name == events.UserOnline })
	defer sub.Close()

	res, err := f.resolver.GetAuthUser(params(a.ID, nil))
	require.NoError(t, err)
	assert.True(t, res.(*AuthUser).User.IsOnline)

	ev := <-sub.C
	presence := ev.Payload.(UserPresence)
	assert.Equal(t, a.ID, presence.UserID)
	assert.True(t, presence.IsOnline)
}

func TestAnonymousRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.resolver.GetAuthUser(params(primitive.NilObjectID, nil))
	assert.Error(t, err)
	_, err = f.resolver.CreatePost(input(primitive.NilObjectID, map[string]any{
		"title": "x", "price": "1", "content": "y",
	}))
	assert.Error(t, err)
}
