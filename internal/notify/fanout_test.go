package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/events"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/store"
	"github.com/delibee-app/server/internal/storetest"
)

type recordingPusher struct {
	mu    sync.Mutex
	sends []Note
}

func (p *recordingPusher) Send(_ context.Context, _ []string, note Note) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sends = append(p.sends, note)
	return nil
}

func (p *recordingPusher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sends)
}

func newUser(t *testing.T, s *store.Store, settings models.Settings) *models.User {
	t.Helper()
	u := &models.User{Username: "u", Settings: settings, DeviceTokens: []string{"tok"}}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func TestCreatedWritesTwoRows(t *testing.T) {
	ctx := context.Background()
	s := storetest.New()
	pusher := &recordingPusher{}
	f := NewFanout(s.Users, s.Notifications, events.NewBus(), pusher)

	actor := newUser(t, s, models.DefaultSettings())
	target := newUser(t, s, models.DefaultSettings())
	likeID := primitive.NewObjectID()

	row, err := f.Created(ctx, Event{
		Kind:     models.NotificationLike,
		ActorID:  actor.ID,
		TargetID: target.ID,
		RefID:    &likeID,
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, target.ID, row.Key)

	// One row keyed to each participant, both referencing the like.
	rows, err := s.Notifications.ByLike(ctx, likeID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	keys := map[primitive.ObjectID]bool{rows[0].Key: true, rows[1].Key: true}
	assert.True(t, keys[actor.ID])
	assert.True(t, keys[target.ID])
	for _, r := range rows {
		assert.Equal(t, actor.ID, r.AuthorID)
		assert.Equal(t, target.ID, r.UserID)
	}

	// Each row lands on its keyed user's feed array.
	actorDoc, err := s.Users.ByID(ctx, actor.ID)
	require.NoError(t, err)
	targetDoc, err := s.Users.ByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Len(t, actorDoc.Notifications, 1)
	assert.Len(t, targetDoc.Notifications, 1)
	assert.NotEqual(t, actorDoc.Notifications[0], targetDoc.Notifications[0])

	assert.Equal(t, 1, pusher.count())
}

func TestCreatedSelfActionSkipsPush(t *testing.T) {
	ctx := context.Background()
	s := storetest.New()
	pusher := &recordingPusher{}
	f := NewFanout(s.Users, s.Notifications, events.NewBus(), pusher)

	actor := newUser(t, s, models.DefaultSettings())

	// Liking your own post still writes rows but never pushes.
	_, err := f.Created(ctx, Event{
		Kind:     models.NotificationLike,
		ActorID:  actor.ID,
		TargetID: actor.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, pusher.count())

	doc, err := s.Users.ByID(ctx, actor.ID)
	require.NoError(t, err)
	assert.Len(t, doc.Notifications, 2)
}

func TestPushSuppression(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		kind     models.NotificationKind
		settings models.Settings
		want     int
	}{
		{"notifications off", models.NotificationLike, models.Settings{Notification: false, Message: true}, 0},
		{"messages off gates message kind", models.NotificationMessage, models.Settings{Notification: true, Message: false}, 0},
		{"messages off leaves likes alone", models.NotificationLike, models.Settings{Notification: true, Message: false}, 1},
		{"all on", models.NotificationMessage, models.Settings{Notification: true, Message: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storetest.New()
			pusher := &recordingPusher{}
			f := NewFanout(s.Users, s.Notifications, events.NewBus(), pusher)

			actor := newUser(t, s, models.DefaultSettings())
			target := newUser(t, s, tt.settings)

			_, err := f.Created(ctx, Event{Kind: tt.kind, ActorID: actor.ID, TargetID: target.ID})
			require.NoError(t, err)
			assert.Equal(t, tt.want, pusher.count())
		})
	}
}

func TestPushSoundFollowsRecipientSetting(t *testing.T) {
	ctx := context.Background()
	s := storetest.New()
	pusher := &recordingPusher{}
	f := NewFanout(s.Users, s.Notifications, events.NewBus(), pusher)

	actor := newUser(t, s, models.DefaultSettings())
	muted := models.DefaultSettings()
	muted.Sound = false
	target := newUser(t, s, muted)

	_, err := f.Created(ctx, Event{Kind: models.NotificationFollow, ActorID: actor.ID, TargetID: target.ID})
	require.NoError(t, err)
	require.Equal(t, 1, pusher.count())
	assert.False(t, pusher.sends[0].Sound)
	assert.Equal(t, pushBodies[models.NotificationFollow], pusher.sends[0].Body)
}

func TestLikeDeletedDetachesBothRows(t *testing.T) {
	ctx := context.Background()
	s := storetest.New()
	f := NewFanout(s.Users, s.Notifications, events.NewBus(), &recordingPusher{})

	actor := newUser(t, s, models.DefaultSettings())
	target := newUser(t, s, models.DefaultSettings())
	likeID := primitive.NewObjectID()

	_, err := f.Created(ctx, Event{
		Kind:     models.NotificationLike,
		ActorID:  actor.ID,
		TargetID: target.ID,
		RefID:    &likeID,
	})
	require.NoError(t, err)

	require.NoError(t, f.LikeDeleted(ctx, likeID))

	rows, err := s.Notifications.ByLike(ctx, likeID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	actorDoc, err := s.Users.ByID(ctx, actor.ID)
	require.NoError(t, err)
	targetDoc, err := s.Users.ByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Empty(t, actorDoc.Notifications)
	assert.Empty(t, targetDoc.Notifications)
}

func TestCreatedPublishesChange(t *testing.T) {
	ctx := context.Background()
	s := storetest.New()
	bus := events.NewBus()
	f := NewFanout(s.Users, s.Notifications, bus, &recordingPusher{})

	actor := newUser(t, s, models.DefaultSettings())
	target := newUser(t, s, models.DefaultSettings())

	sub := bus.Subscribe(4, func(ev events.Event) bool { return ev.Name == events.NotificationChanged })
	defer sub.Close()

	_, err := f.Created(ctx, Event{Kind: models.NotificationFollow, ActorID: actor.ID, TargetID: target.ID})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		ev := <-sub.C
		change, ok := ev.Payload.(NotificationChange)
		require.True(t, ok)
		assert.Equal(t, "CREATE", change.Operation)
	}
}
