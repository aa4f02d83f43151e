package conversations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/models"
)

func id() primitive.ObjectID { return primitive.NewObjectID() }

func TestBuildMergesAndSorts(t *testing.T) {
	auth := id()
	buyer := id()
	other := id()

	// Two listings owned by auth; buyers opened channels on them.
	postA := models.Post{ID: id(), AuthorID: auth, Title: "bike"}
	postB := models.Post{ID: id(), AuthorID: auth, Title: "desk"}
	chanA := models.Channel{ID: id(), UserID: buyer, PostID: postA.ID}
	chanB := models.Channel{ID: id(), UserID: other, PostID: postB.ID}

	t3 := time.Date(2026, 3, 1, 12, 0, 3, 0, time.UTC)
	last := []models.Message{
		{ID: id(), SenderID: buyer, ReceiverID: auth, PostID: postA.ID, Body: "still available?", CreatedAt: t3},
	}

	rows := Build(auth,
		[]models.Channel{chanB, chanA},
		map[primitive.ObjectID]models.Post{postA.ID: postA, postB.ID: postB},
		map[primitive.ObjectID]models.User{
			buyer: {ID: buyer, Username: "buyer"},
			other: {ID: other, Username: "other"},
		},
		last,
	)

	require.Len(t, rows, 2)

	// Channel with the newest message comes first.
	assert.Equal(t, chanA.ID, rows[0].ChannelID)
	assert.Equal(t, "still available?", rows[0].LastMessage)
	assert.Equal(t, t3, rows[0].LastMessageAt)
	assert.False(t, rows[0].LastMessageSender)
	assert.Equal(t, buyer, rows[0].UserID)

	// Channel with no messages sorts last, with the placeholder row.
	assert.Equal(t, chanB.ID, rows[1].ChannelID)
	assert.Empty(t, rows[1].LastMessage)
	assert.True(t, rows[1].LastMessageAt.IsZero())
	assert.True(t, rows[1].LastMessageSender)
	assert.False(t, rows[1].Seen)
}

func TestBuildCounterpartIndirection(t *testing.T) {
	auth := id()
	author := id()

	// auth is the buyer here: the channel names auth as the non-author
	// participant, so the counterpart must be derived from the post author.
	post := models.Post{ID: id(), AuthorID: author}
	ch := models.Channel{ID: id(), UserID: auth, PostID: post.ID}

	rows := Build(auth,
		[]models.Channel{ch},
		map[primitive.ObjectID]models.Post{post.ID: post},
		map[primitive.ObjectID]models.User{
			auth:   {ID: auth, Username: "me"},
			author: {ID: author, Username: "seller"},
		},
		nil,
	)

	require.Len(t, rows, 1)
	assert.Equal(t, author, rows[0].UserID)
	assert.Equal(t, "seller", rows[0].Username)
}

func TestBuildMatchesReceiverSide(t *testing.T) {
	auth := id()
	buyer := id()
	post := models.Post{ID: id(), AuthorID: auth}
	ch := models.Channel{ID: id(), UserID: buyer, PostID: post.ID}

	// Last message was sent by auth to the counterpart: matched on the
	// receiver side, so the sender flag reports auth as sender.
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	last := []models.Message{
		{ID: id(), SenderID: auth, ReceiverID: buyer, PostID: post.ID, Body: "sold!", Seen: true, CreatedAt: at},
	}

	rows := Build(auth,
		[]models.Channel{ch},
		map[primitive.ObjectID]models.Post{post.ID: post},
		map[primitive.ObjectID]models.User{buyer: {ID: buyer}},
		last,
	)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].LastMessageSender)
	assert.True(t, rows[0].Seen)
	assert.Equal(t, "sold!", rows[0].LastMessage)
}

func TestBuildSkipsDanglingPost(t *testing.T) {
	auth := id()
	buyer := id()
	ch := models.Channel{ID: id(), UserID: buyer, PostID: id()}

	rows := Build(auth, []models.Channel{ch}, nil, nil, nil)
	assert.Empty(t, rows)
}
