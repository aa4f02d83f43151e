package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/delibee-app/server/internal/models"
)

// Channels defines the interface for conversation-thread data operations.
type Channels interface {
	Create(ctx context.Context, channel *models.Channel) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Channel, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Channel, error)
	ByUserAndPost(ctx context.Context, userID, postID primitive.ObjectID) (*models.Channel, error)
}

// MongoChannels implements Channels against the channels collection.
type MongoChannels struct {
	collection *mongo.Collection
}

func NewMongoChannels(db *mongo.Database) *MongoChannels {
	return &MongoChannels{collection: db.Collection("channels")}
}

func (r *MongoChannels) Create(ctx context.Context, channel *models.Channel) error {
	channel.ID = primitive.NewObjectID()
	channel.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, channel)
	return err
}

func (r *MongoChannels) ByID(ctx context.Context, id primitive.ObjectID) (*models.Channel, error) {
	var channel models.Channel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&channel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &channel, nil
}

func (r *MongoChannels) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Channel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var channels []models.Channel
	if err = cursor.All(ctx, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// ByUserAndPost looks up the thread pairing the non-author participant with
// the listing; ErrNotFound means the first message has to create it.
func (r *MongoChannels) ByUserAndPost(ctx context.Context, userID, postID primitive.ObjectID) (*models.Channel, error) {
	var channel models.Channel
	err := r.collection.FindOne(ctx, bson.M{"user": userID, "post": postID}).Decode(&channel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &channel, nil
}
