package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/delibee-app/server/internal/models"
)

// Follows defines the interface for follow-relationship data operations.
type Follows interface {
	Create(ctx context.Context, follow *models.Follow) error
	ByFollowerAndUser(ctx context.Context, followerID, userID primitive.ObjectID) (*models.Follow, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Follow, error)
	FollowedBy(ctx context.Context, followerID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// MongoFollows implements Follows against the follows collection.
type MongoFollows struct {
	collection *mongo.Collection
}

func NewMongoFollows(db *mongo.Database) *MongoFollows {
	return &MongoFollows{collection: db.Collection("follows")}
}

func (r *MongoFollows) Create(ctx context.Context, follow *models.Follow) error {
	follow.ID = primitive.NewObjectID()
	follow.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, follow)
	return err
}

func (r *MongoFollows) ByFollowerAndUser(ctx context.Context, followerID, userID primitive.ObjectID) (*models.Follow, error) {
	var follow models.Follow
	err := r.collection.FindOne(ctx, bson.M{"follower": followerID, "user": userID}).Decode(&follow)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &follow, nil
}

func (r *MongoFollows) Delete(ctx context.Context, id primitive.ObjectID) (*models.Follow, error) {
	var follow models.Follow
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&follow)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &follow, nil
}

// FollowedBy returns the IDs of everyone the follower follows.
func (r *MongoFollows) FollowedBy(ctx context.Context, followerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"follower": followerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var follows []models.Follow
	if err = cursor.All(ctx, &follows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.UserID)
	}
	return ids, nil
}
