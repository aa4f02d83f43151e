package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/delibee-app/server/internal/models"
)

// Notifications defines the interface for notification feed operations.
type Notifications interface {
	Create(ctx context.Context, notification *models.Notification) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	ByKey(ctx context.Context, key primitive.ObjectID, skip, limit int64) ([]models.Notification, int64, error)
	ByLike(ctx context.Context, likeID primitive.ObjectID) ([]models.Notification, error)
	ByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Notification, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
	MarkSeen(ctx context.Context, userID primitive.ObjectID) error
	SetClick(ctx context.Context, id primitive.ObjectID) error
}

// MongoNotifications implements Notifications against the notifications
// collection.
type MongoNotifications struct {
	collection *mongo.Collection
}

func NewMongoNotifications(db *mongo.Database) *MongoNotifications {
	return &MongoNotifications{collection: db.Collection("notifications")}
}

func (r *MongoNotifications) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

func (r *MongoNotifications) ByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// ByKey returns the personalized feed: both parties of an event query the
// same collection with their own ID as key.
func (r *MongoNotifications) ByKey(ctx context.Context, key primitive.ObjectID, skip, limit int64) ([]models.Notification, int64, error) {
	filter := bson.M{"key": key}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *MongoNotifications) ByLike(ctx context.Context, likeID primitive.ObjectID) ([]models.Notification, error) {
	return r.find(ctx, bson.M{"like": likeID})
}

func (r *MongoNotifications) ByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Notification, error) {
	return r.find(ctx, bson.M{"post": postID})
}

func (r *MongoNotifications) Delete(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *MongoNotifications) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"post": postID})
	return err
}

// MarkSeen flips every unseen notification addressed to the user.
// Best-effort: callers convert the error into a boolean result.
func (r *MongoNotifications) MarkSeen(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user": userID, "seen": false},
		bson.M{"$set": bson.M{"seen": true}})
	return err
}

func (r *MongoNotifications) SetClick(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"click": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoNotifications) find(ctx context.Context, filter bson.M) ([]models.Notification, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
