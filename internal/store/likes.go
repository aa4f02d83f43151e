package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/delibee-app/server/internal/models"
)

// Likes defines the interface for like data operations.
type Likes interface {
	Create(ctx context.Context, like *models.Like) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Like, error)
	ByUserAndTarget(ctx context.Context, userID, targetID primitive.ObjectID) (*models.Like, error)
	ByTarget(ctx context.Context, targetID primitive.ObjectID) ([]models.Like, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Like, error)
	DeleteByTarget(ctx context.Context, targetID primitive.ObjectID) error
}

// MongoLikes implements Likes against the likes collection.
type MongoLikes struct {
	collection *mongo.Collection
}

func NewMongoLikes(db *mongo.Database) *MongoLikes {
	return &MongoLikes{collection: db.Collection("likes")}
}

func (r *MongoLikes) Create(ctx context.Context, like *models.Like) error {
	like.ID = primitive.NewObjectID()
	like.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, like)
	return err
}

func (r *MongoLikes) ByID(ctx context.Context, id primitive.ObjectID) (*models.Like, error) {
	var like models.Like
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&like)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &like, nil
}

// ByUserAndTarget finds an existing like so createLike stays idempotent.
func (r *MongoLikes) ByUserAndTarget(ctx context.Context, userID, targetID primitive.ObjectID) (*models.Like, error) {
	var like models.Like
	err := r.collection.FindOne(ctx, bson.M{"user": userID, "target": targetID}).Decode(&like)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &like, nil
}

// ByTarget lists all likes on a target so cascade deletes can detach each
// like from its user before removing the rows.
func (r *MongoLikes) ByTarget(ctx context.Context, targetID primitive.ObjectID) ([]models.Like, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"target": targetID})
	if err != nil {
		return nil, err
	}
	var likes []models.Like
	if err := cursor.All(ctx, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *MongoLikes) Delete(ctx context.Context, id primitive.ObjectID) (*models.Like, error) {
	var like models.Like
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&like)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &like, nil
}

func (r *MongoLikes) DeleteByTarget(ctx context.Context, targetID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"target": targetID})
	return err
}
