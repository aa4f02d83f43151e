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

// SocialPosts defines the interface for community post data operations.
type SocialPosts interface {
	Create(ctx context.Context, post *models.SocialPost) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.SocialPost, error)
	ByAuthor(ctx context.Context, author primitive.ObjectID, skip, limit int64) ([]models.SocialPost, int64, error)
	ByAuthors(ctx context.Context, authors []primitive.ObjectID, topic string, skip, limit int64) ([]models.SocialPost, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.SocialPost, error)
	PushRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error
	PullRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error
}

// MongoSocialPosts implements SocialPosts against the social_posts collection.
type MongoSocialPosts struct {
	collection *mongo.Collection
}

func NewMongoSocialPosts(db *mongo.Database) *MongoSocialPosts {
	return &MongoSocialPosts{collection: db.Collection("social_posts")}
}

func (r *MongoSocialPosts) Create(ctx context.Context, post *models.SocialPost) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *MongoSocialPosts) ByID(ctx context.Context, id primitive.ObjectID) (*models.SocialPost, error) {
	var post models.SocialPost
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoSocialPosts) ByAuthor(ctx context.Context, author primitive.ObjectID, skip, limit int64) ([]models.SocialPost, int64, error) {
	return r.page(ctx, bson.M{"author": author}, skip, limit)
}

// ByAuthors returns the posts of the distance-refined author set, optionally
// narrowed to a topic.
func (r *MongoSocialPosts) ByAuthors(ctx context.Context, authors []primitive.ObjectID, topic string, skip, limit int64) ([]models.SocialPost, int64, error) {
	if len(authors) == 0 {
		return nil, 0, nil
	}
	filter := bson.M{"author": bson.M{"$in": authors}}
	if topic != "" {
		filter["topic"] = topic
	}
	return r.page(ctx, filter, skip, limit)
}

func (r *MongoSocialPosts) Delete(ctx context.Context, id primitive.ObjectID) (*models.SocialPost, error) {
	var post models.SocialPost
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoSocialPosts) PushRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{string(field): ref}})
	return err
}

func (r *MongoSocialPosts) PullRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{string(field): ref}})
	return err
}

func (r *MongoSocialPosts) page(ctx context.Context, filter bson.M, skip, limit int64) ([]models.SocialPost, int64, error) {
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

	var posts []models.SocialPost
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
