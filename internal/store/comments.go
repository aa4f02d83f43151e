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

// Comments defines the interface for comment data operations.
type Comments interface {
	Create(ctx context.Context, comment *models.Comment) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error)
	ByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
	PushChild(ctx context.Context, parentID, childID primitive.ObjectID) error
	PullChild(ctx context.Context, parentID, childID primitive.ObjectID) error
	PushLike(ctx context.Context, id, likeID primitive.ObjectID) error
	PullLike(ctx context.Context, id, likeID primitive.ObjectID) error
}

// MongoComments implements Comments against the comments collection.
type MongoComments struct {
	collection *mongo.Collection
}

func NewMongoComments(db *mongo.Database) *MongoComments {
	return &MongoComments{collection: db.Collection("comments")}
}

func (r *MongoComments) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

func (r *MongoComments) ByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *MongoComments) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoComments) ByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	return r.find(ctx, bson.M{"post": postID})
}

func (r *MongoComments) Delete(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *MongoComments) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"post": postID})
	return err
}

// PushChild appends a reply to its parent's children array; insertion order
// is reply order.
func (r *MongoComments) PushChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": parentID}, bson.M{"$push": bson.M{"children": childID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoComments) PullChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": parentID}, bson.M{"$pull": bson.M{"children": childID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoComments) PushLike(ctx context.Context, id, likeID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"likes": likeID}})
	return err
}

func (r *MongoComments) PullLike(ctx context.Context, id, likeID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"likes": likeID}})
	return err
}

func (r *MongoComments) find(ctx context.Context, filter bson.M) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
