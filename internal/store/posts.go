package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/delibee-app/server/internal/geo"
	"github.com/delibee-app/server/internal/models"
)

// DiscoverQuery selects listings inside a bounding box, always including
// the requesting author's own posts regardless of distance.
type DiscoverQuery struct {
	Box        geo.Box
	Author     primitive.ObjectID
	Type       string
	Categories []string
	Skip       int64
	Limit      int64
}

// Posts defines the interface for listing data operations.
type Posts interface {
	Create(ctx context.Context, post *models.Post) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	ByAuthor(ctx context.Context, author primitive.ObjectID, skip, limit int64) ([]models.Post, int64, error)
	ListOthers(ctx context.Context, exclude primitive.ObjectID, skip, limit int64) ([]models.Post, int64, error)
	Discover(ctx context.Context, q DiscoverQuery) ([]models.Post, int64, error)
	Related(ctx context.Context, box geo.Box, category string, exclude primitive.ObjectID) ([]models.Post, error)
	Search(ctx context.Context, title, category string) ([]models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	IncView(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	IncContact(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	PushRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error
	PullRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error
}

// MongoPosts implements Posts against the posts collection.
type MongoPosts struct {
	collection *mongo.Collection
}

func NewMongoPosts(db *mongo.Database) *MongoPosts {
	return &MongoPosts{collection: db.Collection("posts")}
}

func (r *MongoPosts) Create(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *MongoPosts) ByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPosts) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPosts) ByAuthor(ctx context.Context, author primitive.ObjectID, skip, limit int64) ([]models.Post, int64, error) {
	return r.page(ctx, bson.M{"author": author}, skip, limit)
}

func (r *MongoPosts) ListOthers(ctx context.Context, exclude primitive.ObjectID, skip, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{
		"images": bson.M{"$ne": nil},
		"author": bson.M{"$ne": exclude},
	}
	return r.page(ctx, filter, skip, limit)
}

// Discover runs the bounding-box pre-filter: posts inside the box, or
// authored by the requester, narrowed by listing type and categories.
func (r *MongoPosts) Discover(ctx context.Context, q DiscoverQuery) ([]models.Post, int64, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{
				"location.lat":  bson.M{"$gt": q.Box.MinLat, "$lt": q.Box.MaxLat},
				"location.long": bson.M{"$gt": q.Box.MinLon, "$lt": q.Box.MaxLon},
			},
			bson.M{"author": q.Author},
		},
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if len(q.Categories) > 0 {
		filter["category"] = bson.M{"$in": q.Categories}
	}
	return r.page(ctx, filter, q.Skip, q.Limit)
}

// Related returns boxed posts of the same category, excluding the post the
// box was computed around. Box-only, no exact refinement.
func (r *MongoPosts) Related(ctx context.Context, box geo.Box, category string, exclude primitive.ObjectID) ([]models.Post, error) {
	filter := bson.M{
		"location.lat":  bson.M{"$gt": box.MinLat, "$lt": box.MaxLat},
		"location.long": bson.M{"$gt": box.MinLon, "$lt": box.MaxLon},
		"category":      category,
		"_id":           bson.M{"$ne": exclude},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPosts) Search(ctx context.Context, title, category string) ([]models.Post, error) {
	filter := bson.M{"title": primitive.Regex{Pattern: title, Options: "i"}}
	if category != "" {
		filter["category"] = category
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes the listing and returns the removed document so callers
// can detach its references.
func (r *MongoPosts) Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPosts) IncView(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return r.inc(ctx, id, "view")
}

func (r *MongoPosts) IncContact(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return r.inc(ctx, id, "contact")
}

func (r *MongoPosts) PushRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{string(field): ref}})
	return err
}

func (r *MongoPosts) PullRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{string(field): ref}})
	return err
}

func (r *MongoPosts) inc(ctx context.Context, id primitive.ObjectID, field string) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{field: 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPosts) page(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, int64, error) {
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

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
