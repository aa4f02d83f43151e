package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/delibee-app/server/internal/geo"
	"github.com/delibee-app/server/internal/models"
)

// Users defines the interface for user data operations.
type Users interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	ByProvider(ctx context.Context, provider, providerID string) (*models.User, error)
	Search(ctx context.Context, query string, exclude primitive.ObjectID, limit int64) ([]models.User, error)
	ListExcluding(ctx context.Context, exclude []primitive.ObjectID, skip, limit int64) ([]models.User, int64, error)
	CountExcluding(ctx context.Context, exclude []primitive.ObjectID) (int64, error)
	WithinBox(ctx context.Context, box geo.Box) ([]models.User, error)
	UpdateAccount(ctx context.Context, id primitive.ObjectID, username, phone, email string) (*models.User, error)
	SetPhoto(ctx context.Context, id primitive.ObjectID, url, key string, cover bool) (*models.User, error)
	SetOnline(ctx context.Context, id primitive.ObjectID, online bool) (*models.User, error)
	UpdateSettings(ctx context.Context, id primitive.ObjectID, s models.Settings) error
	AddDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error
	RemoveDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error
	PushRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error
	PullRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error
	PullRefFromAll(ctx context.Context, field RefField, ref primitive.ObjectID) error
}

// MongoUsers implements Users against the users collection.
type MongoUsers struct {
	collection *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{collection: db.Collection("users")}
}

func (r *MongoUsers) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *MongoUsers) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUsers) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUsers) ByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	field, err := providerField(provider)
	if err != nil {
		return nil, err
	}
	var user models.User
	err = r.collection.FindOne(ctx, bson.M{field: providerID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func providerField(provider string) (string, error) {
	switch provider {
	case "naver":
		return "naver_id", nil
	case "kakao":
		return "kakao_id", nil
	case "google":
		return "google_id", nil
	}
	return "", fmt.Errorf("unknown identity provider %q", provider)
}

func (r *MongoUsers) Search(ctx context.Context, query string, exclude primitive.ObjectID, limit int64) ([]models.User, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"username": primitive.Regex{Pattern: query, Options: "i"}},
			bson.M{"full_name": primitive.Regex{Pattern: query, Options: "i"}},
		},
		"_id": bson.M{"$ne": exclude},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUsers) ListExcluding(ctx context.Context, exclude []primitive.ObjectID, skip, limit int64) ([]models.User, int64, error) {
	filter := bson.M{"_id": bson.M{"$nin": exclude}}
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

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *MongoUsers) CountExcluding(ctx context.Context, exclude []primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"_id": bson.M{"$nin": exclude}})
}

// WithinBox returns users whose stored location falls inside the bounding
// box. This is the cheap pre-filter; callers refine with geo.Distance.
func (r *MongoUsers) WithinBox(ctx context.Context, box geo.Box) ([]models.User, error) {
	filter := bson.M{
		"location.lat":  bson.M{"$gt": box.MinLat, "$lt": box.MaxLat},
		"location.long": bson.M{"$gt": box.MinLon, "$lt": box.MaxLon},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUsers) UpdateAccount(ctx context.Context, id primitive.ObjectID, username, phone, email string) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		"username":     username,
		"phone_number": phone,
		"email":        email,
		"updated_at":   time.Now(),
	}}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *MongoUsers) SetPhoto(ctx context.Context, id primitive.ObjectID, url, key string, cover bool) (*models.User, error) {
	fields := bson.M{"image": url, "image_key": key, "updated_at": time.Now()}
	if cover {
		fields = bson.M{"cover_image": url, "cover_key": key, "updated_at": time.Now()}
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": fields})
}

func (r *MongoUsers) SetOnline(ctx context.Context, id primitive.ObjectID, online bool) (*models.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"is_online": online}})
}

func (r *MongoUsers) UpdateSettings(ctx context.Context, id primitive.ObjectID, s models.Settings) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"settings": s}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddDeviceToken registers a push token idempotently.
func (r *MongoUsers) AddDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"device_tokens": token}})
	return err
}

func (r *MongoUsers) RemoveDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"device_tokens": token}})
	return err
}

func (r *MongoUsers) PushRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{string(field): ref}})
	return err
}

func (r *MongoUsers) PullRef(ctx context.Context, id primitive.ObjectID, field RefField, ref primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{string(field): ref}})
	return err
}

// PullRefFromAll detaches the reference from every user document whose
// array contains it. Used by the cascade-delete paths.
func (r *MongoUsers) PullRefFromAll(ctx context.Context, field RefField, ref primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{string(field): ref},
		bson.M{"$pull": bson.M{string(field): ref}})
	return err
}

func (r *MongoUsers) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
