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

// Messages defines the interface for chat message data operations.
type Messages interface {
	Create(ctx context.Context, message *models.Message) error
	Conversation(ctx context.Context, authID, otherID, postID primitive.ObjectID) ([]models.Message, error)
	LastPerChannel(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error)
	LastUnseenPerSender(ctx context.Context, receiverID primitive.ObjectID) ([]models.Message, error)
	AttachChannel(ctx context.Context, id, channelID primitive.ObjectID, first bool) error
	MarkSeen(ctx context.Context, senderID, receiverID, postID primitive.ObjectID) error
}

// MongoMessages implements Messages against the messages collection.
type MongoMessages struct {
	collection *mongo.Collection
}

func NewMongoMessages(db *mongo.Database) *MongoMessages {
	return &MongoMessages{collection: db.Collection("messages")}
}

func (r *MongoMessages) Create(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	if message.Kind == "" {
		message.Kind = models.MessageText
	}
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// Conversation returns the full message history between the two users in
// the context of one listing, newest first.
func (r *MongoMessages) Conversation(ctx context.Context, authID, otherID, postID primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{
		"$and": bson.A{
			bson.M{"$or": bson.A{bson.M{"sender": authID}, bson.M{"receiver": authID}}},
			bson.M{"$or": bson.A{bson.M{"sender": otherID}, bson.M{"receiver": otherID}}},
			bson.M{"post": postID},
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// LastPerChannel groups the user's messages by channel and keeps the most
// recent one of each. Ties on created_at resolve to whichever document the
// grouping stage sees first, which is implementation-defined.
func (r *MongoMessages) LastPerChannel(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"$or": bson.A{bson.M{"sender": userID}, bson.M{"receiver": userID}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$channel",
			"doc": bson.M{"$first": "$$ROOT"},
		}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$doc"}}},
	}
	return r.aggregate(ctx, pipeline)
}

// LastUnseenPerSender returns the newest unseen message from each distinct
// sender, for the "new conversations" summary on sign-in.
func (r *MongoMessages) LastUnseenPerSender(ctx context.Context, receiverID primitive.ObjectID) ([]models.Message, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"receiver": receiverID, "seen": false}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$sender",
			"doc": bson.M{"$first": "$$ROOT"},
		}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$doc"}}},
	}
	return r.aggregate(ctx, pipeline)
}

// AttachChannel records which conversation thread the message belongs to.
func (r *MongoMessages) AttachChannel(ctx context.Context, id, channelID primitive.ObjectID, first bool) error {
	update := bson.M{"$set": bson.M{"channel": channelID, "is_first": first}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSeen flips every unseen message of the conversation. Best-effort:
// callers convert the error into a boolean result.
func (r *MongoMessages) MarkSeen(ctx context.Context, senderID, receiverID, postID primitive.ObjectID) error {
	filter := bson.M{"sender": senderID, "receiver": receiverID, "post": postID, "seen": false}
	_, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"seen": true}})
	return err
}

func (r *MongoMessages) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.Message, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
