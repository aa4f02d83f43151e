package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/delibee-app/server/internal/models"
)

// Reports defines the interface for post-report data operations.
type Reports interface {
	Create(ctx context.Context, report *models.ReportPost) error
}

// MongoReports implements Reports against the report_posts collection.
type MongoReports struct {
	collection *mongo.Collection
}

func NewMongoReports(db *mongo.Database) *MongoReports {
	return &MongoReports{collection: db.Collection("report_posts")}
}

func (r *MongoReports) Create(ctx context.Context, report *models.ReportPost) error {
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, report)
	return err
}
