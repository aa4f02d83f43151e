package main

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/delibee-app/server/internal/events"
	"github.com/delibee-app/server/internal/graph"
	"github.com/delibee-app/server/internal/identity"
	"github.com/delibee-app/server/internal/middleware"
	"github.com/delibee-app/server/internal/notify"
	"github.com/delibee-app/server/internal/store"
	"github.com/delibee-app/server/pkg/config"
	"github.com/delibee-app/server/pkg/firebase"
	"github.com/delibee-app/server/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Initialize object storage
	uploader, err := storage.NewClient(storage.Config{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.AWSEndpoint,
		Bucket:          cfg.S3BucketName,
	})
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	radius, err := strconv.ParseFloat(cfg.GeoRadiusMeters, 64)
	if err != nil || radius <= 0 {
		radius = graph.DefaultRadiusMeters
	}

	// Wire the domain
	s := store.NewMongo(db.Mongo.Database(cfg.MongoDatabase))
	bus := events.NewBus()
	pusher := notify.NewFCMPusher(firebaseApp.MessagingClient)
	fanout := notify.NewFanout(s.Users, s.Notifications, bus, pusher)
	resolver := graph.NewResolver(s, fanout, bus, uploader, identity.NewHTTPVerifier(), radius, cfg.JWTSecret)

	schema, err := graph.NewSchema(resolver)
	if err != nil {
		log.Fatalf("Failed to build schema: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/graphql", graph.Handler(schema), middleware.JWTAuth(cfg.JWTSecret))
	e.GET("/ws", graph.Subscriptions(bus, cfg.JWTSecret))

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
