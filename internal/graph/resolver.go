// Package graph exposes the GraphQL surface: queries, mutations and the
// websocket subscription transport. Resolvers orchestrate the stores, the
// notification fanout and the events bus; they hold no state of their own.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/events"
	"github.com/delibee-app/server/internal/identity"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/notify"
	"github.com/delibee-app/server/internal/store"
	"github.com/delibee-app/server/pkg/storage"
)

// DefaultRadiusMeters bounds geofenced discovery when no radius is configured.
const DefaultRadiusMeters = 2000

type authKey struct{}

// WithAuthUser stores the authenticated user's ID in the request context for
// resolvers to pick up.
func WithAuthUser(ctx context.Context, id primitive.ObjectID) context.Context {
	return context.WithValue(ctx, authKey{}, id)
}

// Resolver implements every query and mutation.
type Resolver struct {
	Store     *store.Store
	Fanout    *notify.Fanout
	Bus       *events.Bus
	Uploader  storage.Uploader
	Identity  identity.Verifier
	Validate  *validator.Validate
	Radius    float64
	JWTSecret string
	TokenTTL  time.Duration
}

func NewResolver(s *store.Store, fanout *notify.Fanout, bus *events.Bus, uploader storage.Uploader, verifier identity.Verifier, radius float64, jwtSecret string) *Resolver {
	if radius <= 0 {
		radius = DefaultRadiusMeters
	}
	return &Resolver{
		Store:     s,
		Fanout:    fanout,
		Bus:       bus,
		Uploader:  uploader,
		Identity:  verifier,
		Validate:  validator.New(),
		Radius:    radius,
		JWTSecret: jwtSecret,
		TokenTTL:  30 * 24 * time.Hour,
	}
}

// authUser returns the authenticated user's ID or an error for anonymous
// requests.
func (r *Resolver) authUser(p graphql.ResolveParams) (primitive.ObjectID, error) {
	id, ok := p.Context.Value(authKey{}).(primitive.ObjectID)
	if !ok || id.IsZero() {
		return primitive.NilObjectID, fmt.Errorf("not authenticated")
	}
	return id, nil
}

// decodeInput maps the GraphQL "input" argument onto a typed struct and runs
// its validation tags before any write happens.
func (r *Resolver) decodeInput(p graphql.ResolveParams, out any) error {
	raw, ok := p.Args["input"]
	if !ok {
		return fmt.Errorf("missing input")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode input: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	if err := r.Validate.Struct(out); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

// issueToken signs the HMAC JWT handed to clients after sign-in.
func (r *Resolver) issueToken(userID primitive.ObjectID) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(r.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(r.JWTSecret))
}

func idArg(p graphql.ResolveParams, name string) (primitive.ObjectID, error) {
	raw, _ := p.Args[name].(string)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func pageArgs(p graphql.ResolveParams) (skip, limit int64) {
	if v, ok := p.Args["skip"].(int); ok {
		skip = int64(v)
	}
	if v, ok := p.Args["limit"].(int); ok {
		limit = int64(v)
	}
	return skip, limit
}

// notFound rewrites store.ErrNotFound into an entity-specific message while
// passing other failures through wrapped.
func notFound(entity string, err error) error {
	if err == store.ErrNotFound {
		return fmt.Errorf("%s not found", entity)
	}
	return fmt.Errorf("get %s: %w", entity, err)
}
