package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a geocoded place attached to users and posts.
// Coordinates are decimal degrees.
type Location struct {
	Lat  float64 `json:"lat" bson:"lat"`
	Long float64 `json:"long" bson:"long"`
	Name string  `json:"name" bson:"name"`
}

// Settings holds per-user push delivery preferences.
type Settings struct {
	Sound        bool `json:"sound" bson:"sound"`
	Notification bool `json:"notification" bson:"notification"`
	Message      bool `json:"message" bson:"message"`
	Channel      bool `json:"channel" bson:"channel"`
}

// DefaultSettings returns the preferences a fresh account starts with.
func DefaultSettings() Settings {
	return Settings{Sound: true, Notification: true, Message: true, Channel: true}
}

// User represents an account stored in MongoDB. The ID arrays are
// denormalized references maintained manually by every mutation that
// creates or deletes the referenced entity.
type User struct {
	ID            primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	FullName      string               `json:"full_name" bson:"full_name"`
	Username      string               `json:"username" bson:"username"`
	Email         string               `json:"email,omitempty" bson:"email,omitempty"`
	PhoneNumber   string               `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	NaverID       string               `json:"-" bson:"naver_id,omitempty"`
	KakaoID       string               `json:"-" bson:"kakao_id,omitempty"`
	GoogleID      string               `json:"-" bson:"google_id,omitempty"`
	Image         string               `json:"image" bson:"image"`
	ImageKey      string               `json:"-" bson:"image_key,omitempty"`
	CoverImage    string               `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	CoverKey      string               `json:"-" bson:"cover_key,omitempty"`
	IsOnline      bool                 `json:"is_online" bson:"is_online"`
	Location      Location             `json:"location" bson:"location"`
	Settings      Settings             `json:"settings" bson:"settings"`
	DeviceTokens  []string             `json:"-" bson:"device_tokens,omitempty"`
	Posts         []primitive.ObjectID `json:"posts" bson:"posts"`
	SocialPosts   []primitive.ObjectID `json:"social_posts" bson:"social_posts"`
	Likes         []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments      []primitive.ObjectID `json:"comments" bson:"comments"`
	Followers     []primitive.ObjectID `json:"followers" bson:"followers"`
	Following     []primitive.ObjectID `json:"following" bson:"following"`
	Notifications []primitive.ObjectID `json:"notifications" bson:"notifications"`
	Channels      []primitive.ObjectID `json:"channels" bson:"channels"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// EditAccountInput defines the payload for updating profile fields.
type EditAccountInput struct {
	Username    string `json:"username" validate:"required,min=2,max=50"`
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,min=9,max=20"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}

// SignInInput carries a provider access token for social sign-in.
type SignInInput struct {
	Provider    string  `json:"provider" validate:"required,oneof=naver kakao google"`
	AccessToken string  `json:"access_token" validate:"required"`
	Lat         float64 `json:"lat"`
	Long        float64 `json:"long"`
	Place       string  `json:"place"`
}
