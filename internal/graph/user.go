package graph

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math/rand"
	"sort"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/events"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/store"
)

// AuthPayload is the signInWithProvider result.
type AuthPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ConversationSummary is one unseen-conversation entry on getAuthUser.
type ConversationSummary struct {
	UserID        primitive.ObjectID `json:"user_id"`
	Username      string             `json:"username"`
	FullName      string             `json:"full_name"`
	Image         string             `json:"image"`
	LastMessage   string             `json:"last_message"`
	LastMessageAt string             `json:"last_message_at"`
}

// AuthUser is the getAuthUser result: the account plus the unseen
// conversation summary grouped by sender.
type AuthUser struct {
	User             *models.User          `json:"user"`
	NewConversations []ConversationSummary `json:"new_conversations"`
}

// UserPresence is the payload published on the userOnline event.
type UserPresence struct {
	UserID   primitive.ObjectID `json:"user_id"`
	IsOnline bool               `json:"is_online"`
}

// SignInWithProvider verifies the provider access token, creates the account
// on first sign-in and returns a signed JWT.
func (r *Resolver) SignInWithProvider(p graphql.ResolveParams) (any, error) {
	var input models.SignInInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}

	profile, err := r.Identity.Verify(p.Context, input.Provider, input.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("verify %s token: %w", input.Provider, err)
	}

	user, err := r.Store.Users.ByProvider(p.Context, input.Provider, profile.ID)
	if err == store.ErrNotFound {
		user = &models.User{
			FullName:    profile.Name,
			Username:    profile.Name,
			Email:       profile.Email,
			PhoneNumber: profile.Phone,
			Image:       profile.Image,
			Settings:    models.DefaultSettings(),
			Location:    models.Location{Lat: input.Lat, Long: input.Long, Name: input.Place},
		}
		switch input.Provider {
		case "naver":
			user.NaverID = profile.ID
		case "kakao":
			user.KakaoID = profile.ID
		case "google":
			user.GoogleID = profile.ID
		}
		if err := r.Store.Users.Create(p.Context, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	token, err := r.issueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthPayload{Token: token, User: user}, nil
}

// GetAuthUser marks the caller online, publishes presence and attaches the
// unseen-conversation summary, newest first.
func (r *Resolver) GetAuthUser(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}

	user, err := r.Store.Users.SetOnline(p.Context, authID, true)
	if err != nil {
		return nil, notFound("user", err)
	}
	r.Bus.Publish(events.Event{Name: events.UserOnline, Payload: UserPresence{UserID: authID, IsOnline: true}})

	unseen, err := r.Store.Messages.LastUnseenPerSender(p.Context, authID)
	if err != nil {
		return nil, fmt.Errorf("unseen messages: %w", err)
	}
	senderIDs := make([]primitive.ObjectID, 0, len(unseen))
	for _, m := range unseen {
		senderIDs = append(senderIDs, m.SenderID)
	}
	senders, err := r.Store.Users.ByIDs(p.Context, senderIDs)
	if err != nil {
		return nil, fmt.Errorf("load senders: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.User, len(senders))
	for _, s := range senders {
		byID[s.ID] = s
	}

	sort.Slice(unseen, func(i, j int) bool { return unseen[i].CreatedAt.After(unseen[j].CreatedAt) })
	summaries := make([]ConversationSummary, 0, len(unseen))
	for _, m := range unseen {
		sender, ok := byID[m.SenderID]
		if !ok {
			continue
		}
		summaries = append(summaries, ConversationSummary{
			UserID:        sender.ID,
			Username:      sender.Username,
			FullName:      sender.FullName,
			Image:         sender.Image,
			LastMessage:   m.Body,
			LastMessageAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return &AuthUser{User: user, NewConversations: summaries}, nil
}

func (r *Resolver) GetUser(p graphql.ResolveParams) (any, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	user, err := r.Store.Users.ByID(p.Context, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

// UsersPayload pairs a page of users with the unfiltered count.
type UsersPayload struct {
	Users []models.User `json:"users"`
	Count int64         `json:"count"`
}

// GetUsers lists users the caller does not already follow.
func (r *Resolver) GetUsers(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	skip, limit := pageArgs(p)

	following, err := r.Store.Follows.FollowedBy(p.Context, authID)
	if err != nil {
		return nil, fmt.Errorf("load following: %w", err)
	}
	exclude := append(following, authID)
	users, count, err := r.Store.Users.ListExcluding(p.Context, exclude, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &UsersPayload{Users: users, Count: count}, nil
}

func (r *Resolver) SearchUsers(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	query := stringArg(p, "searchQuery")
	if query == "" {
		return []models.User{}, nil
	}
	users, err := r.Store.Users.Search(p.Context, query, authID, 50)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// SuggestPeople returns a random window of users the caller does not follow.
func (r *Resolver) SuggestPeople(p graphql.ResolveParams) (any, error) {
	const suggestLimit = 6

	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	following, err := r.Store.Follows.FollowedBy(p.Context, authID)
	if err != nil {
		return nil, fmt.Errorf("load following: %w", err)
	}
	exclude := append(following, authID)

	count, err := r.Store.Users.CountExcluding(p.Context, exclude)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	var skip int64
	if count > suggestLimit {
		skip = rand.Int63n(count - suggestLimit + 1)
	}
	users, _, err := r.Store.Users.ListExcluding(p.Context, exclude, skip, suggestLimit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *Resolver) GetSetting(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	user, err := r.Store.Users.ByID(p.Context, authID)
	if err != nil {
		return nil, notFound("user", err)
	}
	return user.Settings, nil
}

// UpdateSettingInput toggles one preference flag.
type UpdateSettingInput struct {
	Type  string `json:"type" validate:"required,oneof=sound notification message channel"`
	Value bool   `json:"value"`
}

// UpdateSetting flips one settings flag. Soft failure: returns false instead
// of erroring.
func (r *Resolver) UpdateSetting(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input UpdateSettingInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}

	user, err := r.Store.Users.ByID(p.Context, authID)
	if err != nil {
		return false, nil
	}
	settings := user.Settings
	switch input.Type {
	case "sound":
		settings.Sound = input.Value
	case "notification":
		settings.Notification = input.Value
	case "message":
		settings.Message = input.Value
	case "channel":
		settings.Channel = input.Value
	}
	if err := r.Store.Users.UpdateSettings(p.Context, authID, settings); err != nil {
		log.Printf("graph: update settings: %v", err)
		return false, nil
	}
	return true, nil
}

func (r *Resolver) EditAccount(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input models.EditAccountInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	user, err := r.Store.Users.UpdateAccount(p.Context, authID, input.Username, input.PhoneNumber, input.Email)
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

// UploadPhotoInput carries a base64-encoded image for the profile or cover
// slot.
type UploadPhotoInput struct {
	File        string `json:"file" validate:"required"`
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type"`
	IsCover     bool   `json:"is_cover"`
}

// UploadUserPhoto replaces the profile or cover image. The previous object is
// deleted from storage after the new one is stored.
func (r *Resolver) UploadUserPhoto(p graphql.ResolveParams) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input UploadPhotoInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(input.File)
	if err != nil {
		return nil, fmt.Errorf("decode file: %w", err)
	}
	url, key, err := r.Uploader.Upload("user", input.Filename, input.ContentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	before, err := r.Store.Users.ByID(p.Context, authID)
	if err != nil {
		return nil, notFound("user", err)
	}
	user, err := r.Store.Users.SetPhoto(p.Context, authID, url, key, input.IsCover)
	if err != nil {
		return nil, notFound("user", err)
	}

	oldKey := before.ImageKey
	if input.IsCover {
		oldKey = before.CoverKey
	}
	if oldKey != "" {
		if err := r.Uploader.Delete(oldKey); err != nil {
			log.Printf("graph: delete old photo %s: %v", oldKey, err)
		}
	}
	return user, nil
}

// DeviceTokenInput registers or removes one FCM device token.
type DeviceTokenInput struct {
	Token string `json:"token" validate:"required"`
}

func (r *Resolver) RegisterDeviceToken(p graphql.ResolveParams) (any, error) {
	return r.deviceToken(p, r.Store.Users.AddDeviceToken)
}

func (r *Resolver) RemoveDeviceToken(p graphql.ResolveParams) (any, error) {
	return r.deviceToken(p, r.Store.Users.RemoveDeviceToken)
}

func (r *Resolver) deviceToken(p graphql.ResolveParams, op func(ctx context.Context, id primitive.ObjectID, token string) error) (any, error) {
	authID, err := r.authUser(p)
	if err != nil {
		return nil, err
	}
	var input DeviceTokenInput
	if err := r.decodeInput(p, &input); err != nil {
		return nil, err
	}
	if err := op(p.Context, authID, input.Token); err != nil {
		log.Printf("graph: device token: %v", err)
		return false, nil
	}
	return true, nil
}
