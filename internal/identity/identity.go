// Package identity verifies provider access tokens against the Naver, Kakao
// and Google user-info endpoints and normalizes the returned profiles.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	naverMeURL  = "https://openapi.naver.com/v1/nid/me"
	kakaoMeURL  = "https://kapi.kakao.com/v2/user/me"
	googleMeURL = "https://www.googleapis.com/oauth2/v3/userinfo"

	// Shown when the provider returns no profile image.
	defaultImage = "https://res.cloudinary.com/delg9pckx/image/upload/v1614324453/user/none_kt1yr8.jpg"
)

// Profile is a provider-agnostic identity.
type Profile struct {
	ID       string
	Email    string
	Name     string
	Image    string
	Phone    string
	Provider string
}

// Verifier exchanges a provider access token for the user's profile.
type Verifier interface {
	Verify(ctx context.Context, provider, accessToken string) (*Profile, error)
}

// HTTPVerifier implements Verifier against the live provider endpoints.
type HTTPVerifier struct {
	client *http.Client

	// Endpoint overrides, settable in tests.
	NaverURL  string
	KakaoURL  string
	GoogleURL string
}

func NewHTTPVerifier() *HTTPVerifier {
	return &HTTPVerifier{
		client:    &http.Client{Timeout: 10 * time.Second},
		NaverURL:  naverMeURL,
		KakaoURL:  kakaoMeURL,
		GoogleURL: googleMeURL,
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, provider, accessToken string) (*Profile, error) {
	switch provider {
	case "naver":
		return v.verifyNaver(ctx, accessToken)
	case "kakao":
		return v.verifyKakao(ctx, accessToken)
	case "google":
		return v.verifyGoogle(ctx, accessToken)
	}
	return nil, fmt.Errorf("unknown provider %q", provider)
}

func (v *HTTPVerifier) verifyNaver(ctx context.Context, accessToken string) (*Profile, error) {
	var body struct {
		Response struct {
			ID           string `json:"id"`
			Email        string `json:"email"`
			Name         string `json:"name"`
			Nickname     string `json:"nickname"`
			ProfileImage string `json:"profile_image"`
			MobileE164   string `json:"mobile_e164"`
		} `json:"response"`
	}
	if err := v.get(ctx, v.NaverURL, accessToken, &body); err != nil {
		return nil, err
	}
	if body.Response.ID == "" {
		return nil, fmt.Errorf("naver: empty profile")
	}
	name := body.Response.Nickname
	if name == "" {
		name = body.Response.Name
	}
	return &Profile{
		ID:       body.Response.ID,
		Email:    body.Response.Email,
		Name:     name,
		Image:    orDefault(body.Response.ProfileImage),
		Phone:    body.Response.MobileE164,
		Provider: "naver",
	}, nil
}

func (v *HTTPVerifier) verifyKakao(ctx context.Context, accessToken string) (*Profile, error) {
	var body struct {
		ID      int64 `json:"id"`
		Account struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname          string `json:"nickname"`
				ThumbnailImageURL string `json:"thumbnail_image_url"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := v.get(ctx, v.KakaoURL, accessToken, &body); err != nil {
		return nil, err
	}
	if body.ID == 0 {
		return nil, fmt.Errorf("kakao: empty profile")
	}
	return &Profile{
		ID:       strconv.FormatInt(body.ID, 10),
		Email:    body.Account.Email,
		Name:     body.Account.Profile.Nickname,
		Image:    orDefault(body.Account.Profile.ThumbnailImageURL),
		Provider: "kakao",
	}, nil
}

func (v *HTTPVerifier) verifyGoogle(ctx context.Context, accessToken string) (*Profile, error) {
	var body struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := v.get(ctx, v.GoogleURL, accessToken, &body); err != nil {
		return nil, err
	}
	if body.Sub == "" {
		return nil, fmt.Errorf("google: empty profile")
	}
	return &Profile{
		ID:       body.Sub,
		Email:    body.Email,
		Name:     body.Name,
		Image:    orDefault(body.Picture),
		Provider: "google",
	}, nil
}

func (v *HTTPVerifier) get(ctx context.Context, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

func orDefault(image string) string {
	if image == "" {
		return defaultImage
	}
	return image
}
