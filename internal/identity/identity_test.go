package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, wantToken string, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+wantToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyNaver(t *testing.T) {
	srv := serve(t, "tok", `{"response":{"id":"n-1","email":"a@b.kr","nickname":"nick","profile_image":"http://img","mobile_e164":"+82101234"}}`)
	v := NewHTTPVerifier()
	v.NaverURL = srv.URL

	p, err := v.Verify(context.Background(), "naver", "tok")
	require.NoError(t, err)
	assert.Equal(t, "n-1", p.ID)
	assert.Equal(t, "nick", p.Name)
	assert.Equal(t, "+82101234", p.Phone)
	assert.Equal(t, "naver", p.Provider)
}

func TestVerifyKakaoNumericID(t *testing.T) {
	srv := serve(t, "tok", `{"id":123456,"kakao_account":{"email":"k@b.kr","profile":{"nickname":"kak"}}}`)
	v := NewHTTPVerifier()
	v.KakaoURL = srv.URL

	p, err := v.Verify(context.Background(), "kakao", "tok")
	require.NoError(t, err)
	assert.Equal(t, "123456", p.ID)
	// Missing image falls back to the placeholder.
	assert.Equal(t, defaultImage, p.Image)
}

func TestVerifyGoogle(t *testing.T) {
	srv := serve(t, "tok", `{"sub":"g-9","email":"g@b.kr","name":"goo","picture":"http://pic"}`)
	v := NewHTTPVerifier()
	v.GoogleURL = srv.URL

	p, err := v.Verify(context.Background(), "google", "tok")
	require.NoError(t, err)
	assert.Equal(t, "g-9", p.ID)
	assert.Equal(t, "http://pic", p.Image)
}

func TestVerifyRejectsBadToken(t *testing.T) {
	srv := serve(t, "good", `{}`)
	v := NewHTTPVerifier()
	v.NaverURL = srv.URL

	_, err := v.Verify(context.Background(), "naver", "bad")
	assert.Error(t, err)
}

func TestVerifyUnknownProvider(t *testing.T) {
	v := NewHTTPVerifier()
	_, err := v.Verify(context.Background(), "facebook", "tok")
	assert.Error(t, err)
}

func TestVerifyEmptyProfile(t *testing.T) {
	srv := serve(t, "tok", `{"response":{}}`)
	v := NewHTTPVerifier()
	v.NaverURL = srv.URL

	_, err := v.Verify(context.Background(), "naver", "tok")
	assert.Error(t, err)
}
