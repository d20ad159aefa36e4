package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

var _ TokenRefresher = (*FacebookClient)(nil)

func newTestFacebookClient(graphURL string) *FacebookClient {
	return &FacebookClient{
		clientID:     "fb-client-id",
		clientSecret: "fb-client-secret",
		redirectURI:  "https://app.example.com/auth/facebook/callback",
		authURL:      "https://www.facebook.com/v21.0/dialog/oauth",
		graphURL:     graphURL,
	}
}

func TestFacebookExchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/access_token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("client_secret") != "fb-client-secret" {
			t.Errorf("client_secret = %q", q.Get("client_secret"))
		}
		if q.Get("code") != "code-abc" {
			t.Errorf("code = %q", q.Get("code"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fb-at",
			"token_type":   "bearer",
			"expires_in":   5183944,
		})
	}))
	defer server.Close()

	c := newTestFacebookClient(server.URL)

	token, err := c.Exchange(context.Background(), "code-abc", "")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if token.AccessToken != "fb-at" || token.ExpiresIn != 5183944 {
		t.Fatalf("token = %+v", token)
	}
	if token.RefreshToken != "fb-at" {
		t.Fatalf("RefreshToken = %q, want the long-lived token itself", token.RefreshToken)
	}
}

func TestFacebookRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/access_token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("grant_type") != "fb_exchange_token" {
			t.Errorf("grant_type = %q", q.Get("grant_type"))
		}
		if q.Get("fb_exchange_token") != "fb-at" {
			t.Errorf("fb_exchange_token = %q", q.Get("fb_exchange_token"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fb-at-2",
			"token_type":   "bearer",
			"expires_in":   5183944,
		})
	}))
	defer server.Close()

	c := newTestFacebookClient(server.URL)

	token, err := c.RefreshToken(context.Background(), "fb-at")
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if token.AccessToken != "fb-at-2" {
		t.Fatalf("AccessToken = %q", token.AccessToken)
	}
	if token.RefreshToken != "fb-at-2" {
		t.Fatalf("RefreshToken = %q, want rotated alongside the access token", token.RefreshToken)
	}
}

func TestFacebookPublishFirstPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"id": "page-1", "name": "First Page", "access_token": "page-token-1"},
				{"id": "page-2", "name": "Second Page", "access_token": "page-token-2"},
			},
		})
	})
	mux.HandleFunc("/page-1/feed", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("access_token") != "page-token-1" {
			t.Errorf("access_token = %q, want page token", r.PostForm.Get("access_token"))
		}
		if r.PostForm.Get("message") != "big news" {
			t.Errorf("message = %q", r.PostForm.Get("message"))
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "page-1_111"})
	})
	mux.HandleFunc("/page-2/feed", func(w http.ResponseWriter, r *http.Request) {
		t.Error("published to second page, want first")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestFacebookClient(server.URL)

	ref, err := c.Publish(context.Background(), &Content{Text: "big news"}, "user-token")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if ref.PostID != "page-1_111" {
		t.Fatalf("PostID = %q", ref.PostID)
	}
}

func TestFacebookPublishNoPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestFacebookClient(server.URL)

	_, err := c.Publish(context.Background(), &Content{Text: "big news"}, "user-token")
	if !errors.Is(err, ErrNoPages) {
		t.Fatalf("err = %v, want ErrNoPages", err)
	}
}
