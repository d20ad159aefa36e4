package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestThreadsClient(graphURL string) *ThreadsClient {
	return &ThreadsClient{
		clientID:     "th-client-id",
		clientSecret: "th-client-secret",
		redirectURI:  "https://app.example.com/auth/threads/callback",
		authURL:      "https://threads.net/oauth/authorize",
		graphURL:     graphURL,
	}
}

func TestThreadsExchangeUpgradesToLongLived(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("code") != "code-abc" {
			t.Errorf("code = %q", r.PostForm.Get("code"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "short-lived",
			"user_id":      12345,
		})
	})
	mux.HandleFunc("/access_token", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("grant_type") != "th_exchange_token" {
			t.Errorf("grant_type = %q", q.Get("grant_type"))
		}
		if q.Get("access_token") != "short-lived" {
			t.Errorf("access_token = %q", q.Get("access_token"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "long-lived",
			"token_type":   "bearer",
			"expires_in":   5184000,
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestThreadsClient(server.URL)

	token, err := c.Exchange(context.Background(), "code-abc", "")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if token.AccessToken != "long-lived" {
		t.Fatalf("AccessToken = %q", token.AccessToken)
	}
	if token.RefreshToken != "long-lived" {
		t.Fatalf("RefreshToken = %q, want long-lived token reused", token.RefreshToken)
	}
	if token.ExpiresIn != 5184000 {
		t.Fatalf("ExpiresIn = %d", token.ExpiresIn)
	}
}

func TestThreadsPublishTextPost(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1.0/me/threads", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("media_type") != "TEXT" {
			t.Errorf("media_type = %q", r.PostForm.Get("media_type"))
		}
		if r.PostForm.Get("text") != "short take" {
			t.Errorf("text = %q", r.PostForm.Get("text"))
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "container-9"})
	})
	mux.HandleFunc("/v1.0/me/threads_publish", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("creation_id") != "container-9" {
			t.Errorf("creation_id = %q", r.PostForm.Get("creation_id"))
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "thread-9"})
	})
	mux.HandleFunc("/v1.0/thread-9", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"permalink": "https://www.threads.net/@someone/post/abc"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestThreadsClient(server.URL)

	ref, err := c.Publish(context.Background(), &Content{Text: "short take"}, "long-lived")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if ref.PostID != "thread-9" {
		t.Fatalf("PostID = %q", ref.PostID)
	}
	if ref.PostURL != "https://www.threads.net/@someone/post/abc" {
		t.Fatalf("PostURL = %q", ref.PostURL)
	}
}

func TestThreadsRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/refresh_access_token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("grant_type") != "th_refresh_token" {
			t.Errorf("grant_type = %q", r.URL.Query().Get("grant_type"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "renewed",
			"token_type":   "bearer",
			"expires_in":   5184000,
		})
	}))
	defer server.Close()

	c := newTestThreadsClient(server.URL)

	token, err := c.RefreshToken(context.Background(), "long-lived")
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if token.AccessToken != "renewed" || token.RefreshToken != "renewed" {
		t.Fatalf("token = %+v", token)
	}
}
