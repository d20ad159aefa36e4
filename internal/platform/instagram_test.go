package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

var _ TokenRefresher = (*InstagramClient)(nil)

func newTestInstagramClient(graphURL string) *InstagramClient {
	return &InstagramClient{
		clientID:     "fb-client-id",
		clientSecret: "fb-client-secret",
		redirectURI:  "https://app.example.com/auth/instagram/callback",
		authURL:      "https://www.facebook.com/v21.0/dialog/oauth",
		graphURL:     graphURL,
	}
}

func TestInstagramResolveIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"id": "page-1", "name": "My Page", "access_token": "page-token"}},
		})
	})
	mux.HandleFunc("/page-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"instagram_business_account": map[string]string{"id": "ig-1"},
		})
	})
	mux.HandleFunc("/ig-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "ig-1", "username": "brandaccount"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestInstagramClient(server.URL)

	identity, err := c.ResolveIdentity(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("ResolveIdentity: %v", err)
	}
	if identity.ID != "ig-1" || identity.Username != "brandaccount" {
		t.Fatalf("identity = %+v", identity)
	}
}

func TestInstagramResolveIdentityNoPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestInstagramClient(server.URL)

	_, err := c.ResolveIdentity(context.Background(), "user-token")
	if !errors.Is(err, ErrNoPages) {
		t.Fatalf("err = %v, want ErrNoPages", err)
	}
}

func TestInstagramResolveIdentityNoBusinessAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"id": "page-1", "name": "My Page"}},
		})
	})
	mux.HandleFunc("/page-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestInstagramClient(server.URL)

	_, err := c.ResolveIdentity(context.Background(), "user-token")
	if !errors.Is(err, ErrNoBusinessAccount) {
		t.Fatalf("err = %v, want ErrNoBusinessAccount", err)
	}
}

func TestInstagramPublishRequiresImage(t *testing.T) {
	c := newTestInstagramClient("https://graph.facebook.com/v21.0")

	_, err := c.Publish(context.Background(), &Content{Text: "caption only"}, "user-token")
	if !errors.Is(err, ErrImageRequired) {
		t.Fatalf("err = %v, want ErrImageRequired", err)
	}
}

func TestInstagramPublish(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"id": "page-1", "name": "My Page"}},
		})
	})
	mux.HandleFunc("/page-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"instagram_business_account": map[string]string{"id": "ig-1"},
		})
	})
	mux.HandleFunc("/ig-1/media", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("image_url") != "https://cdn.example.com/pic.jpg" {
			t.Errorf("image_url = %q", r.PostForm.Get("image_url"))
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "container-1"})
	})
	mux.HandleFunc("/ig-1/media_publish", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("creation_id") != "container-1" {
			t.Errorf("creation_id = %q", r.PostForm.Get("creation_id"))
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "media-1"})
	})
	mux.HandleFunc("/media-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"permalink": "https://www.instagram.com/p/abc/"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestInstagramClient(server.URL)

	ref, err := c.Publish(context.Background(), &Content{
		Text:     "launch day",
		ImageURL: "https://cdn.example.com/pic.jpg",
	}, "user-token")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if ref.PostID != "media-1" {
		t.Fatalf("PostID = %q", ref.PostID)
	}
	if ref.PostURL != "https://www.instagram.com/p/abc/" {
		t.Fatalf("PostURL = %q", ref.PostURL)
	}
}
