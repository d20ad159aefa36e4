package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/platform"
	"github.com/maheshrc27/contentflow/internal/transfer"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

var testSecretKey = "0123456789abcdef0123456789abcdef"

type fakeClient struct {
	name       string
	limit      int
	publishErr error
	ref        platform.PostRef

	mu        sync.Mutex
	published []string
}

func (f *fakeClient) Name() string        { return f.name }
func (f *fakeClient) RequiresPKCE() bool  { return false }
func (f *fakeClient) CharacterLimit() int { return f.limit }

func (f *fakeClient) AuthorizationURL(state, codeChallenge string) string {
	return "https://example.com/authorize?state=" + state
}

func (f *fakeClient) Exchange(ctx context.Context, code, codeVerifier string) (*platform.Token, error) {
	return &platform.Token{AccessToken: "at-" + f.name, ExpiresIn: 3600}, nil
}

func (f *fakeClient) ResolveIdentity(ctx context.Context, accessToken string) (*platform.Identity, error) {
	return &platform.Identity{ID: "id-" + f.name, Username: "user-" + f.name}, nil
}

func (f *fakeClient) ValidateContent(text string) error {
	if f.limit > 0 && len([]rune(text)) > f.limit {
		return errors.New("Content exceeds " + f.name + " limit")
	}
	return nil
}

func (f *fakeClient) Publish(ctx context.Context, content *platform.Content, accessToken string) (*platform.PostRef, error) {
	f.mu.Lock()
	f.published = append(f.published, accessToken)
	f.mu.Unlock()
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	ref := f.ref
	if ref.PostID == "" {
		ref = platform.PostRef{PostID: "post-" + f.name, PostURL: "https://example.com/" + f.name}
	}
	return &ref, nil
}

type fakeConnectionRepo struct {
	mu          sync.Mutex
	connections map[string]*models.SocialConnection
	upserted    []*models.SocialConnection
	upsertErr   error
	removed     []string
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{connections: make(map[string]*models.SocialConnection)}
}

func (f *fakeConnectionRepo) Upsert(ctx context.Context, sc *models.SocialConnection) (int64, error) {
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, sc)
	f.connections[sc.Platform] = sc
	return int64(len(f.upserted)), nil
}

func (f *fakeConnectionRepo) GetByUserAndPlatform(ctx context.Context, userID int64, platformName string) (*models.SocialConnection, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conn, ok := f.connections[platformName]
	if !ok {
		return nil, false, nil
	}
	return conn, true, nil
}

func (f *fakeConnectionRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialConnection, error) {
	return nil, nil
}

func (f *fakeConnectionRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialConnection, error) {
	return nil, nil
}

func (f *fakeConnectionRepo) ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialConnection, error) {
	return nil, nil
}

func (f *fakeConnectionRepo) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	return nil
}

func (f *fakeConnectionRepo) Remove(ctx context.Context, userID int64, platformName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.connections, platformName)
	f.removed = append(f.removed, platformName)
	return nil
}

type fakePublishedPostRepo struct {
	mu    sync.Mutex
	posts []*models.PublishedPost
}

func (f *fakePublishedPostRepo) Create(ctx context.Context, pp *models.PublishedPost) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, pp)
	return int64(len(f.posts)), nil
}

func (f *fakePublishedPostRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.PublishedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts, nil
}

func (f *fakePublishedPostRepo) CountByPlatform(ctx context.Context, userID int64, since time.Time) ([]*transfer.PlatformCount, error) {
	return nil, nil
}

func testConfig() config.Config {
	return config.Config{SecretKey: testSecretKey}
}

func encryptedToken(t *testing.T, token string) string {
	t.Helper()
	enc, err := utils.Encrypt([]byte(token), []byte(testSecretKey))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	return enc
}

func connectionFor(t *testing.T, platformName string) *models.SocialConnection {
	t.Helper()
	return &models.SocialConnection{
		ID:          1,
		UserID:      7,
		Platform:    platformName,
		AccessToken: encryptedToken(t, "token-"+platformName),
	}
}

func TestPublishMissingConnections(t *testing.T) {
	twitter := &fakeClient{name: "twitter", limit: 280}
	facebook := &fakeClient{name: "facebook", limit: 63206}
	clients := map[string]platform.Client{"twitter": twitter, "facebook": facebook}

	connRepo := newFakeConnectionRepo()
	connRepo.connections["twitter"] = connectionFor(t, "twitter")
	postRepo := &fakePublishedPostRepo{}

	s := NewPublishService(testConfig(), clients, connRepo, postRepo)

	_, err := s.Publish(context.Background(), 7, &transfer.PublishRequest{
		Content:   "hello",
		Platforms: []string{"twitter", "facebook"},
	})

	var missing *MissingPlatformsError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingPlatformsError", err)
	}
	if len(missing.Platforms) != 1 || missing.Platforms[0] != "facebook" {
		t.Fatalf("missing = %v", missing.Platforms)
	}
	if !strings.Contains(missing.Error(), "facebook") {
		t.Fatalf("error message = %q", missing.Error())
	}

	// nothing was attempted or recorded
	if len(twitter.published) != 0 {
		t.Fatal("expected no publish attempts when a platform is missing")
	}
	if len(postRepo.posts) != 0 {
		t.Fatalf("expected no rows recorded, got %d", len(postRepo.posts))
	}
}

func TestPublishPartialFailure(t *testing.T) {
	twitter := &fakeClient{name: "twitter", limit: 280}
	facebook := &fakeClient{name: "facebook", limit: 63206, publishErr: errors.New("page quota exceeded")}
	clients := map[string]platform.Client{"twitter": twitter, "facebook": facebook}

	connRepo := newFakeConnectionRepo()
	connRepo.connections["twitter"] = connectionFor(t, "twitter")
	connRepo.connections["facebook"] = connectionFor(t, "facebook")
	postRepo := &fakePublishedPostRepo{}

	s := NewPublishService(testConfig(), clients, connRepo, postRepo)

	resp, err := s.Publish(context.Background(), 7, &transfer.PublishRequest{
		ContentID: 3,
		Content:   "hello",
		Platforms: []string{"twitter", "facebook"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if !resp.Success {
		t.Fatal("expected overall success when at least one platform succeeded")
	}
	if resp.Summary.Total != 2 || resp.Summary.Successful != 1 || resp.Summary.Failed != 1 {
		t.Fatalf("summary = %+v", resp.Summary)
	}

	// results keep request order
	if resp.Results[0].Platform != "twitter" || !resp.Results[0].Success {
		t.Fatalf("results[0] = %+v", resp.Results[0])
	}
	if resp.Results[1].Platform != "facebook" || resp.Results[1].Success {
		t.Fatalf("results[1] = %+v", resp.Results[1])
	}
	if resp.Results[1].Error != "page quota exceeded" {
		t.Fatalf("results[1].Error = %q", resp.Results[1].Error)
	}

	// decrypted tokens reached the clients
	if len(twitter.published) != 1 || twitter.published[0] != "token-twitter" {
		t.Fatalf("twitter tokens = %v", twitter.published)
	}

	if len(postRepo.posts) != 2 {
		t.Fatalf("recorded rows = %d, want 2", len(postRepo.posts))
	}
	for _, p := range postRepo.posts {
		if p.Platform == "facebook" {
			if p.Status != models.PublishStatusFailed || p.ErrorMessage == "" {
				t.Fatalf("facebook row = %+v", p)
			}
		} else {
			if p.Status != models.PublishStatusPublished || p.PostID == "" {
				t.Fatalf("twitter row = %+v", p)
			}
		}
		if p.ContentID != 3 {
			t.Fatalf("ContentID = %d", p.ContentID)
		}
	}
}

func TestPublishAllFail(t *testing.T) {
	twitter := &fakeClient{name: "twitter", limit: 280, publishErr: errors.New("down")}
	clients := map[string]platform.Client{"twitter": twitter}

	connRepo := newFakeConnectionRepo()
	connRepo.connections["twitter"] = connectionFor(t, "twitter")
	postRepo := &fakePublishedPostRepo{}

	s := NewPublishService(testConfig(), clients, connRepo, postRepo)

	resp, err := s.Publish(context.Background(), 7, &transfer.PublishRequest{
		Content:   "hello",
		Platforms: []string{"twitter"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if resp.Success {
		t.Fatal("expected overall failure when every platform failed")
	}
	if resp.Summary.Failed != 1 || resp.Summary.Successful != 0 {
		t.Fatalf("summary = %+v", resp.Summary)
	}
}

func TestPublishContentOverLimit(t *testing.T) {
	twitter := &fakeClient{name: "twitter", limit: 280}
	facebook := &fakeClient{name: "facebook", limit: 63206}
	clients := map[string]platform.Client{"twitter": twitter, "facebook": facebook}

	connRepo := newFakeConnectionRepo()
	connRepo.connections["twitter"] = connectionFor(t, "twitter")
	connRepo.connections["facebook"] = connectionFor(t, "facebook")
	postRepo := &fakePublishedPostRepo{}

	s := NewPublishService(testConfig(), clients, connRepo, postRepo)

	resp, err := s.Publish(context.Background(), 7, &transfer.PublishRequest{
		Content:   strings.Repeat("a", 290),
		Platforms: []string{"twitter", "facebook"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// 290 chars fails validation on twitter but posts fine on facebook
	if resp.Results[0].Success {
		t.Fatal("twitter should reject 290 characters")
	}
	if !resp.Results[1].Success {
		t.Fatalf("facebook should accept 290 characters: %+v", resp.Results[1])
	}
	if !resp.Success {
		t.Fatal("expected overall success")
	}

	// validation failures never hit the platform API
	if len(twitter.published) != 0 {
		t.Fatal("expected no publish attempt after validation failure")
	}
}
