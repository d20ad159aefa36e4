package queue

import (
	"context"
	"errors"
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

type stubClient struct {
	name       string
	publishErr error
}

func (s *stubClient) Name() string                                        { return s.name }
func (s *stubClient) RequiresPKCE() bool                                  { return false }
func (s *stubClient) AuthorizationURL(state, codeChallenge string) string { return "" }
func (s *stubClient) CharacterLimit() int                                 { return 280 }
func (s *stubClient) ValidateContent(text string) error                   { return nil }

func (s *stubClient) Exchange(ctx context.Context, code, codeVerifier string) (*platform.Token, error) {
	return nil, errors.New("not implemented")
}

func (s *stubClient) ResolveIdentity(ctx context.Context, accessToken string) (*platform.Identity, error) {
	return nil, errors.New("not implemented")
}

func (s *stubClient) Publish(ctx context.Context, content *platform.Content, accessToken string) (*platform.PostRef, error) {
	if s.publishErr != nil {
		return nil, s.publishErr
	}
	return &platform.PostRef{PostID: "post-" + s.name}, nil
}

type stubScheduledRepo struct {
	post     *models.ScheduledPost
	statuses []string
	errorMsg string
}

func (s *stubScheduledRepo) Create(ctx context.Context, sp *models.ScheduledPost) (int64, error) {
	return 0, nil
}

func (s *stubScheduledRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	return s.post, nil
}

func (s *stubScheduledRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	return nil, nil
}

func (s *stubScheduledRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return false, nil
}

func (s *stubScheduledRepo) UpdateStatus(ctx context.Context, id int64, status, errorMessage string) error {
	s.statuses = append(s.statuses, status)
	s.errorMsg = errorMessage
	return nil
}

func (s *stubScheduledRepo) Remove(ctx context.Context, id int64) error { return nil }

type stubConnectionRepo struct {
	connections map[string]*models.SocialConnection
}

func (s *stubConnectionRepo) Upsert(ctx context.Context, sc *models.SocialConnection) (int64, error) {
	return 0, nil
}

func (s *stubConnectionRepo) GetByUserAndPlatform(ctx context.Context, userID int64, platformName string) (*models.SocialConnection, bool, error) {
	conn, ok := s.connections[platformName]
	return conn, ok, nil
}

func (s *stubConnectionRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialConnection, error) {
	return nil, nil
}

func (s *stubConnectionRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialConnection, error) {
	return nil, nil
}

func (s *stubConnectionRepo) ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialConnection, error) {
	return nil, nil
}

func (s *stubConnectionRepo) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	return nil
}

func (s *stubConnectionRepo) Remove(ctx context.Context, userID int64, platformName string) error {
	return nil
}

type stubPublishedRepo struct {
	mu    sync.Mutex
	posts []*models.PublishedPost
}

func (s *stubPublishedRepo) Create(ctx context.Context, pp *models.PublishedPost) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, pp)
	return int64(len(s.posts)), nil
}

func (s *stubPublishedRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.PublishedPost, error) {
	return nil, nil
}

func (s *stubPublishedRepo) CountByPlatform(ctx context.Context, userID int64, since time.Time) ([]*transfer.PlatformCount, error) {
	return nil, nil
}

func testQueue(t *testing.T, sp *stubScheduledRepo, clients map[string]platform.Client) (*Queue, *stubPublishedRepo) {
	t.Helper()

	enc, err := utils.Encrypt([]byte("token"), []byte(testSecretKey))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	connRepo := &stubConnectionRepo{connections: map[string]*models.SocialConnection{}}
	for name := range clients {
		connRepo.connections[name] = &models.SocialConnection{UserID: 7, Platform: name, AccessToken: enc}
	}

	ppRepo := &stubPublishedRepo{}
	cfg := config.Config{SecretKey: testSecretKey}
	return NewQueue(cfg, clients, sp, connRepo, ppRepo), ppRepo
}

func TestPublishPostMarksPublished(t *testing.T) {
	sp := &stubScheduledRepo{post: &models.ScheduledPost{
		ID:        1,
		UserID:    7,
		Content:   "scheduled update",
		Platforms: `["twitter","threads"]`,
		Status:    models.ScheduleStatusPending,
	}}
	clients := map[string]platform.Client{
		"twitter": &stubClient{name: "twitter"},
		"threads": &stubClient{name: "threads"},
	}

	q, ppRepo := testQueue(t, sp, clients)

	if err := q.PublishPost(context.Background(), 1); err != nil {
		t.Fatalf("PublishPost: %v", err)
	}

	if len(sp.statuses) != 1 || sp.statuses[0] != models.ScheduleStatusPublished {
		t.Fatalf("statuses = %v", sp.statuses)
	}
	if len(ppRepo.posts) != 2 {
		t.Fatalf("recorded rows = %d", len(ppRepo.posts))
	}
}

func TestPublishPostAllFailuresMarksFailed(t *testing.T) {
	sp := &stubScheduledRepo{post: &models.ScheduledPost{
		ID:        1,
		UserID:    7,
		Content:   "scheduled update",
		Platforms: `["twitter"]`,
		Status:    models.ScheduleStatusPending,
	}}
	clients := map[string]platform.Client{
		"twitter": &stubClient{name: "twitter", publishErr: errors.New("down")},
	}

	q, _ := testQueue(t, sp, clients)

	if err := q.PublishPost(context.Background(), 1); err != nil {
		t.Fatalf("PublishPost: %v", err)
	}

	if len(sp.statuses) != 1 || sp.statuses[0] != models.ScheduleStatusFailed {
		t.Fatalf("statuses = %v", sp.statuses)
	}
	if sp.errorMsg == "" {
		t.Fatal("expected error message recorded")
	}
}

func TestPublishPostSkipsNonPending(t *testing.T) {
	sp := &stubScheduledRepo{post: &models.ScheduledPost{
		ID:        1,
		UserID:    7,
		Content:   "already done",
		Platforms: `["twitter"]`,
		Status:    models.ScheduleStatusPublished,
	}}
	clients := map[string]platform.Client{"twitter": &stubClient{name: "twitter"}}

	q, ppRepo := testQueue(t, sp, clients)

	if err := q.PublishPost(context.Background(), 1); err != nil {
		t.Fatalf("PublishPost: %v", err)
	}

	if len(sp.statuses) != 0 {
		t.Fatalf("expected no status change, got %v", sp.statuses)
	}
	if len(ppRepo.posts) != 0 {
		t.Fatalf("expected no publish records, got %d", len(ppRepo.posts))
	}
}

func TestPublishPostMissingRow(t *testing.T) {
	sp := &stubScheduledRepo{post: nil}
	q, _ := testQueue(t, sp, map[string]platform.Client{})

	if err := q.PublishPost(context.Background(), 99); err != nil {
		t.Fatalf("PublishPost on missing row should be a no-op: %v", err)
	}
}
