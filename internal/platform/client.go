package platform

import (
	"context"
	"errors"
	"fmt"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
)

// Token is the result of an authorization-code exchange. ExpiresIn is in
// seconds; zero means the provider reported no expiry.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Identity is the external account the tokens belong to.
type Identity struct {
	ID       string
	Username string
	Name     string
}

// Content is one piece of copy to publish. ImageURL is optional except on
// platforms whose publish API requires hosted media.
type Content struct {
	Text     string
	ImageURL string
}

// PostRef points at a post created on the remote platform.
type PostRef struct {
	PostID  string
	PostURL string
}

// Client normalizes the four platform OAuth/publish APIs behind one
// capability set.
type Client interface {
	Name() string
	RequiresPKCE() bool
	AuthorizationURL(state, codeChallenge string) string
	Exchange(ctx context.Context, code, codeVerifier string) (*Token, error)
	ResolveIdentity(ctx context.Context, accessToken string) (*Identity, error)
	CharacterLimit() int
	ValidateContent(text string) error
	Publish(ctx context.Context, content *Content, accessToken string) (*PostRef, error)
}

// TokenRefresher is implemented by clients whose platform hands out
// refreshable long-lived tokens.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*Token, error)
}

// Identity-resolution failures that callers map to distinct redirect codes.
var (
	ErrNoPages             = errors.New("no Facebook Pages found for this account")
	ErrNoBusinessAccount   = errors.New("no Instagram Business Account linked to the Page")
	ErrImageRequired       = errors.New("an image is required to publish on this platform")
	ErrIdentityUnavailable = errors.New("unable to resolve platform identity")
)

func validateLength(text string, limit int) error {
	if len([]rune(text)) > limit {
		return fmt.Errorf("Content exceeds %d character limit", limit)
	}
	return nil
}

// NewRegistry builds the concrete client per supported platform.
func NewRegistry(cfg config.Config) map[string]Client {
	return map[string]Client{
		models.PlatformTwitter:   NewTwitterClient(cfg),
		models.PlatformFacebook:  NewFacebookClient(cfg),
		models.PlatformInstagram: NewInstagramClient(cfg),
		models.PlatformThreads:   NewThreadsClient(cfg),
	}
}
