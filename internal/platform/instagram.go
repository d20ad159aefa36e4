package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

const instagramCharacterLimit = 2200

// InstagramClient rides on the Facebook OAuth app: same client credentials,
// its own redirect URI, and an identity chain that walks from the user's
// Pages to the linked Instagram Business Account.
type InstagramClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authURL      string
	graphURL     string
}

func NewInstagramClient(cfg config.Config) *InstagramClient {
	return &InstagramClient{
		clientID:     cfg.FacebookClientID,
		clientSecret: cfg.FacebookClientSecret,
		redirectURI:  cfg.InstagramRedirectURI,
		authURL:      "https://www.facebook.com/v21.0/dialog/oauth",
		graphURL:     "https://graph.facebook.com/v21.0",
	}
}

func (c *InstagramClient) Name() string {
	return models.PlatformInstagram
}

func (c *InstagramClient) RequiresPKCE() bool {
	return false
}

func (c *InstagramClient) AuthorizationURL(state, codeChallenge string) string {
	params := url.Values{}
	params.Add("client_id", c.clientID)
	params.Add("redirect_uri", c.redirectURI)
	params.Add("response_type", "code")
	params.Add("scope", "pages_show_list,instagram_basic,instagram_content_publish")
	params.Add("state", state)

	return fmt.Sprintf("%s?%s", c.authURL, params.Encode())
}

func (c *InstagramClient) Exchange(ctx context.Context, code, codeVerifier string) (*Token, error) {
	return exchangeGraphCode(ctx, c.graphURL, c.clientID, c.clientSecret, c.redirectURI, code)
}

// ResolveIdentity walks Pages -> instagram_business_account -> id,username.
// Each hop has its own failure mode so the caller can report a precise
// reason.
func (c *InstagramClient) ResolveIdentity(ctx context.Context, accessToken string) (*Identity, error) {
	igID, err := c.businessAccountID(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s?fields=id,username&access_token=%s", c.graphURL, igID, url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, ErrIdentityUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("Instagram account lookup returned status %d", resp.StatusCode))
		return nil, ErrIdentityUnavailable
	}

	var userInfo transfer.InstagramUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		slog.Info(err.Error())
		return nil, ErrIdentityUnavailable
	}

	return &Identity{
		ID:       userInfo.ID,
		Username: userInfo.Username,
		Name:     userInfo.Username,
	}, nil
}

func (c *InstagramClient) businessAccountID(ctx context.Context, accessToken string) (string, error) {
	pages, err := listPages(ctx, c.graphURL, accessToken)
	if err != nil {
		return "", ErrIdentityUnavailable
	}
	if len(pages) == 0 {
		return "", ErrNoPages
	}

	reqURL := fmt.Sprintf("%s/%s?fields=instagram_business_account&access_token=%s", c.graphURL, pages[0].ID, url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", ErrIdentityUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("Page lookup returned status %d", resp.StatusCode))
		return "", ErrIdentityUnavailable
	}

	var page transfer.InstagramBusinessAccountResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		slog.Info(err.Error())
		return "", ErrIdentityUnavailable
	}

	if page.InstagramBusinessAccount.ID == "" {
		return "", ErrNoBusinessAccount
	}

	return page.InstagramBusinessAccount.ID, nil
}

func (c *InstagramClient) CharacterLimit() int {
	return instagramCharacterLimit
}

func (c *InstagramClient) ValidateContent(text string) error {
	return validateLength(text, instagramCharacterLimit)
}

// Publish creates a media container for the image with the caption, then
// publishes the container. Instagram has no text-only posts, so content
// without an image fails up front.
func (c *InstagramClient) Publish(ctx context.Context, content *Content, accessToken string) (*PostRef, error) {
	if content.ImageURL == "" {
		return nil, ErrImageRequired
	}

	igID, err := c.businessAccountID(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	containerID, err := c.createContainer(ctx, igID, content, accessToken)
	if err != nil {
		return nil, err
	}

	data := url.Values{}
	data.Set("creation_id", containerID)
	data.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/%s/media_publish", c.graphURL, igID), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("Instagram publish failed: %s", respBody))
		return nil, fmt.Errorf("unexpected status code from Instagram: %d", resp.StatusCode)
	}

	var result transfer.GraphObjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	if result.ID == "" {
		return nil, errors.New("no media ID returned from Instagram")
	}

	return &PostRef{
		PostID:  result.ID,
		PostURL: c.permalink(ctx, result.ID, accessToken),
	}, nil
}

func (c *InstagramClient) createContainer(ctx context.Context, igID string, content *Content, accessToken string) (string, error) {
	data := url.Values{}
	data.Set("image_url", content.ImageURL)
	data.Set("caption", content.Text)
	data.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/%s/media", c.graphURL, igID), strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("Instagram container creation failed: %s", respBody))
		return "", fmt.Errorf("unexpected status code from Instagram: %d", resp.StatusCode)
	}

	var result transfer.GraphObjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	if result.ID == "" {
		return "", errors.New("no container ID returned from Instagram")
	}

	return result.ID, nil
}

// permalink is best-effort; the post exists whether or not the lookup works.
func (c *InstagramClient) permalink(ctx context.Context, mediaID, accessToken string) string {
	reqURL := fmt.Sprintf("%s/%s?fields=permalink&access_token=%s", c.graphURL, mediaID, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return ""
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var result transfer.GraphPermalinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ""
	}

	return result.Permalink
}

// RefreshToken re-runs the long-lived exchange with the stored token. The
// Facebook family refreshes by exchanging the current token rather than a
// separate refresh credential.
func (c *InstagramClient) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	return refreshGraphToken(ctx, c.graphURL, c.clientID, c.clientSecret, refreshToken)
}
