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

const facebookCharacterLimit = 63206

type FacebookClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authURL      string
	graphURL     string
}

func NewFacebookClient(cfg config.Config) *FacebookClient {
	return &FacebookClient{
		clientID:     cfg.FacebookClientID,
		clientSecret: cfg.FacebookClientSecret,
		redirectURI:  cfg.FacebookRedirectURI,
		authURL:      "https://www.facebook.com/v21.0/dialog/oauth",
		graphURL:     "https://graph.facebook.com/v21.0",
	}
}

func (c *FacebookClient) Name() string {
	return models.PlatformFacebook
}

func (c *FacebookClient) RequiresPKCE() bool {
	return false
}

func (c *FacebookClient) AuthorizationURL(state, codeChallenge string) string {
	params := url.Values{}
	params.Add("client_id", c.clientID)
	params.Add("redirect_uri", c.redirectURI)
	params.Add("response_type", "code")
	params.Add("scope", "pages_show_list,pages_read_engagement,pages_manage_posts")
	params.Add("state", state)

	return fmt.Sprintf("%s?%s", c.authURL, params.Encode())
}

func (c *FacebookClient) Exchange(ctx context.Context, code, codeVerifier string) (*Token, error) {
	return exchangeGraphCode(ctx, c.graphURL, c.clientID, c.clientSecret, c.redirectURI, code)
}

// exchangeGraphCode is the app-secret code exchange shared by the
// Facebook-family platforms.
func exchangeGraphCode(ctx context.Context, graphURL, clientID, clientSecret, redirectURI, code string) (*Token, error) {
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("client_secret", clientSecret)
	params.Set("redirect_uri", redirectURI)
	params.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/oauth/access_token?%s", graphURL, params.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("Graph token endpoint returned status %d: %s", resp.StatusCode, body))
		return nil, errors.New("token endpoint returned non-200 status")
	}

	var tokenResponse transfer.FacebookTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	// The Graph API issues no separate refresh credential; the token itself
	// is what fb_exchange_token refreshes with later.
	return &Token{
		AccessToken:  tokenResponse.AccessToken,
		RefreshToken: tokenResponse.AccessToken,
		ExpiresIn:    tokenResponse.ExpiresIn,
	}, nil
}

// refreshGraphToken re-runs the long-lived exchange with the stored token,
// shared by the Facebook-family platforms.
func refreshGraphToken(ctx context.Context, graphURL, clientID, clientSecret, currentToken string) (*Token, error) {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", clientID)
	params.Set("client_secret", clientSecret)
	params.Set("fb_exchange_token", currentToken)

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/oauth/access_token?%s", graphURL, params.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token refresh returned status %d", resp.StatusCode)
	}

	var tokenResponse transfer.FacebookTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &Token{
		AccessToken:  tokenResponse.AccessToken,
		RefreshToken: tokenResponse.AccessToken,
		ExpiresIn:    tokenResponse.ExpiresIn,
	}, nil
}

func (c *FacebookClient) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	return refreshGraphToken(ctx, c.graphURL, c.clientID, c.clientSecret, refreshToken)
}

func (c *FacebookClient) ResolveIdentity(ctx context.Context, accessToken string) (*Identity, error) {
	reqURL := fmt.Sprintf("%s/me?fields=id,name&access_token=%s", c.graphURL, url.QueryEscape(accessToken))

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
		slog.Info(fmt.Sprintf("Facebook /me returned status %d", resp.StatusCode))
		return nil, ErrIdentityUnavailable
	}

	var userInfo transfer.FacebookUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		slog.Info(err.Error())
		return nil, ErrIdentityUnavailable
	}

	return &Identity{
		ID:       userInfo.ID,
		Username: userInfo.Name,
		Name:     userInfo.Name,
	}, nil
}

func (c *FacebookClient) CharacterLimit() int {
	return facebookCharacterLimit
}

func (c *FacebookClient) ValidateContent(text string) error {
	return validateLength(text, facebookCharacterLimit)
}

// listPages enumerates the Pages the user manages. Shared with the
// Instagram identity chain.
func listPages(ctx context.Context, graphURL, accessToken string) ([]transfer.FacebookPage, error) {
	reqURL := fmt.Sprintf("%s/me/accounts?access_token=%s", graphURL, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("Facebook /me/accounts returned status %d", resp.StatusCode))
		return nil, fmt.Errorf("unexpected status code listing pages: %d", resp.StatusCode)
	}

	var pages transfer.FacebookPagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&pages); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return pages.Data, nil
}

// Publish posts the content to the feed of the user's first managed Page,
// using that Page's own access token.
func (c *FacebookClient) Publish(ctx context.Context, content *Content, accessToken string) (*PostRef, error) {
	pages, err := listPages(ctx, c.graphURL, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list Facebook Pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	page := pages[0]

	data := url.Values{}
	data.Set("message", content.Text)
	data.Set("access_token", page.AccessToken)
	if content.ImageURL != "" {
		data.Set("link", content.ImageURL)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/%s/feed", c.graphURL, page.ID), strings.NewReader(data.Encode()))
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
		slog.Info(fmt.Sprintf("Facebook publish failed: %s", respBody))
		return nil, fmt.Errorf("unexpected status code from Facebook: %d", resp.StatusCode)
	}

	var result transfer.GraphObjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	if result.ID == "" {
		return nil, errors.New("no post ID returned from Facebook")
	}

	return &PostRef{
		PostID:  result.ID,
		PostURL: fmt.Sprintf("https://www.facebook.com/%s", result.ID),
	}, nil
}
