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

const threadsCharacterLimit = 500

type ThreadsClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authURL      string
	graphURL     string
}

func NewThreadsClient(cfg config.Config) *ThreadsClient {
	return &ThreadsClient{
		clientID:     cfg.ThreadsClientID,
		clientSecret: cfg.ThreadsClientSecret,
		redirectURI:  cfg.ThreadsRedirectURI,
		authURL:      "https://threads.net/oauth/authorize",
		graphURL:     "https://graph.threads.net",
	}
}

func (c *ThreadsClient) Name() string {
	return models.PlatformThreads
}

func (c *ThreadsClient) RequiresPKCE() bool {
	return false
}

func (c *ThreadsClient) AuthorizationURL(state, codeChallenge string) string {
	params := url.Values{}
	params.Add("client_id", c.clientID)
	params.Add("redirect_uri", c.redirectURI)
	params.Add("response_type", "code")
	params.Add("scope", "threads_basic,threads_content_publish")
	params.Add("state", state)

	return fmt.Sprintf("%s?%s", c.authURL, params.Encode())
}

// Exchange trades the code for a short-lived token, then immediately
// upgrades it to a long-lived one. The long-lived token doubles as the
// refresh credential.
func (c *ThreadsClient) Exchange(ctx context.Context, code, codeVerifier string) (*Token, error) {
	data := url.Values{}
	data.Set("client_id", c.clientID)
	data.Set("client_secret", c.clientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", c.redirectURI)
	data.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, "POST", c.graphURL+"/oauth/access_token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("Threads token endpoint returned status %d: %s", resp.StatusCode, body))
		return nil, errors.New("Threads token endpoint returned non-200 status")
	}

	var shortLived transfer.ThreadsTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&shortLived); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	longLived, err := c.exchangeLongLived(ctx, shortLived.AccessToken)
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken:  longLived.AccessToken,
		RefreshToken: longLived.AccessToken,
		ExpiresIn:    longLived.ExpiresIn,
	}, nil
}

func (c *ThreadsClient) exchangeLongLived(ctx context.Context, shortLivedToken string) (*transfer.ThreadsLongLivedTokenResponse, error) {
	reqURL := fmt.Sprintf("%s/access_token?grant_type=th_exchange_token&client_secret=%s&access_token=%s",
		c.graphURL, url.QueryEscape(c.clientSecret), url.QueryEscape(shortLivedToken))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to get long-lived token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("error response from Threads: %s (status code: %d)", body, resp.StatusCode)
	}

	var result transfer.ThreadsLongLivedTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode long-lived token response: %w", err)
	}

	return &result, nil
}

func (c *ThreadsClient) ResolveIdentity(ctx context.Context, accessToken string) (*Identity, error) {
	reqURL := fmt.Sprintf("%s/v1.0/me?fields=id,username&access_token=%s", c.graphURL, url.QueryEscape(accessToken))

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
		slog.Info(fmt.Sprintf("Threads /me returned status %d", resp.StatusCode))
		return nil, ErrIdentityUnavailable
	}

	var userInfo transfer.ThreadsUserInfo
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

func (c *ThreadsClient) CharacterLimit() int {
	return threadsCharacterLimit
}

func (c *ThreadsClient) ValidateContent(text string) error {
	return validateLength(text, threadsCharacterLimit)
}

// Publish creates a text container then publishes it, the same two-step
// shape as Instagram media.
func (c *ThreadsClient) Publish(ctx context.Context, content *Content, accessToken string) (*PostRef, error) {
	data := url.Values{}
	data.Set("media_type", "TEXT")
	data.Set("text", content.Text)
	data.Set("access_token", accessToken)
	if content.ImageURL != "" {
		data.Set("media_type", "IMAGE")
		data.Set("image_url", content.ImageURL)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.graphURL+"/v1.0/me/threads", strings.NewReader(data.Encode()))
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
		slog.Info(fmt.Sprintf("Threads container creation failed: %s", respBody))
		return nil, fmt.Errorf("unexpected status code from Threads: %d", resp.StatusCode)
	}

	var container transfer.GraphObjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&container); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	if container.ID == "" {
		return nil, errors.New("no container ID returned from Threads")
	}

	publishData := url.Values{}
	publishData.Set("creation_id", container.ID)
	publishData.Set("access_token", accessToken)

	pubReq, err := http.NewRequestWithContext(ctx, "POST", c.graphURL+"/v1.0/me/threads_publish", strings.NewReader(publishData.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	pubReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	pubResp, err := http.DefaultClient.Do(pubReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer pubResp.Body.Close()

	if pubResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(pubResp.Body)
		slog.Info(fmt.Sprintf("Threads publish failed: %s", respBody))
		return nil, fmt.Errorf("unexpected status code from Threads: %d", pubResp.StatusCode)
	}

	var result transfer.GraphObjectResponse
	if err := json.NewDecoder(pubResp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	if result.ID == "" {
		return nil, errors.New("no post ID returned from Threads")
	}

	return &PostRef{
		PostID:  result.ID,
		PostURL: c.permalink(ctx, result.ID, accessToken),
	}, nil
}

func (c *ThreadsClient) permalink(ctx context.Context, postID, accessToken string) string {
	reqURL := fmt.Sprintf("%s/v1.0/%s?fields=permalink&access_token=%s", c.graphURL, postID, url.QueryEscape(accessToken))

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

// RefreshToken extends a long-lived token before it expires.
func (c *ThreadsClient) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	reqURL := fmt.Sprintf("%s/refresh_access_token?grant_type=th_refresh_token&access_token=%s",
		c.graphURL, url.QueryEscape(refreshToken))

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
		return nil, fmt.Errorf("token refresh returned status %d", resp.StatusCode)
	}

	var result transfer.ThreadsLongLivedTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &Token{
		AccessToken:  result.AccessToken,
		RefreshToken: result.AccessToken,
		ExpiresIn:    result.ExpiresIn,
	}, nil
}
