package platform

import (
	"bytes"
	"context"
	"encoding/base64"
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

const twitterCharacterLimit = 280

type TwitterClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authURL      string
	apiURL       string
}

func NewTwitterClient(cfg config.Config) *TwitterClient {
	return &TwitterClient{
		clientID:     cfg.TwitterClientID,
		clientSecret: cfg.TwitterClientSecret,
		redirectURI:  cfg.TwitterRedirectURI,
		authURL:      "https://twitter.com/i/oauth2/authorize",
		apiURL:       "https://api.twitter.com",
	}
}

func (c *TwitterClient) Name() string {
	return models.PlatformTwitter
}

// Twitter's v2 authorization server mandates PKCE on every code flow.
func (c *TwitterClient) RequiresPKCE() bool {
	return true
}

func (c *TwitterClient) AuthorizationURL(state, codeChallenge string) string {
	params := url.Values{}
	params.Add("client_id", c.clientID)
	params.Add("redirect_uri", c.redirectURI)
	params.Add("response_type", "code")
	params.Add("scope", "tweet.read tweet.write users.read offline.access")
	params.Add("state", state)
	params.Add("code_challenge", codeChallenge)
	params.Add("code_challenge_method", "S256")

	return fmt.Sprintf("%s?%s", c.authURL, params.Encode())
}

func (c *TwitterClient) Exchange(ctx context.Context, code, codeVerifier string) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", c.redirectURI)
	data.Set("code_verifier", codeVerifier)

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+"/2/oauth2/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("Twitter token endpoint returned status %d", resp.StatusCode))
		return nil, errors.New("Twitter token endpoint returned non-200 status")
	}

	var tokenResponse transfer.TwitterTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &Token{
		AccessToken:  tokenResponse.AccessToken,
		RefreshToken: tokenResponse.RefreshToken,
		ExpiresIn:    tokenResponse.ExpiresIn,
	}, nil
}

func (c *TwitterClient) ResolveIdentity(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiURL+"/2/users/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, ErrIdentityUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("Twitter users/me returned status %d", resp.StatusCode))
		return nil, ErrIdentityUnavailable
	}

	var userResponse transfer.TwitterUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&userResponse); err != nil {
		slog.Info(err.Error())
		return nil, ErrIdentityUnavailable
	}

	return &Identity{
		ID:       userResponse.Data.ID,
		Username: userResponse.Data.Username,
		Name:     userResponse.Data.Name,
	}, nil
}

func (c *TwitterClient) CharacterLimit() int {
	return twitterCharacterLimit
}

func (c *TwitterClient) ValidateContent(text string) error {
	return validateLength(text, twitterCharacterLimit)
}

func (c *TwitterClient) Publish(ctx context.Context, content *Content, accessToken string) (*PostRef, error) {
	body, err := json.Marshal(transfer.TwitterTweetRequest{Text: content.Text})
	if err != nil {
		return nil, fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+"/2/tweets", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("Twitter publish failed: %s", respBody))
		return nil, fmt.Errorf("unexpected status code from Twitter: %d", resp.StatusCode)
	}

	var result transfer.TwitterTweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	if result.Data.ID == "" {
		return nil, errors.New("no tweet ID returned from Twitter")
	}

	return &PostRef{
		PostID:  result.Data.ID,
		PostURL: fmt.Sprintf("https://twitter.com/i/web/status/%s", result.Data.ID),
	}, nil
}
