package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/platform"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

// FlowError carries the short reason code the callback handler embeds in the
// redirect query string, e.g. "no_pages" becomes ?error=instagram_oauth_no_pages.
type FlowError struct {
	Reason string
	Err    error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Reason
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

type ConnectService interface {
	Client(name string) (platform.Client, bool)
	Connect(ctx context.Context, userID int64, platformName, code, codeVerifier string) error
	Disconnect(ctx context.Context, userID int64, platformName string) error
	ListConnections(ctx context.Context, userID int64) ([]*models.SocialConnection, error)
}

type connectService struct {
	cfg     config.Config
	clients map[string]platform.Client
	sc      repository.ConnectionRepository
}

func NewConnectService(cfg config.Config, clients map[string]platform.Client, sc repository.ConnectionRepository) ConnectService {
	return &connectService{
		cfg:     cfg,
		clients: clients,
		sc:      sc,
	}
}

func (s *connectService) Client(name string) (platform.Client, bool) {
	c, ok := s.clients[name]
	return c, ok
}

func (s *connectService) Connect(ctx context.Context, userID int64, platformName, code, codeVerifier string) error {
	client, ok := s.clients[platformName]
	if !ok {
		return &FlowError{Reason: "failed", Err: fmt.Errorf("unsupported platform: %s", platformName)}
	}

	token, err := client.Exchange(ctx, code, codeVerifier)
	if err != nil {
		slog.Info(err.Error())
		return &FlowError{Reason: "failed", Err: err}
	}

	identity, err := client.ResolveIdentity(ctx, token.AccessToken)
	if err != nil {
		slog.Info(err.Error())
		switch {
		case errors.Is(err, platform.ErrNoPages):
			return &FlowError{Reason: "no_pages", Err: err}
		case errors.Is(err, platform.ErrNoBusinessAccount):
			return &FlowError{Reason: "no_business_account", Err: err}
		default:
			return &FlowError{Reason: "failed", Err: err}
		}
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		slog.Info(err.Error())
		return &FlowError{Reason: "save_failed", Err: err}
	}

	var encryptedRefreshToken string
	if token.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			slog.Info(err.Error())
			return &FlowError{Reason: "save_failed", Err: err}
		}
	}

	_, err = s.sc.Upsert(ctx, &models.SocialConnection{
		UserID:           userID,
		Platform:         platformName,
		PlatformUserID:   identity.ID,
		PlatformUsername: identity.Username,
		AccessToken:      encryptedAccessToken,
		RefreshToken:     encryptedRefreshToken,
		TokenExpiresAt:   GetExpiresAt(token.ExpiresIn),
	})
	if err != nil {
		slog.Info(err.Error())
		return &FlowError{Reason: "save_failed", Err: err}
	}

	return nil
}

func (s *connectService) Disconnect(ctx context.Context, userID int64, platformName string) error {
	if _, ok := s.clients[platformName]; !ok {
		return fmt.Errorf("unsupported platform: %s", platformName)
	}
	return s.sc.Remove(ctx, userID, platformName)
}

func (s *connectService) ListConnections(ctx context.Context, userID int64) ([]*models.SocialConnection, error) {
	return s.sc.ListInfoByUserID(ctx, userID)
}
