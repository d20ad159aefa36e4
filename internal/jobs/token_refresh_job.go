package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/platform"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

type TokenRefreshJob struct {
	cfg     config.Config
	clients map[string]platform.Client
	sc      repository.ConnectionRepository
}

func NewTokenRefreshJob(cfg config.Config, clients map[string]platform.Client, sc repository.ConnectionRepository) *TokenRefreshJob {
	return &TokenRefreshJob{
		cfg:     cfg,
		clients: clients,
		sc:      sc,
	}
}

// RefreshTokens rotates connections whose tokens expire within the next
// 30 minutes, for platforms that support refresh.
func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	connections, err := c.sc.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, conn := range connections {
		refresher, ok := c.clients[conn.Platform].(platform.TokenRefresher)
		if !ok {
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(conn *models.SocialConnection, refresher platform.TokenRefresher) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.refreshOne(ctx, conn, refresher); err != nil {
				slog.Info("Unable to refresh tokens for " + conn.Platform)
			}
		}(conn, refresher)
	}

	wg.Wait()
}

func (c *TokenRefreshJob) refreshOne(ctx context.Context, conn *models.SocialConnection, refresher platform.TokenRefresher) error {
	refreshToken, err := utils.Decrypt(conn.RefreshToken, []byte(c.cfg.SecretKey))
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	token, err := refresher.RefreshToken(ctx, refreshToken)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	var encryptedRefreshToken string
	if token.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(token.RefreshToken), []byte(c.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	return c.sc.UpdateTokens(ctx, conn.ID, encryptedAccessToken, encryptedRefreshToken, service.GetExpiresAt(token.ExpiresIn))
}
