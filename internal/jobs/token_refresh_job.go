package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/publisher"
	"github.com/valleops/postpilot/internal/repository"
)

type TokenRefreshJob struct {
	sr  repository.SocialAccountRepository
	pub *publisher.FanoutPublisher
}

func NewTokenRefreshJob(sr repository.SocialAccountRepository, pub *publisher.FanoutPublisher) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr:  sr,
		pub: pub,
	}
}

func (j *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := j.sr.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		client, ok := j.pub.Client(acc.Platform)
		if !ok {
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount, client publisher.ChannelClient) {
			defer wg.Done()
			defer func() { <-semaphore }()

			access, refresh, expiresAt, err := client.RefreshToken(ctx, acc)
			if err != nil {
				slog.Info("unable to refresh token", "platform", acc.Platform, "account_id", acc.AccountID)
				return
			}

			if err := j.sr.SetToken(ctx, acc.ID, access, refresh, expiresAt); err != nil {
				slog.Info(err.Error())
			}
		}(acc, client)
	}

	wg.Wait()
}
