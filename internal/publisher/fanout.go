package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/repository"
)

const publishConcurrencyLimit = 10

// FanoutPublisher delivers a record to each requested channel through the
// registered platform clients, resolving the client's connected account per
// channel. Channels are attempted independently so one platform outage does
// not mask results from the others.
type FanoutPublisher struct {
	clients map[string]ChannelClient
	sa      repository.SocialAccountRepository
}

func NewFanoutPublisher(sa repository.SocialAccountRepository, clients ...ChannelClient) *FanoutPublisher {
	byPlatform := make(map[string]ChannelClient, len(clients))
	for _, c := range clients {
		byPlatform[c.Platform()] = c
	}
	return &FanoutPublisher{clients: byPlatform, sa: sa}
}

func (p *FanoutPublisher) Supports(channel string) bool {
	_, ok := p.clients[channel]
	return ok
}

func (p *FanoutPublisher) Client(platform string) (ChannelClient, bool) {
	c, ok := p.clients[platform]
	return c, ok
}

func (p *FanoutPublisher) Publish(ctx context.Context, post *models.PostRecord) (*Result, error) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, publishConcurrencyLimit)

	results := make([]models.ChannelResult, 0, len(post.Channels))

	record := func(cr models.ChannelResult) {
		mu.Lock()
		results = append(results, cr)
		mu.Unlock()
	}

	for _, channel := range post.Channels {
		client, ok := p.clients[channel]
		if !ok {
			record(models.ChannelResult{Channel: channel, OK: false, Detail: "unsupported channel"})
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(channel string, client ChannelClient) {
			defer wg.Done()
			defer func() { <-semaphore }()

			account, err := p.sa.GetByClientAndPlatform(ctx, post.ClientID, channel)
			if err != nil {
				record(models.ChannelResult{Channel: channel, OK: false, Detail: err.Error()})
				return
			}
			if account == nil {
				record(models.ChannelResult{Channel: channel, OK: false, Detail: "no connected account"})
				return
			}

			externalID, err := client.Publish(ctx, post, account)
			if err != nil {
				slog.Info(fmt.Sprintf("publish to %s failed for post %s: %v", channel, post.ID, err))
				record(models.ChannelResult{Channel: channel, OK: false, Detail: err.Error()})
				return
			}

			record(models.ChannelResult{Channel: channel, OK: true, ExternalID: externalID})
		}(channel, client)
	}

	wg.Wait()

	// Stable order for the persisted audit trail.
	sort.Slice(results, func(i, j int) bool { return results[i].Channel < results[j].Channel })

	ok := len(results) > 0
	var firstErr string
	for _, r := range results {
		if !r.OK {
			ok = false
			if firstErr == "" {
				firstErr = fmt.Sprintf("%s: %s", r.Channel, r.Detail)
			}
		}
	}

	return &Result{OK: ok, PerChannel: results, Err: firstErr}, nil
}
