package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valleops/postpilot/internal/models"
)

type stubAccountRepo struct {
	accounts map[string]*models.SocialAccount // keyed by clientID+platform
	err      error
}

func (r *stubAccountRepo) GetByClientAndPlatform(ctx context.Context, clientID, platform string) (*models.SocialAccount, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.accounts[clientID+"/"+platform], nil
}

func (r *stubAccountRepo) ListByClientID(ctx context.Context, clientID string) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (r *stubAccountRepo) ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (r *stubAccountRepo) SetToken(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	return nil
}

type stubChannelClient struct {
	platform   string
	externalID string
	err        error
}

func (c *stubChannelClient) Platform() string { return c.platform }

func (c *stubChannelClient) Publish(ctx context.Context, post *models.PostRecord, account *models.SocialAccount) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.externalID, nil
}

func (c *stubChannelClient) RefreshToken(ctx context.Context, account *models.SocialAccount) (string, string, time.Time, error) {
	return "", "", time.Time{}, nil
}

func TestSupports(t *testing.T) {
	pub := NewFanoutPublisher(&stubAccountRepo{},
		&stubChannelClient{platform: ChannelInstagram},
		&stubChannelClient{platform: ChannelFacebook},
	)

	assert.True(t, pub.Supports(ChannelInstagram))
	assert.True(t, pub.Supports(ChannelFacebook))
	assert.False(t, pub.Supports("tiktok"))
}

func TestPublishAllChannelsSucceed(t *testing.T) {
	accounts := &stubAccountRepo{accounts: map[string]*models.SocialAccount{
		"acme/instagram": {ID: 1, ClientID: "acme", Platform: ChannelInstagram},
		"acme/facebook":  {ID: 2, ClientID: "acme", Platform: ChannelFacebook},
	}}
	pub := NewFanoutPublisher(accounts,
		&stubChannelClient{platform: ChannelInstagram, externalID: "ig-1"},
		&stubChannelClient{platform: ChannelFacebook, externalID: "fb-1"},
	)

	post := &models.PostRecord{
		ID:       "p1",
		ClientID: "acme",
		Channels: []string{ChannelInstagram, ChannelFacebook},
	}

	result, err := pub.Publish(context.Background(), post)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Empty(t, result.Err)

	require.Len(t, result.PerChannel, 2)
	// Results come back sorted by channel name.
	assert.Equal(t, ChannelFacebook, result.PerChannel[0].Channel)
	assert.Equal(t, "fb-1", result.PerChannel[0].ExternalID)
	assert.Equal(t, ChannelInstagram, result.PerChannel[1].Channel)
	assert.Equal(t, "ig-1", result.PerChannel[1].ExternalID)
}

func TestPublishPartialFailure(t *testing.T) {
	accounts := &stubAccountRepo{accounts: map[string]*models.SocialAccount{
		"acme/instagram": {ID: 1, ClientID: "acme", Platform: ChannelInstagram},
		"acme/facebook":  {ID: 2, ClientID: "acme", Platform: ChannelFacebook},
	}}
	pub := NewFanoutPublisher(accounts,
		&stubChannelClient{platform: ChannelInstagram, err: errors.New("token expired")},
		&stubChannelClient{platform: ChannelFacebook, externalID: "fb-1"},
	)

	post := &models.PostRecord{
		ID:       "p1",
		ClientID: "acme",
		Channels: []string{ChannelInstagram, ChannelFacebook},
	}

	result, err := pub.Publish(context.Background(), post)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "instagram: token expired", result.Err)

	require.Len(t, result.PerChannel, 2)
	assert.True(t, result.PerChannel[0].OK)
	assert.False(t, result.PerChannel[1].OK)
	assert.Equal(t, "token expired", result.PerChannel[1].Detail)
}

func TestPublishUnsupportedChannel(t *testing.T) {
	pub := NewFanoutPublisher(&stubAccountRepo{},
		&stubChannelClient{platform: ChannelInstagram, externalID: "ig-1"},
	)

	post := &models.PostRecord{
		ID:       "p1",
		ClientID: "acme",
		Channels: []string{"tiktok"},
	}

	result, err := pub.Publish(context.Background(), post)
	require.NoError(t, err)
	assert.False(t, result.OK)
	require.Len(t, result.PerChannel, 1)
	assert.Equal(t, "unsupported channel", result.PerChannel[0].Detail)
}

func TestPublishNoConnectedAccount(t *testing.T) {
	pub := NewFanoutPublisher(&stubAccountRepo{},
		&stubChannelClient{platform: ChannelInstagram, externalID: "ig-1"},
	)

	post := &models.PostRecord{
		ID:       "p1",
		ClientID: "acme",
		Channels: []string{ChannelInstagram},
	}

	result, err := pub.Publish(context.Background(), post)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "instagram: no connected account", result.Err)
}

func TestPublishNoChannels(t *testing.T) {
	pub := NewFanoutPublisher(&stubAccountRepo{},
		&stubChannelClient{platform: ChannelInstagram},
	)

	result, err := pub.Publish(context.Background(), &models.PostRecord{ID: "p1", ClientID: "acme"})
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Empty(t, result.PerChannel)
}
