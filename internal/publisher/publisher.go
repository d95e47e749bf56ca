package publisher

import (
	"context"
	"time"

	"github.com/valleops/postpilot/internal/models"
)

// Result is the whole-attempt outcome the orchestrator reconciles. OK is
// true only when every requested channel succeeded.
type Result struct {
	OK         bool
	PerChannel []models.ChannelResult
	Err        string
}

// Publisher delivers one record to all of its requested channels. Retry and
// backoff against the platforms live behind this interface, not in front of
// it.
type Publisher interface {
	Publish(ctx context.Context, post *models.PostRecord) (*Result, error)
	Supports(channel string) bool
}

// ChannelClient is one platform integration used by the fan-out publisher.
type ChannelClient interface {
	Platform() string
	Publish(ctx context.Context, post *models.PostRecord, account *models.SocialAccount) (string, error)
	RefreshToken(ctx context.Context, account *models.SocialAccount) (accessToken, refreshToken string, expiresAt time.Time, err error)
}

const (
	ChannelInstagram = "instagram"
	ChannelFacebook  = "facebook"
	ChannelYoutube   = "youtube"
)
