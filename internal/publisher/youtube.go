package publisher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	config "github.com/valleops/postpilot/configs"
	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/pkg/utils"
)

// YoutubeClient uploads video records through the YouTube Data API.
type YoutubeClient struct {
	cfg config.Config
}

func NewYoutubeClient(cfg config.Config) *YoutubeClient {
	return &YoutubeClient{cfg: cfg}
}

func (c *YoutubeClient) Platform() string { return ChannelYoutube }

func (c *YoutubeClient) Publish(ctx context.Context, post *models.PostRecord, account *models.SocialAccount) (string, error) {
	if post.ContentType != models.ContentTypeVideo {
		return "", fmt.Errorf("youtube only supports video posts, got %q", post.ContentType)
	}

	accessToken, err := utils.Decrypt(account.AccessToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	token := &oauth2.Token{AccessToken: accessToken}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("error creating YouTube service: %w", err)
	}

	tempFile, err := downloadMedia(ctx, post.MediaRefs[0])
	if err != nil {
		return "", err
	}
	defer os.Remove(tempFile)

	file, err := os.Open(tempFile)
	if err != nil {
		return "", fmt.Errorf("error opening video file: %w", err)
	}
	defer file.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       videoTitle(post.Caption),
			Description: post.Caption,
			CategoryId:  "22",
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: "public",
		},
	}

	call := service.Videos.Insert([]string{"snippet", "status"}, video)
	response, err := call.Media(file).Do()
	if err != nil {
		return "", fmt.Errorf("error uploading video: %w", err)
	}

	return response.Id, nil
}

// RefreshToken obtains a new access token from the stored refresh grant.
func (c *YoutubeClient) RefreshToken(ctx context.Context, account *models.SocialAccount) (string, string, time.Time, error) {
	conf := &oauth2.Config{
		ClientID:     c.cfg.GoogleClientID,
		ClientSecret: c.cfg.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/youtube.upload"},
		Endpoint:     google.Endpoint,
	}

	refreshToken, err := utils.Decrypt(account.RefreshToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return "", "", time.Time{}, err
	}

	tokenSource := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := tokenSource.Token()
	if err != nil {
		return "", "", time.Time{}, err
	}

	encryptedAccess, err := utils.Encrypt([]byte(token.AccessToken), []byte(c.cfg.SecretKey))
	if err != nil {
		return "", "", time.Time{}, err
	}

	return encryptedAccess, account.RefreshToken, token.Expiry, nil
}

// videoTitle trims the caption down to YouTube's 100-character title limit.
func videoTitle(caption string) string {
	if caption == "" {
		return "Untitled"
	}
	runes := []rune(caption)
	if len(runes) > 100 {
		return string(runes[:97]) + "..."
	}
	return caption
}

func downloadMedia(ctx context.Context, mediaRef string) (name string, err error) {
	tempFile, err := os.CreateTemp("", "video-*.mp4")
	if err != nil {
		return "", fmt.Errorf("error creating temporary file: %w", err)
	}
	defer func() {
		tempFile.Close()
		if err != nil {
			os.Remove(tempFile.Name())
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaRef, nil)
	if err != nil {
		return "", err
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error downloading media: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected response status: %d", response.StatusCode)
	}

	if _, err := io.Copy(tempFile, response.Body); err != nil {
		return "", fmt.Errorf("error saving media to temporary file: %w", err)
	}

	return tempFile.Name(), nil
}
