package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	config "github.com/valleops/postpilot/configs"
	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/pkg/utils"
)

const graphAPIBase = "https://graph.facebook.com/v21.0"
const instagramGraphBase = "https://graph.instagram.com/v21.0"

type graphError struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		FbtraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

// InstagramClient publishes through the Instagram Graph API: one container
// per media item, then a publish call on the container.
type InstagramClient struct {
	cfg config.Config
}

func NewInstagramClient(cfg config.Config) *InstagramClient {
	return &InstagramClient{cfg: cfg}
}

func (c *InstagramClient) Platform() string { return ChannelInstagram }

func (c *InstagramClient) Publish(ctx context.Context, post *models.PostRecord, account *models.SocialAccount) (string, error) {
	accessToken, err := utils.Decrypt(account.AccessToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	if len(post.MediaRefs) == 0 {
		return "", errors.New("instagram requires at least one media item")
	}

	var containerID string
	switch post.ContentType {
	case models.ContentTypeImage:
		containerID, err = c.createContainer(ctx, account.AccountID, map[string]interface{}{
			"image_url":    post.MediaRefs[0],
			"caption":      post.Caption,
			"access_token": accessToken,
		})
	case models.ContentTypeVideo:
		containerID, err = c.createContainer(ctx, account.AccountID, map[string]interface{}{
			"media_type":   "REELS",
			"video_url":    post.MediaRefs[0],
			"caption":      post.Caption,
			"access_token": accessToken,
		})
	case models.ContentTypeCarousel:
		containerID, err = c.createCarouselContainer(ctx, account.AccountID, post, accessToken)
	default:
		return "", fmt.Errorf("instagram does not support content type %q", post.ContentType)
	}
	if err != nil {
		return "", err
	}

	return c.publishContainer(ctx, account.AccountID, containerID, accessToken)
}

func (c *InstagramClient) createContainer(ctx context.Context, accountID string, payload map[string]interface{}) (string, error) {
	url := fmt.Sprintf("%s/%s/media", instagramGraphBase, accountID)
	return graphPost(ctx, url, payload)
}

func (c *InstagramClient) createCarouselContainer(ctx context.Context, accountID string, post *models.PostRecord, accessToken string) (string, error) {
	children := make([]string, 0, len(post.MediaRefs))
	for _, ref := range post.MediaRefs {
		childID, err := c.createContainer(ctx, accountID, map[string]interface{}{
			"image_url":        ref,
			"is_carousel_item": true,
			"access_token":     accessToken,
		})
		if err != nil {
			return "", fmt.Errorf("carousel item: %w", err)
		}
		children = append(children, childID)
	}

	return c.createContainer(ctx, accountID, map[string]interface{}{
		"media_type":   "CAROUSEL",
		"children":     children,
		"caption":      post.Caption,
		"access_token": accessToken,
	})
}

func (c *InstagramClient) publishContainer(ctx context.Context, accountID, containerID, accessToken string) (string, error) {
	url := fmt.Sprintf("%s/%s/media_publish", instagramGraphBase, accountID)
	return graphPost(ctx, url, map[string]interface{}{
		"creation_id":  containerID,
		"access_token": accessToken,
	})
}

// RefreshToken extends an Instagram long-lived token before it lapses.
func (c *InstagramClient) RefreshToken(ctx context.Context, account *models.SocialAccount) (string, string, time.Time, error) {
	accessToken, err := utils.Decrypt(account.AccessToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return "", "", time.Time{}, err
	}

	url := fmt.Sprintf(
		"https://graph.instagram.com/refresh_access_token?grant_type=ig_refresh_token&access_token=%s",
		accessToken,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", time.Time{}, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", time.Time{}, err
	}
	defer resp.Body.Close()

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", time.Time{}, err
	}
	if result.AccessToken == "" {
		return "", "", time.Time{}, errors.New("no access token returned from Instagram")
	}

	expiresAt := time.Now().Add(time.Second * time.Duration(result.ExpiresIn))

	encrypted, err := utils.Encrypt([]byte(result.AccessToken), []byte(c.cfg.SecretKey))
	if err != nil {
		return "", "", time.Time{}, err
	}

	return encrypted, encrypted, expiresAt, nil
}

// FacebookClient publishes to a Facebook Page using a page access token.
type FacebookClient struct {
	cfg config.Config
}

func NewFacebookClient(cfg config.Config) *FacebookClient {
	return &FacebookClient{cfg: cfg}
}

func (c *FacebookClient) Platform() string { return ChannelFacebook }

func (c *FacebookClient) Publish(ctx context.Context, post *models.PostRecord, account *models.SocialAccount) (string, error) {
	accessToken, err := utils.Decrypt(account.AccessToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	if len(post.MediaRefs) == 0 {
		// Text-only posts go straight to the page feed.
		url := fmt.Sprintf("%s/%s/feed", graphAPIBase, account.AccountID)
		return graphPost(ctx, url, map[string]interface{}{
			"message":      post.Caption,
			"access_token": accessToken,
		})
	}

	switch post.ContentType {
	case models.ContentTypeImage:
		url := fmt.Sprintf("%s/%s/photos", graphAPIBase, account.AccountID)
		return graphPost(ctx, url, map[string]interface{}{
			"url":          post.MediaRefs[0],
			"message":      post.Caption,
			"access_token": accessToken,
		})
	case models.ContentTypeVideo:
		url := fmt.Sprintf("%s/%s/videos", graphAPIBase, account.AccountID)
		return graphPost(ctx, url, map[string]interface{}{
			"file_url":     post.MediaRefs[0],
			"description":  post.Caption,
			"access_token": accessToken,
		})
	case models.ContentTypeCarousel:
		return c.publishCarousel(ctx, account.AccountID, post, accessToken)
	default:
		return "", fmt.Errorf("facebook does not support content type %q", post.ContentType)
	}
}

func (c *FacebookClient) publishCarousel(ctx context.Context, pageID string, post *models.PostRecord, accessToken string) (string, error) {
	attached := make([]map[string]string, 0, len(post.MediaRefs))
	for _, ref := range post.MediaRefs {
		photoID, err := graphPost(ctx, fmt.Sprintf("%s/%s/photos", graphAPIBase, pageID), map[string]interface{}{
			"url":          ref,
			"published":    false,
			"access_token": accessToken,
		})
		if err != nil {
			return "", fmt.Errorf("carousel photo: %w", err)
		}
		attached = append(attached, map[string]string{"media_fbid": photoID})
	}

	return graphPost(ctx, fmt.Sprintf("%s/%s/feed", graphAPIBase, pageID), map[string]interface{}{
		"message":        post.Caption,
		"attached_media": attached,
		"access_token":   accessToken,
	})
}

// RefreshToken exchanges the current token for a fresh long-lived one.
func (c *FacebookClient) RefreshToken(ctx context.Context, account *models.SocialAccount) (string, string, time.Time, error) {
	accessToken, err := utils.Decrypt(account.AccessToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return "", "", time.Time{}, err
	}

	url := fmt.Sprintf(
		"%s/oauth/access_token?grant_type=fb_exchange_token&client_secret=%s&fb_exchange_token=%s",
		graphAPIBase,
		c.cfg.FacebookClientSecret,
		accessToken,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", time.Time{}, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", time.Time{}, err
	}
	defer resp.Body.Close()

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", time.Time{}, err
	}
	if result.AccessToken == "" {
		return "", "", time.Time{}, errors.New("no access token returned from Facebook")
	}

	expiresAt := time.Now().Add(time.Second * time.Duration(result.ExpiresIn))

	encrypted, err := utils.Encrypt([]byte(result.AccessToken), []byte(c.cfg.SecretKey))
	if err != nil {
		return "", "", time.Time{}, err
	}

	return encrypted, encrypted, expiresAt, nil
}

func graphPost(ctx context.Context, url string, payload map[string]interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var ge graphError
		if err := json.Unmarshal(respBody, &ge); err == nil && ge.Error.Message != "" {
			return "", fmt.Errorf("graph API error: %s (code %d)", ge.Error.Message, ge.Error.Code)
		}
		return "", fmt.Errorf("unexpected status code from graph API: %d", resp.StatusCode)
	}

	var result struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	if result.PostID != "" {
		return result.PostID, nil
	}
	if result.ID == "" {
		return "", errors.New("no id returned from graph API")
	}
	return result.ID, nil
}
