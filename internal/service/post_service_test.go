package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valleops/postpilot/internal/models"
)

func TestListPostsNewestFirstCapped(t *testing.T) {
	ctx := context.Background()
	repo := newMemPostRecordRepo()
	svc := NewPostService(repo, &allowAllGuard{})

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		post := &models.PostRecord{
			ID:        fmt.Sprintf("post-%03d", i),
			ClientID:  "acme",
			Status:    models.StatusDraft,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, nil, post))
	}

	posts, err := svc.ListPosts(ctx, "admin-1", "acme")
	require.NoError(t, err)
	assert.Len(t, posts, 100)
	assert.Equal(t, "post-119", posts[0].ID)
	assert.True(t, posts[0].CreatedAt.After(posts[len(posts)-1].CreatedAt))

	_, err = svc.ListPosts(ctx, "admin-1", "")
	assert.True(t, IsValidationError(err))
}

func TestGetPost(t *testing.T) {
	ctx := context.Background()
	repo := newMemPostRecordRepo()
	svc := NewPostService(repo, &allowAllGuard{})

	require.NoError(t, repo.Create(ctx, nil, &models.PostRecord{ID: "p1", ClientID: "acme"}))

	post, err := svc.GetPost(ctx, "admin-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)

	_, err = svc.GetPost(ctx, "admin-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemovePost(t *testing.T) {
	ctx := context.Background()
	repo := newMemPostRecordRepo()
	svc := NewPostService(repo, &allowAllGuard{})

	require.NoError(t, repo.Create(ctx, nil, &models.PostRecord{ID: "p1", ClientID: "acme", Status: models.StatusDraft}))
	require.NoError(t, repo.Create(ctx, nil, &models.PostRecord{ID: "p2", ClientID: "acme", Status: models.StatusPublishing}))

	require.NoError(t, svc.RemovePost(ctx, "admin-1", "p1"))
	gone, _ := repo.GetByID(ctx, "p1")
	assert.Nil(t, gone)

	// A record mid-flight stays put.
	err := svc.RemovePost(ctx, "admin-1", "p2")
	assert.True(t, IsValidationError(err))

	assert.ErrorIs(t, svc.RemovePost(ctx, "admin-1", "missing"), ErrNotFound)
}

func TestRemovePostAccessDenied(t *testing.T) {
	ctx := context.Background()
	repo := newMemPostRecordRepo()
	guard := &allowAllGuard{accessErr: &AuthorizationError{Reason: "no assignment"}}
	svc := NewPostService(repo, guard)

	require.NoError(t, repo.Create(ctx, nil, &models.PostRecord{ID: "p1", ClientID: "acme", Status: models.StatusDraft}))

	err := svc.RemovePost(ctx, "outsider", "p1")
	assert.True(t, IsAuthorizationError(err))

	still, _ := repo.GetByID(ctx, "p1")
	assert.NotNil(t, still)
}
