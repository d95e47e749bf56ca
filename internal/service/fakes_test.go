package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/publisher"
)

// memPostRecordRepo is an in-memory PostRecordRepository. ClaimPublishing
// uses the same compare-and-set semantics as the SQL conditional update, so
// race tests against it exercise the real claim contract.
type memPostRecordRepo struct {
	mu    sync.Mutex
	posts map[string]*models.PostRecord
}

func newMemPostRecordRepo() *memPostRecordRepo {
	return &memPostRecordRepo{posts: make(map[string]*models.PostRecord)}
}

func clonePost(p *models.PostRecord) *models.PostRecord {
	cp := *p
	cp.Channels = append([]string(nil), p.Channels...)
	cp.MediaRefs = append([]string(nil), p.MediaRefs...)
	cp.PerChannelResults = append([]models.ChannelResult(nil), p.PerChannelResults...)
	if p.ScheduledAt != nil {
		t := *p.ScheduledAt
		cp.ScheduledAt = &t
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		cp.PublishedAt = &t
	}
	return &cp
}

func (r *memPostRecordRepo) Create(ctx context.Context, tx *sql.Tx, post *models.PostRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *memPostRecordRepo) GetByID(ctx context.Context, id string) (*models.PostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(p), nil
}

func (r *memPostRecordRepo) ListByClientID(ctx context.Context, clientID string, limit int) ([]*models.PostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PostRecord
	for _, p := range r.posts {
		if p.ClientID == clientID {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memPostRecordRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.PostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PostRecord
	for _, p := range r.posts {
		if p.Status == models.StatusScheduled && p.ScheduledAt != nil && !p.ScheduledAt.After(now) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(*out[j].ScheduledAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memPostRecordRepo) ClaimPublishing(ctx context.Context, id, expectedStatus string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.Status != expectedStatus {
		return false, nil
	}
	p.Status = models.StatusPublishing
	return true, nil
}

func (r *memPostRecordRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time, results []models.ChannelResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.posts[id]
	p.Status = models.StatusPublished
	p.PublishedAt = &publishedAt
	p.ErrorMessage = ""
	p.PerChannelResults = append([]models.ChannelResult(nil), results...)
	return nil
}

func (r *memPostRecordRepo) MarkFailed(ctx context.Context, id, errorMessage string, results []models.ChannelResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.posts[id]
	p.Status = models.StatusFailed
	p.ErrorMessage = errorMessage
	p.PerChannelResults = append([]models.ChannelResult(nil), results...)
	return nil
}

func (r *memPostRecordRepo) SetApproval(ctx context.Context, id, approvalStatus, status, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.posts[id]
	p.ApprovalStatus = approvalStatus
	p.Status = status
	p.RejectionReason = reason
	return nil
}

func (r *memPostRecordRepo) CheckByClientID(ctx context.Context, id, clientID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	return ok && p.ClientID == clientID, nil
}

func (r *memPostRecordRepo) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

type memPostingHistoryRepo struct {
	mu      sync.Mutex
	entries []*models.PostingHistory
}

func (r *memPostingHistoryRepo) Create(ctx context.Context, ph *models.PostingHistory) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ph
	cp.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, &cp)
	return cp.ID, nil
}

func (r *memPostingHistoryRepo) ListByPostID(ctx context.Context, postID string) ([]*models.PostingHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PostingHistory
	for _, e := range r.entries {
		if e.PostID == postID {
			out = append(out, e)
		}
	}
	return out, nil
}

// stubPublisher runs an arbitrary publish function and supports every channel
// unless a channel set is given.
type stubPublisher struct {
	mu        sync.Mutex
	calls     int
	channels  map[string]bool
	publishFn func(post *models.PostRecord) (*publisher.Result, error)
}

func (p *stubPublisher) Publish(ctx context.Context, post *models.PostRecord) (*publisher.Result, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.publishFn == nil {
		return &publisher.Result{OK: true}, nil
	}
	return p.publishFn(post)
}

func (p *stubPublisher) Supports(channel string) bool {
	if p.channels == nil {
		return true
	}
	return p.channels[channel]
}

func (p *stubPublisher) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type enqueueCall struct {
	postID string
	delay  time.Duration
}

type stubEnqueuer struct {
	mu    sync.Mutex
	calls []enqueueCall
	err   error
}

func (e *stubEnqueuer) EnqueuePost(postID string, delay time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.calls = append(e.calls, enqueueCall{postID: postID, delay: delay})
	return nil
}

// allowAllGuard satisfies GuardService without consulting any profile.
type allowAllGuard struct {
	accessErr   error
	approverErr error
}

func (g *allowAllGuard) CheckAccess(ctx context.Context, actorID, clientID string) error {
	return g.accessErr
}

func (g *allowAllGuard) CheckApprover(ctx context.Context, actorID string) error {
	return g.approverErr
}

type memUserProfileRepo struct {
	profiles map[string]*models.UserProfile
}

func (r *memUserProfileRepo) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	return r.profiles[userID], nil
}

type memAreaAssignmentRepo struct {
	assignments []models.AreaAssignment
}

func (r *memAreaAssignmentRepo) HasAreaForClient(ctx context.Context, userID, clientID string, areas []string) (bool, error) {
	for _, a := range r.assignments {
		if a.UserID != userID || a.ClientID != clientID {
			continue
		}
		for _, area := range areas {
			if a.Area == area {
				return true, nil
			}
		}
	}
	return false, nil
}
