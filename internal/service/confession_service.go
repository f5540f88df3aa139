package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/confessit/backend/internal/models"
	"github.com/confessit/backend/internal/moderation"
	"github.com/confessit/backend/internal/ratelimit"
	"github.com/confessit/backend/internal/repositories"
)

// ConfessionService orchestrates the content filter, the submission
// cooldown, and the confession store. It owns the error taxonomy; all
// store errors are translated before leaving this package.
type ConfessionService struct {
	repo     repositories.ConfessionRepository
	filter   *moderation.Filter
	limiter  *ratelimit.CooldownLimiter
	adminKey string
	now      func() time.Time
}

// NewConfessionService creates a new ConfessionService
func NewConfessionService(
	repo repositories.ConfessionRepository,
	filter *moderation.Filter,
	limiter *ratelimit.CooldownLimiter,
	adminKey string,
) *ConfessionService {
	return &ConfessionService{
		repo:     repo,
		filter:   filter,
		limiter:  limiter,
		adminKey: adminKey,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates, moderates, and rate-limits a new confession before
// storing it. The moderation gate runs synchronously, so an unclean
// confession is never persisted.
func (s *ConfessionService) Submit(ctx context.Context, req models.CreateConfessionRequest, clientIP string) (string, error) {
	text := strings.TrimSpace(req.Text)
	author := strings.TrimSpace(req.Author)
	displayName := strings.TrimSpace(req.DisplayName)

	if text == "" || author == "" || displayName == "" {
		return "", ErrValidation
	}
	if !s.filter.IsClean(text) || !s.filter.IsClean(displayName) {
		return "", ErrModeration
	}
	if allowed, retry := s.limiter.TryAcquire(clientIP); !allowed {
		return "", &RateLimitError{RetryAfter: retry}
	}

	return s.repo.CreateConfession(ctx, &models.Confession{
		Text:        text,
		Author:      author,
		DisplayName: displayName,
		CreatedAt:   s.now(),
	})
}

// List returns all confessions sorted by likes descending. The summaries
// never include the hidden author.
func (s *ConfessionService) List(ctx context.Context) ([]models.ConfessionSummary, error) {
	return s.repo.ListConfessions(ctx)
}

// Vote records a like or dislike from clientIP on the confession. An IP
// may cast each vote kind at most once per confession; the pre-check gives
// a friendly conflict error and the store's atomic update closes the race
// two simultaneous votes would otherwise win together.
func (s *ConfessionService) Vote(ctx context.Context, id string, kind repositories.VoteKind, clientIP string) error {
	if !s.repo.IsValidID(id) {
		return ErrInvalidID
	}

	state, err := s.repo.GetVoteState(ctx, id)
	if err != nil {
		return s.translate(err)
	}
	ips := state.LikedIPs
	if kind == repositories.VoteDislike {
		ips = state.DislikedIPs
	}
	for _, voted := range ips {
		if voted == clientIP {
			return ErrAlreadyVoted
		}
	}

	return s.translate(s.repo.ApplyVote(ctx, id, kind, clientIP))
}

// Delete removes a confession and all its comments. It succeeds whether or
// not the confession still exists, so retried deletes are harmless.
func (s *ConfessionService) Delete(ctx context.Context, id, suppliedKey string) error {
	if !s.repo.IsValidID(id) {
		return ErrInvalidID
	}
	if subtle.ConstantTimeCompare([]byte(suppliedKey), []byte(s.adminKey)) != 1 {
		return ErrUnauthorized
	}
	err := s.repo.DeleteConfession(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	return err
}

// AddComment appends a comment with a server-assigned timestamp.
func (s *ConfessionService) AddComment(ctx context.Context, id, text string) error {
	if !s.repo.IsValidID(id) {
		return ErrInvalidID
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrValidation
	}
	return s.translate(s.repo.AppendComment(ctx, id, models.Comment{
		Text:      text,
		CreatedAt: s.now(),
	}))
}

// ListComments returns a confession's comments ordered by creation time
// ascending. A nonexistent confession yields an empty list rather than an
// error.
func (s *ConfessionService) ListComments(ctx context.Context, id string) ([]models.Comment, error) {
	if !s.repo.IsValidID(id) {
		return nil, ErrInvalidID
	}
	return s.repo.ListComments(ctx, id)
}

func (s *ConfessionService) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrAlreadyVoted):
		return ErrAlreadyVoted
	default:
		return err
	}
}
