// Package services – CommentService
//
// This file implements CommentService, the application-level component that
// owns comment submission and the reader-facing tree. Submission is a strict,
// fail-fast pipeline: CAPTCHA verification, authentication, ban check, IP
// rate limit, body validation, persistence, in that order, short-circuiting
// on the first failure so nothing is persisted and no later step consumes
// quota.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// chapter/user identifiers.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-comments-backend/internal/captcha"
	"github.com/tbourn/go-comments-backend/internal/domain"
	"github.com/tbourn/go-comments-backend/internal/ratelimit"
	"github.com/tbourn/go-comments-backend/internal/repo"
	"github.com/tbourn/go-comments-backend/internal/tree"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxBodyRunes is the longest accepted comment body, counted in runes after
// trimming.
const MaxBodyRunes = 2000

// CommentService coordinates comment submission and tree reads.
type CommentService struct {
	DB      *gorm.DB
	Captcha captcha.Verifier
	// Limiter paces submissions per client IP. Keys are namespaced by the
	// service, callers pass the bare IP.
	Limiter ratelimit.Limiter

	// IdempotencyTTL bounds how long a submission idempotency key replays.
	// Zero disables recording.
	IdempotencyTTL time.Duration
}

// SubmitInput carries one submission attempt through the pipeline.
type SubmitInput struct {
	ChapterID    string
	UserID       string // empty when the caller is unauthenticated
	Body         string
	CaptchaToken string
	ParentID     *string
	ClientIP     string
	// IdempotencyKey, when non-empty, records the created comment so a retry
	// with the same key can be replayed instead of re-inserted.
	IdempotencyKey string
}

// Submit runs the submission pipeline and persists the comment on success.
//
// Step order is a contract (each failure short-circuits, nothing persisted):
//  1. CAPTCHA      -> ErrCaptchaFailed
//  2. auth         -> ErrUnauthenticated
//  3. ban check    -> ErrAccountSuspended (rate limit quota NOT consumed)
//  4. rate limit   -> ErrRateLimited (keyed by IP, not user: a second
//     account on the same network gets no fresh budget)
//  5. validation   -> ErrEmptyBody / ErrBodyTooLong
//  6. persistence  -> store errors propagate; missing parent maps to
//     ErrParentNotFound
func (s *CommentService) Submit(ctx context.Context, in SubmitInput) (*domain.Comment, error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("chapter.id", in.ChapterID),
			attribute.String("user.id", in.UserID),
		),
	)
	defer span.End()

	// 1) CAPTCHA. A hung or unreachable verifier counts as failure; the
	// verifier owns its own bounded timeout.
	if err := s.Captcha.Verify(ctx, in.CaptchaToken, in.ClientIP); err != nil {
		return nil, ErrCaptchaFailed
	}

	// 2) Authentication.
	if strings.TrimSpace(in.UserID) == "" {
		return nil, ErrUnauthenticated
	}

	// 3) Ban check, re-read from the store, never trusted from a session
	// claim. A missing profile is not a ban; provisioning is external.
	profile, err := repo.GetProfile(ctx, s.DB, in.UserID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if profile != nil && profile.IsBanned {
		return nil, ErrAccountSuspended
	}

	// 4) Sliding-window rate limit per client IP.
	if s.Limiter != nil {
		ok, err := s.Limiter.Allow(ctx, "comment:"+in.ClientIP)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRateLimited
		}
	}

	// 5) Validation.
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if utf8.RuneCountInString(body) > MaxBodyRunes {
		return nil, ErrBodyTooLong
	}

	// 6) Persistence.
	c, err := repo.CreateComment(ctx, s.DB, in.ChapterID, in.UserID, body, in.ClientIP, in.ParentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}

	// Best-effort idempotency record; a race with a concurrent retry that
	// already recorded the key is not a submission failure.
	if in.IdempotencyKey != "" && s.IdempotencyTTL > 0 {
		if _, err := repo.CreateIdempotency(ctx, s.DB, in.UserID, in.ChapterID, in.IdempotencyKey, c.ID, 201, s.IdempotencyTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			return nil, err
		}
	}
	return c, nil
}

// Replay returns the comment originally created under the given idempotency
// key, or ErrCommentNotFound when no valid record exists (expired, wrong
// scope, or the comment was hard-deleted since).
func (s *CommentService) Replay(ctx context.Context, userID, chapterID, key string) (*domain.Comment, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, chapterID, key, time.Now().UTC())
	if err != nil {
		return nil, ErrCommentNotFound
	}
	c, err := repo.GetComment(ctx, s.DB, rec.CommentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}
	return c, nil
}

// Stats returns the visible-comment count and most recent update time for a
// chapter. The HTTP layer derives the tree's ETag from these, so the pair
// must change whenever the rendered tree would.
func (s *CommentService) Stats(ctx context.Context, chapterID string) (int64, *time.Time, error) {
	return repo.CommentStats(ctx, s.DB, chapterID)
}

// Tree returns the chapter's visible comments as a nested reply tree with
// reaction aggregates attached. callerID may be empty; when present the
// caller's own reaction is included per node.
//
// Reads fan out as: one comment query, two bulk reaction queries, one bulk
// profile query, a constant query count regardless of comment volume.
func (s *CommentService) Tree(ctx context.Context, chapterID, callerID string) ([]*tree.Node, error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "Tree",
		trace.WithAttributes(
			attribute.String("chapter.id", chapterID),
			attribute.String("user.id", callerID),
		),
	)
	defer span.End()

	rows, err := repo.ListForChapter(ctx, s.DB, chapterID, false)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*tree.Node{}, nil
	}

	ids := make([]string, 0, len(rows))
	authorSet := make(map[string]struct{}, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
		authorSet[rows[i].AuthorID] = struct{}{}
	}
	authorIDs := make([]string, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}

	aggregates, err := repo.AggregateFor(ctx, s.DB, ids, callerID)
	if err != nil {
		return nil, err
	}
	authors, err := repo.GetProfiles(ctx, s.DB, authorIDs)
	if err != nil {
		return nil, err
	}

	return tree.Build(rows, aggregates, authors), nil
}
