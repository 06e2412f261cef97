package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-comments-backend/internal/domain"
	"github.com/tbourn/go-comments-backend/internal/ratelimit"
)

func seedComment(t *testing.T, svc *CommentService, chapter, author, body string) *domain.Comment {
	t.Helper()
	c, err := svc.Submit(context.Background(), submit(chapter, author, body))
	if err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return c
}

func TestReaction_ToggleLifecycle(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "author", false, "")
	seedUser(t, db, "voter", false, "")
	comments := newSvc(db)
	svc := &ReactionService{DB: db}
	ctx := context.Background()

	c := seedComment(t, comments, "ch1", "author", "react to me")

	// none -> like
	sum, err := svc.Set(ctx, c.ID, "voter", domain.ReactionLike)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if sum.Likes != 1 || sum.Dislikes != 0 || sum.UserReaction != domain.ReactionLike {
		t.Fatalf("after like: %+v", sum)
	}

	// like -> like removes it (toggle off)
	sum, err = svc.Set(ctx, c.ID, "voter", domain.ReactionLike)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if sum.Likes != 0 || sum.UserReaction != "" {
		t.Fatalf("after toggle off: %+v", sum)
	}

	// toggling twice lands back where it started
	if _, err = svc.Set(ctx, c.ID, "voter", domain.ReactionLike); err != nil {
		t.Fatalf("re-like: %v", err)
	}
	sum, err = svc.Set(ctx, c.ID, "voter", domain.ReactionLike)
	if err != nil {
		t.Fatalf("re-toggle: %v", err)
	}
	if sum.Likes != 0 || sum.Dislikes != 0 || sum.UserReaction != "" {
		t.Fatalf("double toggle must be a no-op overall: %+v", sum)
	}
}

func TestReaction_SwitchIsExclusive(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "author", false, "")
	seedUser(t, db, "voter", false, "")
	comments := newSvc(db)
	svc := &ReactionService{DB: db}
	ctx := context.Background()

	c := seedComment(t, comments, "ch1", "author", "pick a side")

	if _, err := svc.Set(ctx, c.ID, "voter", domain.ReactionLike); err != nil {
		t.Fatalf("like: %v", err)
	}
	sum, err := svc.Set(ctx, c.ID, "voter", domain.ReactionDislike)
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if sum.Likes != 0 || sum.Dislikes != 1 || sum.UserReaction != domain.ReactionDislike {
		t.Fatalf("switch must replace, never stack: %+v", sum)
	}

	var n int64
	if err := db.Model(&domain.Reaction{}).Where("comment_id = ? AND user_id = ?", c.ID, "voter").Count(&n).Error; err != nil {
		t.Fatalf("count reaction rows: %v", err)
	}
	if n != 1 {
		t.Fatalf("at most one reaction row per (comment,user), got %d", n)
	}
}

func TestReaction_MultipleVoters(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "author", false, "")
	seedUser(t, db, "v1", false, "")
	seedUser(t, db, "v2", false, "")
	seedUser(t, db, "v3", false, "")
	comments := newSvc(db)
	svc := &ReactionService{DB: db}
	ctx := context.Background()

	c := seedComment(t, comments, "ch1", "author", "popular")

	if _, err := svc.Set(ctx, c.ID, "v1", domain.ReactionLike); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Set(ctx, c.ID, "v2", domain.ReactionLike); err != nil {
		t.Fatal(err)
	}
	sum, err := svc.Set(ctx, c.ID, "v3", domain.ReactionDislike)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Likes != 2 || sum.Dislikes != 1 || sum.UserReaction != domain.ReactionDislike {
		t.Fatalf("aggregate across voters: %+v", sum)
	}
}

func TestReaction_Validation(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "author", false, "")
	seedUser(t, db, "voter", false, "")
	comments := newSvc(db)
	svc := &ReactionService{DB: db}
	ctx := context.Background()

	c := seedComment(t, comments, "ch1", "author", "target")

	if _, err := svc.Set(ctx, c.ID, "voter", "love"); !errors.Is(err, ErrInvalidReaction) {
		t.Fatalf("expected ErrInvalidReaction, got %v", err)
	}
	if _, err := svc.Set(ctx, c.ID, "", domain.ReactionLike); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Set(ctx, "missing", "voter", domain.ReactionLike); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}

func TestReaction_BannedUser(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "author", false, "")
	seedUser(t, db, "banned", true, "")
	comments := newSvc(db)
	svc := &ReactionService{DB: db}

	c := seedComment(t, comments, "ch1", "author", "target")

	_, err := svc.Set(context.Background(), c.ID, "banned", domain.ReactionLike)
	if !errors.Is(err, ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended, got %v", err)
	}
}

func TestReaction_RateLimited(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "author", false, "")
	seedUser(t, db, "voter", false, "")
	comments := newSvc(db)
	svc := &ReactionService{DB: db, Limiter: ratelimit.NewMemory(2, time.Minute)}
	ctx := context.Background()

	a := seedComment(t, comments, "ch1", "author", "a")
	b := seedComment(t, comments, "ch1", "author", "b")
	c := seedComment(t, comments, "ch1", "author", "c")

	if _, err := svc.Set(ctx, a.ID, "voter", domain.ReactionLike); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Set(ctx, b.ID, "voter", domain.ReactionLike); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Set(ctx, c.ID, "voter", domain.ReactionLike); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}
