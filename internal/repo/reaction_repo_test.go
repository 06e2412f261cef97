package repo

import (
	"context"
	"testing"

	"github.com/tbourn/go-comments-backend/internal/domain"
)

func TestReactionCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := mustCreate(t, db, "ch1", "author", "body", nil)

	if _, err := GetReaction(ctx, db, c.ID, "u1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := CreateReaction(ctx, db, c.ID, "u1", domain.ReactionLike); err != nil {
		t.Fatalf("create: %v", err)
	}
	r, err := GetReaction(ctx, db, c.ID, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r.Type != domain.ReactionLike {
		t.Fatalf("type: %q", r.Type)
	}

	if err := UpdateReactionType(ctx, db, r.ID, domain.ReactionDislike); err != nil {
		t.Fatalf("update: %v", err)
	}
	likes, dislikes, err := CountForComment(ctx, db, c.ID)
	if err != nil || likes != 0 || dislikes != 1 {
		t.Fatalf("counts after switch: likes=%d dislikes=%d err=%v", likes, dislikes, err)
	}

	if err := DeleteReaction(ctx, db, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	likes, dislikes, err = CountForComment(ctx, db, c.ID)
	if err != nil || likes != 0 || dislikes != 0 {
		t.Fatalf("counts after delete: likes=%d dislikes=%d err=%v", likes, dislikes, err)
	}
}

func TestCreateReaction_UniquePerUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := mustCreate(t, db, "ch1", "author", "body", nil)

	if err := CreateReaction(ctx, db, c.ID, "u1", domain.ReactionLike); err != nil {
		t.Fatalf("first: %v", err)
	}
	err := CreateReaction(ctx, db, c.ID, "u1", domain.ReactionDislike)
	if err == nil {
		t.Fatal("second reaction for the same (comment,user) must violate the unique index")
	}
	if !IsDuplicateErr(err) {
		t.Fatalf("IsDuplicateErr must recognize the violation: %v", err)
	}
}

func TestReactionsCascadeWithComment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := mustCreate(t, db, "ch1", "author", "body", nil)

	if err := CreateReaction(ctx, db, c.ID, "u1", domain.ReactionLike); err != nil {
		t.Fatal(err)
	}
	if err := HardDeleteComment(ctx, db, c.ID); err != nil {
		t.Fatal(err)
	}
	var n int64
	if err := db.Model(&domain.Reaction{}).Where("comment_id = ?", c.ID).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("reaction rows must cascade, %d left", n)
	}
}

func TestAggregateFor(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := mustCreate(t, db, "ch1", "author", "a", nil)
	b := mustCreate(t, db, "ch1", "author", "b", nil)
	quiet := mustCreate(t, db, "ch1", "author", "quiet", nil)

	for _, uid := range []string{"u1", "u2"} {
		if err := CreateReaction(ctx, db, a.ID, uid, domain.ReactionLike); err != nil {
			t.Fatal(err)
		}
	}
	if err := CreateReaction(ctx, db, a.ID, "u3", domain.ReactionDislike); err != nil {
		t.Fatal(err)
	}
	if err := CreateReaction(ctx, db, b.ID, "u1", domain.ReactionDislike); err != nil {
		t.Fatal(err)
	}

	agg, err := AggregateFor(ctx, db, []string{a.ID, b.ID, quiet.ID}, "u1")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	if s := agg[a.ID]; s.Likes != 2 || s.Dislikes != 1 || s.UserReaction != domain.ReactionLike {
		t.Fatalf("comment a: %+v", s)
	}
	if s := agg[b.ID]; s.Likes != 0 || s.Dislikes != 1 || s.UserReaction != domain.ReactionDislike {
		t.Fatalf("comment b: %+v", s)
	}
	// A comment with no reactions simply has no entry; callers read the
	// zero value.
	if s := agg[quiet.ID]; s.Likes != 0 || s.Dislikes != 0 || s.UserReaction != "" {
		t.Fatalf("quiet comment: %+v", s)
	}
}

func TestAggregateFor_AnonymousCaller(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := mustCreate(t, db, "ch1", "author", "a", nil)
	if err := CreateReaction(ctx, db, c.ID, "u1", domain.ReactionLike); err != nil {
		t.Fatal(err)
	}

	agg, err := AggregateFor(ctx, db, []string{c.ID}, "")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if s := agg[c.ID]; s.Likes != 1 || s.UserReaction != "" {
		t.Fatalf("anonymous caller gets counts but no own-reaction: %+v", s)
	}
}

func TestAggregateFor_EmptyInput(t *testing.T) {
	db := newTestDB(t)
	agg, err := AggregateFor(context.Background(), db, nil, "u1")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(agg) != 0 {
		t.Fatalf("expected empty map, got %v", agg)
	}
}
