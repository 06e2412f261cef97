package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-comments-backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:commentrepo_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, chapter, author, body string, parentID *string) *domain.Comment {
	t.Helper()
	c, err := CreateComment(context.Background(), db, chapter, author, body, "1.2.3.4", parentID)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

func TestCreateComment_AssignsIDAndTimestamps(t *testing.T) {
	db := newTestDB(t)

	c := mustCreate(t, db, "ch1", "u1", "hello", nil)
	if c.ID == "" {
		t.Fatal("id must be assigned")
	}
	if _, err := uuid.Parse(c.ID); err != nil {
		t.Fatalf("id must be a uuid: %v", err)
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Fatal("timestamps must be set")
	}
}

func TestCreateComment_ParentMustShareChapter(t *testing.T) {
	db := newTestDB(t)
	parent := mustCreate(t, db, "ch1", "u1", "root", nil)

	if _, err := CreateComment(context.Background(), db, "ch2", "u1", "reply", "1.2.3.4", &parent.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-chapter parent must be rejected, got %v", err)
	}
	missing := "nope"
	if _, err := CreateComment(context.Background(), db, "ch1", "u1", "reply", "1.2.3.4", &missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing parent must be rejected, got %v", err)
	}
	if _, err := CreateComment(context.Background(), db, "ch1", "u2", "reply", "1.2.3.4", &parent.ID); err != nil {
		t.Fatalf("same-chapter reply: %v", err)
	}
}

func TestListForChapter_OrderAndVisibility(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		c := mustCreate(t, db, "ch1", "u1", fmt.Sprintf("c%d", i), nil)
		ids = append(ids, c.ID)
		time.Sleep(2 * time.Millisecond)
	}
	mustCreate(t, db, "ch2", "u1", "other chapter", nil)
	if err := SetCommentDeleted(ctx, db, ids[1], true); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	rows, err := ListForChapter(ctx, db, "ch1", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != ids[0] || rows[1].ID != ids[2] {
		t.Fatalf("visible rows in created order, got %+v", rows)
	}

	rows, err = ListForChapter(ctx, db, "ch1", true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("includeDeleted must show all 3, got %d", len(rows))
	}
}

func TestSetCommentDeleted(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := mustCreate(t, db, "ch1", "u1", "body", nil)

	if err := SetCommentDeleted(ctx, db, c.ID, true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := GetComment(ctx, db, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsDeleted {
		t.Fatal("flag must be set")
	}
	if err := SetCommentDeleted(ctx, db, c.ID, false); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := SetCommentDeleted(ctx, db, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: got %v", err)
	}
}

func TestHardDeleteComment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := mustCreate(t, db, "ch1", "u1", "body", nil)

	if err := HardDeleteComment(ctx, db, c.ID); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if _, err := GetComment(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("row must be gone, got %v", err)
	}
	if err := HardDeleteComment(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}

func TestSoftDeleteByIP_CountsOnlyNewlyHidden(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := CreateComment(ctx, db, "ch1", "u1", fmt.Sprintf("s%d", i), "6.6.6.6", nil); err != nil {
			t.Fatal(err)
		}
	}
	mustCreate(t, db, "ch1", "u2", "innocent", nil)

	n, err := SoftDeleteByIP(ctx, db, "6.6.6.6")
	if err != nil || n != 2 {
		t.Fatalf("first purge: n=%d err=%v", n, err)
	}
	n, err = SoftDeleteByIP(ctx, db, "6.6.6.6")
	if err != nil || n != 0 {
		t.Fatalf("already-hidden rows must not be counted again: n=%d err=%v", n, err)
	}
}

func TestModerationQuery(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := mustCreate(t, db, "ch1", "u1", "the quick brown fox", nil)
	time.Sleep(2 * time.Millisecond)
	b := mustCreate(t, db, "ch2", "u1", "lazy dog", nil)
	if err := SetCommentDeleted(ctx, db, a.ID, true); err != nil {
		t.Fatal(err)
	}

	total, err := CountModeration(ctx, db, ModerationFilter{})
	if err != nil || total != 1 {
		t.Fatalf("default count hides deleted: total=%d err=%v", total, err)
	}
	total, err = CountModeration(ctx, db, ModerationFilter{ShowDeleted: true})
	if err != nil || total != 2 {
		t.Fatalf("show-deleted count: total=%d err=%v", total, err)
	}

	rows, err := ListModerationPage(ctx, db, ModerationFilter{ShowDeleted: true}, 0, 10)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != b.ID {
		t.Fatalf("newest first: %+v", rows)
	}

	rows, err = ListModerationPage(ctx, db, ModerationFilter{ShowDeleted: true, Search: "FOX"}, 0, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != a.ID {
		t.Fatalf("case-insensitive body search: %+v", rows)
	}
}
