// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Comment
// model: the comment store behind the submission pipeline, the tree read
// path, and the moderation console.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a comment (or a referenced parent) is not found, functions return
//     ErrNotFound (an alias of gorm.ErrRecordNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Ordering contract: ListForChapter returns rows by created_at ascending
// (ties broken by id). The tree builder relies on this order and performs no
// re-sort of its own.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-comments-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateComment inserts a new comment row for chapterID authored by authorID.
// The body is stored as given (validation/trimming happens in the service
// layer) and originIP is recorded for moderation use only.
//
// When parentID is non-nil it must resolve to an existing comment on the
// same chapter; otherwise ErrNotFound is returned and nothing is inserted.
// The existence check and the insert run in one transaction so a concurrent
// hard-delete of the parent cannot slip a child in between.
func CreateComment(ctx context.Context, db *gorm.DB, chapterID, authorID, body, originIP string, parentID *string) (*domain.Comment, error) {
	c := &domain.Comment{
		ID:        uuid.NewString(),
		ChapterID: chapterID,
		AuthorID:  authorID,
		ParentID:  parentID,
		Body:      body,
		OriginIP:  originIP,
		IsDeleted: false,
		CreatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			var n int64
			if err := tx.Model(&domain.Comment{}).
				Where("id = ? AND chapter_id = ?", *parentID, chapterID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
		}
		return tx.Create(c).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetComment fetches a comment by ID, or ErrNotFound if missing. Soft-deleted
// rows are returned as well; callers check IsDeleted when it matters.
func GetComment(ctx context.Context, db *gorm.DB, id string) (*domain.Comment, error) {
	var c domain.Comment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListForChapter returns all comments of a chapter ordered by created_at
// ascending (oldest first), excluding soft-deleted rows unless includeDeleted
// is set. This ordering is the contract the tree builder relies on for
// deterministic sibling order.
func ListForChapter(ctx context.Context, db *gorm.DB, chapterID string, includeDeleted bool) ([]domain.Comment, error) {
	var out []domain.Comment
	q := db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("created_at ASC, id ASC")
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	err := q.Find(&out).Error
	return out, err
}

// SetCommentDeleted flips the soft-delete flag on a single comment. The
// operation is idempotent: setting an already-set flag succeeds without
// additional effect. Returns ErrNotFound when the comment does not exist.
func SetCommentDeleted(ctx context.Context, db *gorm.DB, id string, deleted bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		Update("is_deleted", deleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HardDeleteComment permanently removes a comment row. It does NOT cascade to
// children: their parent_id now points at a missing row and the tree builder
// promotes them to top level. Reactions on the deleted comment are removed by
// the FK cascade. Returns ErrNotFound when the comment does not exist.
func HardDeleteComment(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteByIP soft-deletes every comment, across all chapters, whose
// origin IP matches. Returns the number of rows affected. Matching zero rows
// is not an error; a moderator purging an IP that already went quiet is a
// legitimate no-op.
func SoftDeleteByIP(ctx context.Context, db *gorm.DB, ip string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("origin_ip = ? AND is_deleted = ?", ip, false).
		Update("is_deleted", true)
	return res.RowsAffected, res.Error
}

// SoftDeleteByAuthor soft-deletes every comment by the given author, across
// all chapters. Returns the number of rows affected.
func SoftDeleteByAuthor(ctx context.Context, db *gorm.DB, authorID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("author_id = ? AND is_deleted = ?", authorID, false).
		Update("is_deleted", true)
	return res.RowsAffected, res.Error
}

// ModerationFilter narrows ListPage for the moderation console.
type ModerationFilter struct {
	ShowDeleted bool   // include soft-deleted rows
	Search      string // substring match on body (case-insensitive)
	ChapterID   string // restrict to one chapter when non-empty
}

// CountModeration returns the total number of comments matching the filter.
func CountModeration(ctx context.Context, db *gorm.DB, f ModerationFilter) (int64, error) {
	var total int64
	err := moderationQuery(db.WithContext(ctx), f).Count(&total).Error
	return total, err
}

// ListModerationPage returns a page of comments for the moderation console,
// newest first (moderators review recent activity, unlike the reader-facing
// ascending tree order).
func ListModerationPage(ctx context.Context, db *gorm.DB, f ModerationFilter, offset, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	err := moderationQuery(db.WithContext(ctx), f).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

func moderationQuery(db *gorm.DB, f ModerationFilter) *gorm.DB {
	q := db.Model(&domain.Comment{})
	if !f.ShowDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("body LIKE ?", "%"+s+"%")
	}
	if f.ChapterID != "" {
		q = q.Where("chapter_id = ?", f.ChapterID)
	}
	return q
}
