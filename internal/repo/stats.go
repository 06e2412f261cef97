// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-comments-backend/internal/domain"
)

// CommentStats returns aggregate metadata for a chapter's visible comments:
// the total number of rows and the maximum UpdatedAt timestamp among those
// rows. UpdatedAt moves when moderation flips the soft-delete flag, so the
// pair (count, maxUpdatedAt) changes whenever the rendered tree would.
//
// When the chapter has no visible comments, the returned count is 0 and
// maxUpdatedAt is nil.
func CommentStats(ctx context.Context, db *gorm.DB, chapterID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("chapter_id = ? AND is_deleted = ?", chapterID, false)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
