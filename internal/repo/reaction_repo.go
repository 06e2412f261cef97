// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Reaction
// model: the reaction ledger.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving toggle semantics to the services package.
//
// Aggregation contract: AggregateFor answers for any number of comments in at
// most two bulk reads (one for all reactions on the given ids, one filtered
// to the caller), never one query per comment.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-comments-backend/internal/domain"
)

// GetReaction fetches the (commentID, userID) reaction row, or ErrNotFound.
func GetReaction(ctx context.Context, db *gorm.DB, commentID, userID string) (*domain.Reaction, error) {
	var r domain.Reaction
	err := db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReaction inserts a reaction row for the given comment and user.
// The (comment_id, user_id) pair is unique, enforced by the schema.
func CreateReaction(ctx context.Context, db *gorm.DB, commentID, userID, typ string) error {
	r := &domain.Reaction{
		ID:        uuid.NewString(),
		CommentID: commentID,
		UserID:    userID,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(r).Error
}

// UpdateReactionType changes an existing reaction row to the given type.
func UpdateReactionType(ctx context.Context, db *gorm.DB, id, typ string) error {
	res := db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Where("id = ?", id).
		Update("type", typ)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReaction removes a reaction row entirely (toggle-off).
func DeleteReaction(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Reaction{}).Error
}

// CountForComment returns the current {likes, dislikes} totals for one
// comment using a single grouped query.
func CountForComment(ctx context.Context, db *gorm.DB, commentID string) (likes, dislikes int, err error) {
	var rows []struct {
		Type string
		N    int
	}
	err = db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Select("type, COUNT(*) AS n").
		Where("comment_id = ?", commentID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}
	for _, r := range rows {
		switch r.Type {
		case domain.ReactionLike:
			likes = r.N
		case domain.ReactionDislike:
			dislikes = r.N
		}
	}
	return likes, dislikes, nil
}

// AggregateFor returns, for each comment id, the like/dislike totals and,
// when callerID is non-empty, the caller's own reaction. Comments with no
// reactions are simply absent from the map; callers default to zero counts.
//
// At most two queries are issued regardless of len(commentIDs): one over all
// reactions on the ids, one restricted to the caller.
func AggregateFor(ctx context.Context, db *gorm.DB, commentIDs []string, callerID string) (map[string]domain.ReactionSummary, error) {
	out := make(map[string]domain.ReactionSummary, len(commentIDs))
	if len(commentIDs) == 0 {
		return out, nil
	}

	var all []struct {
		CommentID string
		Type      string
	}
	err := db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Select("comment_id, type").
		Where("comment_id IN ?", commentIDs).
		Scan(&all).Error
	if err != nil {
		return nil, err
	}
	for _, r := range all {
		s := out[r.CommentID]
		switch r.Type {
		case domain.ReactionLike:
			s.Likes++
		case domain.ReactionDislike:
			s.Dislikes++
		}
		out[r.CommentID] = s
	}

	if callerID == "" {
		return out, nil
	}

	var mine []struct {
		CommentID string
		Type      string
	}
	err = db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Select("comment_id, type").
		Where("comment_id IN ? AND user_id = ?", commentIDs, callerID).
		Scan(&mine).Error
	if err != nil {
		return nil, err
	}
	for _, r := range mine {
		s := out[r.CommentID]
		s.UserReaction = r.Type
		out[r.CommentID] = s
	}
	return out, nil
}

// IsDuplicateErr reports whether err is a unique-constraint violation, in a
// driver-agnostic way (glebarez/sqlite often returns plain-text errors).
func IsDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
