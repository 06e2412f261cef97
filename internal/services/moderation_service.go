// Package services – ModerationService
//
// This file implements the administrative operations on comments and user
// profiles: single-comment soft/hard delete and restore, ban and unban, and
// the two mass soft-deletes (by origin IP, by author) used when a ban alone
// is not enough.
//
// Authorization: every operation re-checks the caller's role from the store
// through one requireAdmin gate, never from a cached session claim. Bans do
// not delete content and deletes do not ban; the two are separate explicit
// actions, and moderation writes carry no transactional coupling between
// them.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-comments-backend/internal/domain"
	"github.com/tbourn/go-comments-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBanReason is recorded when an admin bans without giving a reason.
const DefaultBanReason = "Banned by admin"

// ModerationService implements the admin console operations.
type ModerationService struct {
	DB *gorm.DB
}

// requireAdmin loads adminID's profile and verifies the admin role. The
// authorization policy lives here and nowhere else; every exported method
// calls through it first.
func (s *ModerationService) requireAdmin(ctx context.Context, adminID string) error {
	if adminID == "" {
		return ErrUnauthenticated
	}
	p, err := repo.GetProfile(ctx, s.DB, adminID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAdminRequired
		}
		return err
	}
	if p.Role != domain.RoleAdmin {
		return ErrAdminRequired
	}
	return nil
}

// SoftDelete hides a comment. Idempotent: repeating has no further effect.
func (s *ModerationService) SoftDelete(ctx context.Context, adminID, commentID string) error {
	return s.setDeleted(ctx, adminID, commentID, true, "SoftDelete")
}

// Restore makes a soft-deleted comment visible again. Idempotent.
func (s *ModerationService) Restore(ctx context.Context, adminID, commentID string) error {
	return s.setDeleted(ctx, adminID, commentID, false, "Restore")
}

func (s *ModerationService) setDeleted(ctx context.Context, adminID, commentID string, deleted bool, op string) error {
	ctx, span := s.span(ctx, op, commentID)
	defer span.End()

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := repo.SetCommentDeleted(ctx, s.DB, commentID, deleted); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

// HardDelete permanently removes a comment. Children are orphaned, not
// removed; the tree builder surfaces them as roots afterwards.
func (s *ModerationService) HardDelete(ctx context.Context, adminID, commentID string) error {
	ctx, span := s.span(ctx, "HardDelete", commentID)
	defer span.End()

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := repo.HardDeleteComment(ctx, s.DB, commentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

// BanUser marks a profile banned with the given reason (a default is
// recorded when empty). Banning does not touch the user's comments.
func (s *ModerationService) BanUser(ctx context.Context, adminID, userID, reason string) error {
	ctx, span := s.span(ctx, "BanUser", userID)
	defer span.End()

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if reason == "" {
		reason = DefaultBanReason
	}
	if err := repo.SetBanned(ctx, s.DB, userID, true, &reason); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UnbanUser clears the ban flag and reason.
func (s *ModerationService) UnbanUser(ctx context.Context, adminID, userID string) error {
	ctx, span := s.span(ctx, "UnbanUser", userID)
	defer span.End()

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := repo.SetBanned(ctx, s.DB, userID, false, nil); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// DeleteAllByIP soft-deletes every comment whose origin IP matches, across
// all chapters. Used when a disposable-account abuser makes a single ban
// insufficient. Returns the number of comments affected; zero is a valid
// outcome, not an error.
func (s *ModerationService) DeleteAllByIP(ctx context.Context, adminID, ip string) (int64, error) {
	ctx, span := s.span(ctx, "DeleteAllByIP", ip)
	defer span.End()

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return 0, err
	}
	return repo.SoftDeleteByIP(ctx, s.DB, ip)
}

// DeleteAllByAuthor soft-deletes every comment by the given author, across
// all chapters. Typically paired with BanUser.
func (s *ModerationService) DeleteAllByAuthor(ctx context.Context, adminID, userID string) (int64, error) {
	ctx, span := s.span(ctx, "DeleteAllByAuthor", userID)
	defer span.End()

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return 0, err
	}
	return repo.SoftDeleteByAuthor(ctx, s.DB, userID)
}

// ListComments returns one page of comments for the moderation console,
// newest first, with the total for pagination metadata.
func (s *ModerationService) ListComments(ctx context.Context, adminID string, f repo.ModerationFilter, page, pageSize int) ([]domain.Comment, int64, error) {
	ctx, span := s.span(ctx, "ListComments", f.ChapterID)
	defer span.End()

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountModeration(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Comment{}, 0, nil
	}
	items, err := repo.ListModerationPage(ctx, s.DB, f, offset, pageSize)
	return items, total, err
}

func (s *ModerationService) span(ctx context.Context, op, target string) (context.Context, trace.Span) {
	tr := otel.Tracer("services/ModerationService")
	return tr.Start(ctx, op, trace.WithAttributes(attribute.String("target", target)))
}
