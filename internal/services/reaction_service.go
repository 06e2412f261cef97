// Package services – ReactionService
//
// This file implements the ReactionService, which governs like/dislike state
// on comments. A user holds at most one reaction per comment; setting the
// same type again clears it, setting the other type replaces it. The service
// returns the fresh aggregate alongside the caller's resulting reaction so
// clients can render without a second round trip.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-comments-backend/internal/domain"
	"github.com/tbourn/go-comments-backend/internal/ratelimit"
	"github.com/tbourn/go-comments-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReactionService implements the use-cases around comment reactions.
type ReactionService struct {
	DB *gorm.DB
	// Limiter paces reaction mutations per user (reactions are cheap to spam
	// from one account, unlike comments which are paced by IP). Optional.
	Limiter ratelimit.Limiter
}

// Set applies userID's reaction of the given type to commentID and returns
// the resulting aggregate.
//
// Semantics:
//   - no existing row       -> insert; user reaction becomes typ.
//   - existing row same typ -> delete (toggle off); user reaction becomes none.
//   - existing row other    -> update in place; user reaction becomes typ.
//
// Validation and guards, in order: reaction type, authentication, ban check,
// per-user rate limit, comment existence. The toggle itself runs in a
// transaction so the read-compare-write on the pair row is atomic.
func (s *ReactionService) Set(ctx context.Context, commentID, userID, typ string) (domain.ReactionSummary, error) {
	tr := otel.Tracer("services/ReactionService")
	ctx, span := tr.Start(ctx, "Set",
		trace.WithAttributes(
			attribute.String("comment.id", commentID),
			attribute.String("user.id", userID),
			attribute.String("reaction.type", typ),
		),
	)
	defer span.End()

	var out domain.ReactionSummary

	if typ != domain.ReactionLike && typ != domain.ReactionDislike {
		return out, ErrInvalidReaction
	}
	if userID == "" {
		return out, ErrUnauthenticated
	}

	profile, err := repo.GetProfile(ctx, s.DB, userID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return out, err
	}
	if profile != nil && profile.IsBanned {
		return out, ErrAccountSuspended
	}

	if s.Limiter != nil {
		ok, err := s.Limiter.Allow(ctx, "reaction:"+userID)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, ErrRateLimited
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetComment(ctx, tx, commentID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		existing, err := repo.GetReaction(ctx, tx, commentID, userID)
		switch {
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return err
		case existing == nil:
			if err := repo.CreateReaction(ctx, tx, commentID, userID, typ); err != nil {
				// A concurrent insert of the same pair lost the race; treat
				// it as the toggle case on retry semantics: report the type
				// we were asked to set.
				if !repo.IsDuplicateErr(err) {
					return err
				}
			}
			out.UserReaction = typ
		case existing.Type == typ:
			if err := repo.DeleteReaction(ctx, tx, existing.ID); err != nil {
				return err
			}
			out.UserReaction = ""
		default:
			if err := repo.UpdateReactionType(ctx, tx, existing.ID, typ); err != nil {
				return err
			}
			out.UserReaction = typ
		}

		likes, dislikes, err := repo.CountForComment(ctx, tx, commentID)
		if err != nil {
			return err
		}
		out.Likes, out.Dislikes = likes, dislikes
		return nil
	})
	if err != nil {
		return domain.ReactionSummary{}, err
	}
	return out, nil
}
