// Comment HTTP handlers.
//
// This file exposes REST endpoints for chapter comments:
//   - POST /chapters/{id}/comments   (submit a comment or reply)
//   - GET  /chapters/{id}/comments   (read the nested comment tree)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (including newline and length constraints)
//   - delegate to application services (CommentService)
//   - implement conditional responses (ETag) and idempotency semantics
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// submission exists for (user, chapter, key), the handler returns that
// recorded comment and sets `Idempotency-Replayed: true`.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-comments-backend/internal/domain"
	"github.com/tbourn/go-comments-backend/internal/http/middleware"
	"github.com/tbourn/go-comments-backend/internal/services"
	"github.com/tbourn/go-comments-backend/internal/tree"
)

//
// Service interfaces
//

// CommentService defines the submission and read operations the comment
// endpoints depend on. Implementations must be safe for concurrent use and
// must honor the provided context for cancellation and timeouts.
type CommentService interface {
	// Submit runs the full submission pipeline and persists the comment.
	Submit(ctx context.Context, in services.SubmitInput) (*domain.Comment, error)
	// Replay returns the comment previously recorded for an idempotency key.
	Replay(ctx context.Context, userID, chapterID, key string) (*domain.Comment, error)
	// Tree returns the nested comment tree for a chapter.
	Tree(ctx context.Context, chapterID, callerID string) ([]*tree.Node, error)
	// Stats returns the visible-comment count and latest update time for a
	// chapter, the inputs to the tree's ETag.
	Stats(ctx context.Context, chapterID string) (int64, *time.Time, error)
}

// ReactionService defines reaction toggling for comments.
type ReactionService interface {
	// Set applies (or toggles) userID's reaction on a comment.
	Set(ctx context.Context, commentID, userID, typ string) (domain.ReactionSummary, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for comments, reactions, and moderation.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	commentSvc  CommentService
	reactionSvc ReactionService
	modSvc      ModerationService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(commentSvc CommentService, reactionSvc ReactionService, modSvc ModerationService) *Handlers {
	return &Handlers{commentSvc: commentSvc, reactionSvc: reactionSvc, modSvc: modSvc}
}

// userID extracts the authenticated user id from the Gin context (set by the
// Identity middleware). If absent, it falls back to the "X-User-ID" header
// (tests use it). Anonymous callers yield "".
func userID(c *gin.Context) string {
	if uid := middleware.UserID(c); uid != "" {
		return uid
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return ""
}

//
// DTOs
//

// PostCommentRequest is the JSON payload for submitting a comment.
type PostCommentRequest struct {
	// Body is the comment text. It must be non-empty after trimming.
	Body string `json:"body" binding:"required,min=1" example:"Loved the twist at the end of this chapter."`
	// CaptchaToken is the anti-bot challenge response issued by the widget.
	CaptchaToken string `json:"captcha_token" example:"0.Abc123..."`
	// ParentID, when set, makes this comment a reply to an existing comment
	// on the same chapter.
	ParentID *string `json:"parent_id,omitempty" format:"uuid"`
}

// PostCommentResponse is the JSON envelope for a newly created comment.
type PostCommentResponse struct {
	Comment *domain.Comment `json:"comment"`
}

// ListCommentsResponse wraps the nested comment tree for a chapter.
type ListCommentsResponse struct {
	Comments []*tree.Node `json:"comments"`
}

// Pagination carries page metadata for moderation listings.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeBody normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeBody(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

//
// Handlers
//

// PostComment godoc
// @ID          postComment
// @Summary     Submit a comment on a chapter
// @Description Runs the full submission pipeline (captcha, auth, ban check, rate
// @Description limit, validation) and persists the comment. Supports idempotency
// @Description via the Idempotency-Key header (same key → same result).
// @Tags        Comments
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "Authenticated user ID"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true  "Chapter ID"
// @Param       body             body    handlers.PostCommentRequest  true  "Comment payload"
//
// @Success     201  {object}  handlers.PostCommentResponse  "Created comment"
// @Failure     400  {object}  handlers.ErrorResponse        "Bad request / captcha / validation"
// @Failure     401  {object}  handlers.ErrorResponse        "Not logged in"
// @Failure     403  {object}  handlers.ErrorResponse        "Account suspended"
// @Failure     404  {object}  handlers.ErrorResponse        "Parent comment not found"
// @Failure     429  {object}  handlers.ErrorResponse        "Too many comments"
// @Failure     500  {object}  handlers.ErrorResponse        "Internal error"
// @Router      /chapters/{id}/comments [post]
func (h *Handlers) PostComment(c *gin.Context) {
	ctx := c.Request.Context()
	chapterID := c.Param("id")
	if strings.TrimSpace(chapterID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chapter id required")
		return
	}

	var req PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "Comment cannot be empty.")
		return
	}

	// Sanitize + early size cap to fail fast at the edge. The service applies
	// the same limit again after its own trim.
	body := sanitizeBody(req.Body)
	if body == "" {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "Comment cannot be empty.")
		return
	}
	if utf8.RuneCountInString(body) > services.MaxBodyRunes {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed,
			fmt.Sprintf("Comment is too long (max %d characters).", services.MaxBodyRunes))
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – serve the previously recorded comment.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey == "" {
		idemKey = strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
	}
	if idemKey != "" && currentUser != "" {
		if prev, err := h.commentSvc.Replay(ctx, currentUser, chapterID, idemKey); err == nil && prev != nil {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusCreated, PostCommentResponse{Comment: prev})
			return
		}
	}

	created, err := h.commentSvc.Submit(ctx, services.SubmitInput{
		ChapterID:      chapterID,
		UserID:         currentUser,
		Body:           body,
		CaptchaToken:   req.CaptchaToken,
		ParentID:       req.ParentID,
		ClientIP:       c.ClientIP(),
		IdempotencyKey: idemKey,
	})
	if err != nil {
		switch err {
		case services.ErrCaptchaFailed:
			fail(c, http.StatusBadRequest, ErrCodeCaptchaFailed, "Captcha verification failed. Please try again.")
		case services.ErrUnauthenticated:
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "You must be logged in to comment.")
		case services.ErrAccountSuspended:
			fail(c, http.StatusForbidden, ErrCodeAccountSuspended, "Your account has been suspended.")
		case services.ErrRateLimited:
			c.Header("Retry-After", "60")
			fail(c, http.StatusTooManyRequests, ErrCodeRateLimited, "Too many comments. Please wait a moment.")
		case services.ErrEmptyBody:
			fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "Comment cannot be empty.")
		case services.ErrBodyTooLong:
			fail(c, http.StatusBadRequest, ErrCodeValidationFailed,
				fmt.Sprintf("Comment is too long (max %d characters).", services.MaxBodyRunes))
		case services.ErrParentNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "parent comment not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSubmitFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusCreated, PostCommentResponse{Comment: created})
}

// GetComments godoc
// @ID          getComments
// @Summary     Read the comment tree for a chapter
// @Description Returns the full nested comment tree with reaction aggregates.
// @Description Soft-deleted comments are excluded. Supports conditional GETs
// @Description via ETag / If-None-Match.
// @Tags        Comments
// @Produce     json
//
// @Param       id  path  string  true  "Chapter ID"
//
// @Success     200  {object} handlers.ListCommentsResponse
// @Success     304  "Not modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chapters/{id}/comments [get]
func (h *Handlers) GetComments(c *gin.Context) {
	ctx := c.Request.Context()
	chapterID := c.Param("id")
	if strings.TrimSpace(chapterID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chapter id required")
		return
	}

	// ETag pre-check (best effort; a stats failure falls through to a full
	// read). Caller identity is deliberately excluded from the tag, so a
	// user's own reactions may lag one conditional cycle; the frontend busts
	// the cache by omitting If-None-Match after reacting.
	if count, maxTS, err := h.commentSvc.Stats(ctx, chapterID); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"comments:%s:%d:%d"`, chapterID, count, ts)
		c.Header("ETag", etag)
		c.Header("Cache-Control", "private, max-age=0, must-revalidate")
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	roots, err := h.commentSvc.Tree(ctx, chapterID, userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ListCommentsResponse{Comments: roots})
}
