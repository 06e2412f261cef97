// Reaction HTTP handlers.
//
// This file exposes the reaction toggle endpoint:
//   - PUT /comments/{id}/reaction
//
// A single endpoint covers all three transitions (add, switch, remove):
// sending the caller's current reaction type removes it, sending the other
// type replaces it, and sending a type when none exists creates it. The
// response always carries the fresh aggregate so clients can render counts
// without a follow-up read.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-comments-backend/internal/services"
)

// SetReactionRequest is the JSON payload for toggling a reaction.
type SetReactionRequest struct {
	// Type is the reaction to apply: "like" or "dislike".
	Type string `json:"type" binding:"required" example:"like"`
}

// SetReactionResponse carries the post-toggle aggregate for the comment.
type SetReactionResponse struct {
	CommentID string `json:"comment_id"`
	Likes     int    `json:"likes"`
	Dislikes  int    `json:"dislikes"`
	// UserReaction is the caller's reaction after the toggle: "like",
	// "dislike", or "" when the toggle removed it.
	UserReaction string `json:"user_reaction"`
}

// SetReaction godoc
// @ID          setReaction
// @Summary     Toggle a reaction on a comment
// @Description Applies, switches, or removes the caller's like/dislike on a
// @Description comment and returns the resulting aggregate.
// @Tags        Reactions
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Authenticated user ID"  example(user123)
// @Param       id         path    string  true  "Comment ID (UUID)"      format(uuid)
// @Param       body       body    handlers.SetReactionRequest  true  "Reaction payload"
//
// @Success     200  {object}  handlers.SetReactionResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid reaction type"
// @Failure     401  {object}  handlers.ErrorResponse  "Not logged in"
// @Failure     403  {object}  handlers.ErrorResponse  "Account suspended"
// @Failure     404  {object}  handlers.ErrorResponse  "Comment not found"
// @Failure     429  {object}  handlers.ErrorResponse  "Too many reactions"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /comments/{id}/reaction [put]
func (h *Handlers) SetReaction(c *gin.Context) {
	ctx := c.Request.Context()
	commentID := c.Param("id")

	var req SetReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `reaction type must be "like" or "dislike"`)
		return
	}

	sum, err := h.reactionSvc.Set(ctx, commentID, userID(c), req.Type)
	if err != nil {
		switch err {
		case services.ErrInvalidReaction:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, `reaction type must be "like" or "dislike"`)
		case services.ErrUnauthenticated:
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "You must be logged in to comment.")
		case services.ErrAccountSuspended:
			fail(c, http.StatusForbidden, ErrCodeAccountSuspended, "Your account has been suspended.")
		case services.ErrRateLimited:
			c.Header("Retry-After", "60")
			fail(c, http.StatusTooManyRequests, ErrCodeRateLimited, "Too many requests. Please wait a moment.")
		case services.ErrCommentNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "comment not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, SetReactionResponse{
		CommentID:    commentID,
		Likes:        sum.Likes,
		Dislikes:     sum.Dislikes,
		UserReaction: sum.UserReaction,
	})
}
