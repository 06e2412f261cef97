// Moderation HTTP handlers.
//
// This file exposes the admin-only moderation surface:
//   - GET    /admin/comments                 (paginated listing with filters)
//   - DELETE /admin/comments/{id}            (soft delete)
//   - POST   /admin/comments/{id}/restore    (undo soft delete)
//   - DELETE /admin/comments/{id}/purge      (hard delete)
//   - POST   /admin/users/{id}/ban
//   - POST   /admin/users/{id}/unban
//   - POST   /admin/purge                    (mass soft delete by IP or author)
//
// Authorization happens in the service layer: every operation re-reads the
// caller's role from the store, so a demoted admin loses access immediately.
// Handlers only translate outcomes into status codes.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-comments-backend/internal/domain"
	"github.com/tbourn/go-comments-backend/internal/repo"
	"github.com/tbourn/go-comments-backend/internal/services"
	"github.com/tbourn/go-comments-backend/internal/sysutil"
	"github.com/tbourn/go-comments-backend/internal/utils"
)

// ModerationService defines the admin-only operations the moderation
// endpoints depend on. All methods verify the caller's role.
type ModerationService interface {
	SoftDelete(ctx context.Context, adminID, commentID string) error
	Restore(ctx context.Context, adminID, commentID string) error
	HardDelete(ctx context.Context, adminID, commentID string) error
	BanUser(ctx context.Context, adminID, userID, reason string) error
	UnbanUser(ctx context.Context, adminID, userID string) error
	DeleteAllByIP(ctx context.Context, adminID, ip string) (int64, error)
	DeleteAllByAuthor(ctx context.Context, adminID, userID string) (int64, error)
	ListComments(ctx context.Context, adminID string, f repo.ModerationFilter, page, pageSize int) ([]domain.Comment, int64, error)
}

//
// DTOs
//

// ModerationComment is the admin view of a comment row. Unlike the public
// tree it is flat, includes soft-deleted rows on request, and exposes the
// origin IP.
type ModerationComment struct {
	ID        string  `json:"id"`
	ChapterID string  `json:"chapter_id"`
	AuthorID  string  `json:"author_id"`
	ParentID  *string `json:"parent_id,omitempty"`
	Body      string  `json:"body"`
	OriginIP  string  `json:"origin_ip"`
	IsDeleted bool    `json:"is_deleted"`
	CreatedAt string  `json:"created_at"`
}

// ListModerationResponse contains a page of comment rows and pagination
// metadata.
type ListModerationResponse struct {
	Comments   []ModerationComment `json:"comments"`
	Pagination Pagination          `json:"pagination"`
}

// BanRequest is the JSON payload for banning a user.
type BanRequest struct {
	// Reason is recorded on the profile; blank falls back to a default.
	Reason string `json:"reason,omitempty" example:"Spamming chapter threads"`
}

// PurgeRequest selects the target of a mass soft delete. Exactly one of IP
// or AuthorID must be set.
type PurgeRequest struct {
	IP       string `json:"ip,omitempty" example:"203.0.113.7"`
	AuthorID string `json:"author_id,omitempty" example:"user123"`
}

// PurgeResponse reports how many comments were hidden.
type PurgeResponse struct {
	Deleted int64 `json:"deleted"`
}

// clampModPagination parses page/page_size from query parameters, applies
// sane defaults and caps, and returns the validated (page, pageSize).
func clampModPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// failModeration maps the shared moderation error outcomes. Returns false
// when err was nil (nothing written).
func failModeration(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	switch err {
	case services.ErrUnauthenticated:
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "You must be logged in to comment.")
	case services.ErrAdminRequired:
		fail(c, http.StatusForbidden, ErrCodeForbidden, "admin role required")
	case services.ErrCommentNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "comment not found")
	case services.ErrUserNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
	return true
}

//
// Handlers
//

// ListModeration godoc
// @ID          listModeration
// @Summary     List comments for moderation
// @Description Returns a flat, newest-first page of comments across all
// @Description chapters. Supports show_deleted, chapter_id, and search filters.
// @Tags        Moderation
// @Produce     json
//
// @Param       X-User-ID     header  string  true   "Admin user ID"
// @Param       page          query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size     query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Param       show_deleted  query   bool    false  "Include soft-deleted comments"
// @Param       chapter_id    query   string  false  "Restrict to one chapter"
// @Param       search        query   string  false  "Case-insensitive body substring"
//
// @Success     200  {object}  handlers.ListModerationResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /admin/comments [get]
func (h *Handlers) ListModeration(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampModPagination(c)

	f := repo.ModerationFilter{
		ShowDeleted: sysutil.IsTruthy(c.Query("show_deleted")),
		ChapterID:   strings.TrimSpace(c.Query("chapter_id")),
		Search:      strings.TrimSpace(c.Query("search")),
	}

	rows, total, err := h.modSvc.ListComments(ctx, userID(c), f, page, pageSize)
	if failModeration(c, err) {
		return
	}

	out := make([]ModerationComment, 0, len(rows))
	for _, r := range rows {
		out = append(out, ModerationComment{
			ID:        r.ID,
			ChapterID: r.ChapterID,
			AuthorID:  r.AuthorID,
			ParentID:  r.ParentID,
			Body:      r.Body,
			OriginIP:  r.OriginIP,
			IsDeleted: r.IsDeleted,
			CreatedAt: r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListModerationResponse{
		Comments: out,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// SoftDeleteComment godoc
// @ID          softDeleteComment
// @Summary     Soft-delete a comment
// @Description Hides the comment from readers. Reversible via restore.
// @Tags        Moderation
// @Param       X-User-ID  header  string  true  "Admin user ID"
// @Param       id         path    string  true  "Comment ID (UUID)"  format(uuid)
// @Success     204  "Hidden"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/comments/{id} [delete]
func (h *Handlers) SoftDeleteComment(c *gin.Context) {
	if failModeration(c, h.modSvc.SoftDelete(c.Request.Context(), userID(c), c.Param("id"))) {
		return
	}
	noContent(c)
}

// RestoreComment godoc
// @ID          restoreComment
// @Summary     Restore a soft-deleted comment
// @Tags        Moderation
// @Param       X-User-ID  header  string  true  "Admin user ID"
// @Param       id         path    string  true  "Comment ID (UUID)"  format(uuid)
// @Success     204  "Restored"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/comments/{id}/restore [post]
func (h *Handlers) RestoreComment(c *gin.Context) {
	if failModeration(c, h.modSvc.Restore(c.Request.Context(), userID(c), c.Param("id"))) {
		return
	}
	noContent(c)
}

// PurgeComment godoc
// @ID          purgeComment
// @Summary     Hard-delete a comment
// @Description Physically removes the row and its reactions. Replies survive
// @Description and are promoted to top level in the public tree.
// @Tags        Moderation
// @Param       X-User-ID  header  string  true  "Admin user ID"
// @Param       id         path    string  true  "Comment ID (UUID)"  format(uuid)
// @Success     204  "Removed"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/comments/{id}/purge [delete]
func (h *Handlers) PurgeComment(c *gin.Context) {
	if failModeration(c, h.modSvc.HardDelete(c.Request.Context(), userID(c), c.Param("id"))) {
		return
	}
	noContent(c)
}

// BanUser godoc
// @ID          banUser
// @Summary     Ban a user from commenting and reacting
// @Tags        Moderation
// @Accept      json
// @Param       X-User-ID  header  string  true   "Admin user ID"
// @Param       id         path    string  true   "User ID to ban"
// @Param       body       body    handlers.BanRequest  false  "Ban payload"
// @Success     204  "Banned"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/users/{id}/ban [post]
func (h *Handlers) BanUser(c *gin.Context) {
	var req BanRequest
	// Body is optional; a bare POST bans with the default reason.
	_ = c.ShouldBindJSON(&req)

	if failModeration(c, h.modSvc.BanUser(c.Request.Context(), userID(c), c.Param("id"), req.Reason)) {
		return
	}
	noContent(c)
}

// UnbanUser godoc
// @ID          unbanUser
// @Summary     Lift a user's ban
// @Tags        Moderation
// @Param       X-User-ID  header  string  true  "Admin user ID"
// @Param       id         path    string  true  "User ID to unban"
// @Success     204  "Unbanned"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/users/{id}/unban [post]
func (h *Handlers) UnbanUser(c *gin.Context) {
	if failModeration(c, h.modSvc.UnbanUser(c.Request.Context(), userID(c), c.Param("id"))) {
		return
	}
	noContent(c)
}

// Purge godoc
// @ID          purgeComments
// @Summary     Mass soft-delete comments by origin IP or author
// @Description Hides every comment matching the selector, across all
// @Description chapters. Exactly one of ip or author_id must be provided.
// @Tags        Moderation
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  true  "Admin user ID"
// @Param       body       body    handlers.PurgeRequest  true  "Purge selector"
// @Success     200  {object}  handlers.PurgeResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /admin/purge [post]
func (h *Handlers) Purge(c *gin.Context) {
	ctx := c.Request.Context()

	var req PurgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ip or author_id required")
		return
	}
	req.IP = strings.TrimSpace(req.IP)
	req.AuthorID = strings.TrimSpace(req.AuthorID)
	if (req.IP == "") == (req.AuthorID == "") {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "exactly one of ip or author_id required")
		return
	}

	var (
		n   int64
		err error
	)
	if req.IP != "" {
		n, err = h.modSvc.DeleteAllByIP(ctx, userID(c), req.IP)
	} else {
		n, err = h.modSvc.DeleteAllByAuthor(ctx, userID(c), req.AuthorID)
	}
	if failModeration(c, err) {
		return
	}

	ok(c, http.StatusOK, PurgeResponse{Deleted: n})
}
