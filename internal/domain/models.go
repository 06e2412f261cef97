// Package domain defines the persistence models for comments, reactions, and
// user profiles. These types are mapped with GORM and form the core data layer
// of the comment backend.
package domain

import "time"

// Reaction types a user may register on a comment. A user holds at most one
// reaction per comment, and repeating the same reaction removes it.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Roles recognized on a user profile. Moderation operations require RoleAdmin.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Comment represents a single comment on a chapter. Comments form a reply
// tree through ParentID; a nil ParentID marks a top-level comment.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - ChapterID: owning chapter; immutable after creation.
//   - AuthorID: owning user; immutable after creation.
//   - ParentID: optional reference to another comment on the same chapter.
//     Deliberately not a foreign-key constraint: hard-deleting a parent must
//     orphan its children rather than cascade or fail, and the tree builder
//     promotes orphans to top level on read.
//   - Body: comment text, trimmed, 1–2000 characters. There is no edit
//     operation; the body is immutable once created.
//   - OriginIP: client IP captured at submission time. Used only by
//     moderation (bulk delete by IP); never author-editable.
//   - IsDeleted: explicit soft-delete flag flipped by moderation. This is a
//     moderation visibility bit, not gorm.DeletedAt; hard delete must remove
//     the row physically and soft-deleted rows stay queryable for review.
//   - CreatedAt: set once at creation; the sole ordering key at every tree
//     level (ascending).
type Comment struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	ChapterID string    `json:"chapter_id" gorm:"type:char(36);not null;index:idx_chapter_comments,priority:1"`
	AuthorID  string    `json:"author_id"  gorm:"type:varchar(64);not null;index"`
	ParentID  *string   `json:"parent_id"  gorm:"type:char(36);index"`
	Body      string    `json:"body"       gorm:"type:text;not null"`
	OriginIP  string    `json:"-"          gorm:"type:varchar(45);index"`
	IsDeleted bool      `json:"is_deleted" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_chapter_comments,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// Reaction records a single user's like/dislike on one comment. The
// (comment_id, user_id) pair is unique: toggling replaces or clears the row,
// it never accumulates.
//
// Reactions are hard state, created, retyped, or deleted outright, never
// soft-deleted. The FK cascade removes them when their comment is
// hard-deleted.
type Reaction struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	CommentID string    `json:"comment_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_reaction_comment_user"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index;uniqueIndex:ux_reaction_comment_user"`
	Type      string    `json:"type"       gorm:"type:varchar(16);not null;check:type IN ('like','dislike')"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Comment is the reacted-to comment. Reactions die with it.
	Comment Comment `json:"-" gorm:"foreignKey:CommentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Reaction.
func (Reaction) TableName() string { return "reactions" }

// ReactionSummary is the aggregate view of reactions on one comment, plus the
// calling user's own reaction ("" when none or when no caller was supplied).
type ReactionSummary struct {
	Likes        int    `json:"likes"`
	Dislikes     int    `json:"dislikes"`
	UserReaction string `json:"user_reaction,omitempty"`
}

// UserProfile mirrors the externally-provisioned identity record. This core
// reads DisplayName/Role/IsBanned and writes only the ban fields; account
// creation and deletion happen in the identity provider.
type UserProfile struct {
	ID          string    `json:"id"           gorm:"type:varchar(64);primaryKey"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(255)"`
	Email       string    `json:"email"        gorm:"type:varchar(255)"`
	Role        string    `json:"role"         gorm:"type:varchar(16);not null;default:'user';check:role IN ('user','admin')"`
	IsBanned    bool      `json:"is_banned"    gorm:"not null;default:false;index"`
	BanReason   *string   `json:"ban_reason,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for UserProfile.
func (UserProfile) TableName() string { return "users_profile" }
