// Package tree converts a flat, time-ordered slice of comment rows into the
// nested reply structure served to readers. The builder is a pure function:
// no I/O, no clock, no randomness: given the same rows and aggregates it
// always produces the same tree.
//
// Orphan promotion: a row whose parent_id does not resolve within the input
// set becomes a root. That covers both hard-deleted parents (the row is gone)
// and soft-deleted parents hidden by the caller's filter. Children are never
// silently dropped.
//
// Ordering: siblings keep the order in which their rows arrive. The comment
// store delivers rows by created_at ascending, so the builder only partitions
// and performs no sort of its own, keeping the whole pass O(n).
package tree

import (
	"time"

	"github.com/tbourn/go-comments-backend/internal/domain"
)

// Author is the display identity attached to each node. DisplayName may be
// empty when the profile no longer exists (e.g., a deleted account).
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

// Node is one comment in the rendered tree, carrying its reaction aggregates
// and its replies recursively, to unlimited depth.
type Node struct {
	ID           string    `json:"id"`
	ChapterID    string    `json:"chapter_id"`
	ParentID     *string   `json:"parent_id"`
	Body         string    `json:"body"`
	Author       Author    `json:"author"`
	Likes        int       `json:"likes"`
	Dislikes     int       `json:"dislikes"`
	UserReaction string    `json:"user_reaction,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Replies      []*Node   `json:"replies"`
}

// Build assembles the nested reply tree from flat comment rows.
//
// aggregates maps comment id to its reaction summary; missing entries default
// to zero likes/dislikes and no user reaction. authors maps author id to a
// profile for display; missing entries leave only the author id on the node.
//
// The pass is O(n): one map build, one partition. Rows are assumed
// pre-filtered (the caller decides whether soft-deleted rows are present)
// and pre-ordered by created_at ascending.
func Build(rows []domain.Comment, aggregates map[string]domain.ReactionSummary, authors map[string]domain.UserProfile) []*Node {
	byID := make(map[string]*Node, len(rows))
	nodes := make([]*Node, 0, len(rows))

	for i := range rows {
		r := &rows[i]
		n := &Node{
			ID:        r.ID,
			ChapterID: r.ChapterID,
			ParentID:  r.ParentID,
			Body:      r.Body,
			Author:    Author{ID: r.AuthorID},
			CreatedAt: r.CreatedAt,
			Replies:   []*Node{},
		}
		if p, ok := authors[r.AuthorID]; ok {
			n.Author.DisplayName = p.DisplayName
		}
		if agg, ok := aggregates[r.ID]; ok {
			n.Likes = agg.Likes
			n.Dislikes = agg.Dislikes
			n.UserReaction = agg.UserReaction
		}
		byID[r.ID] = n
		nodes = append(nodes, n)
	}

	roots := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.ParentID != nil {
			if parent, ok := byID[*n.ParentID]; ok {
				parent.Replies = append(parent.Replies, n)
				continue
			}
			// Parent missing from the input set: promoted to root.
		}
		roots = append(roots, n)
	}
	return roots
}
