// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the identity shim. Authentication itself happens
// upstream (the reading platform's auth service terminates sessions at the
// edge); this service only needs the already-verified identity that the
// proxy forwards with each request. Identity() extracts it and stores it in
// the Gin context so handlers and downstream middleware agree on a single
// "userID" key.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// userIDKey is the Gin context key under which the caller identity is
	// stored. Handlers read it via UserID().
	userIDKey = "userID"

	// headerUserID carries the verified subject forwarded by the edge proxy.
	headerUserID = "X-User-ID"
)

// Identity extracts the caller identity forwarded by the authenticating
// proxy and stores it in the Gin context.
//
// Resolution order:
//  1. X-User-ID header (the proxy's verified subject).
//  2. Bearer token subject: for "Authorization: Bearer <opaque>" the opaque
//     value is used verbatim as the subject. Token verification happened at
//     the edge; by the time a request reaches this service the value is
//     trusted.
//
// Anonymous requests are allowed through with no identity set: reading a
// comment tree requires no login, and write endpoints reject missing
// identity themselves with a 401. This middleware never aborts.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader(headerUserID)); uid != "" {
			c.Set(userIDKey, uid)
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if sub, ok := bearerSubject(auth); ok {
			c.Set(userIDKey, sub)
		}
		c.Next()
	}
}

// UserID returns the caller identity set by Identity(), or "" for anonymous
// requests.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// bearerSubject extracts the subject from an "Authorization: Bearer …" value.
func bearerSubject(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	sub := strings.TrimSpace(header[len(prefix):])
	return sub, sub != ""
}
