// Package services defines the business logic for comment submission,
// reactions, and moderation. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Submission pipeline errors, in the order the pipeline can produce them.
var (
	// ErrCaptchaFailed is returned when the challenge token cannot be
	// verified (failed, missing, or the verifier timed out).
	ErrCaptchaFailed = errors.New("captcha verification failed")

	// ErrUnauthenticated is returned when no caller identity is present.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrAccountSuspended is returned when the caller's profile carries the
	// banned flag. Nothing past the ban check runs, including rate limiting.
	ErrAccountSuspended = errors.New("account suspended")

	// ErrRateLimited is returned when the sliding window for the caller's
	// key is full.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrEmptyBody is returned when the comment body is empty after trimming.
	ErrEmptyBody = errors.New("comment body is empty")

	// ErrBodyTooLong is returned when the trimmed body exceeds the maximum
	// length (2000 characters).
	ErrBodyTooLong = errors.New("comment body too long")
)

// Lookup and moderation errors.
var (
	// ErrCommentNotFound indicates that the requested comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrParentNotFound indicates that the referenced parent comment does not
	// exist on the same chapter.
	ErrParentNotFound = errors.New("parent comment not found")

	// ErrUserNotFound indicates that the target user profile does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidReaction is returned when a reaction type is outside the
	// allowed set (like, dislike).
	ErrInvalidReaction = errors.New("reaction type must be like or dislike")

	// ErrAdminRequired is returned when a moderation operation is attempted
	// by a caller whose profile does not carry the admin role.
	ErrAdminRequired = errors.New("administrator role required")
)
