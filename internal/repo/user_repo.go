// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the UserProfile
// model. Profiles are provisioned externally; this core reads them for ban
// and role checks and writes only the ban fields.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-comments-backend/internal/domain"
)

// GetProfile fetches a user profile by ID, or ErrNotFound if missing.
func GetProfile(ctx context.Context, db *gorm.DB, id string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfiles returns the profiles for the given ids in one bulk read, keyed
// by id. Missing ids are simply absent from the map.
func GetProfiles(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.UserProfile, error) {
	out := make(map[string]domain.UserProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.UserProfile
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// SetBanned updates the ban flag and reason on a profile. Pass reason=nil to
// clear it (unban). Returns ErrNotFound when the profile does not exist.
func SetBanned(ctx context.Context, db *gorm.DB, id string, banned bool, reason *string) error {
	res := db.WithContext(ctx).
		Model(&domain.UserProfile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_banned":  banned,
			"ban_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
