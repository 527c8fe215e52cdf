package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Profile is a user's profile row. CurrentPackID is the active pack
// reference; nil means no pack is selected.
type Profile struct {
	UserID        string     `json:"user_id"`
	DisplayName   string     `json:"display_name,omitempty"`
	CurrentPackID *uuid.UUID `json:"current_pack_id,omitempty"`
}

// GetProfile looks up a profile by opaque user identifier.
func (db *DB) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := db.Pool.QueryRow(ctx,
		`SELECT user_id, display_name, current_pack_id FROM profiles WHERE user_id = $1`,
		userID).Scan(&p.UserID, &p.DisplayName, &p.CurrentPackID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile creates or updates a profile row, preserving the active pack
// reference on update.
func (db *DB) UpsertProfile(ctx context.Context, userID, displayName string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO profiles (user_id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
			SET display_name = COALESCE(NULLIF($2, ''), profiles.display_name)
	`, userID, displayName)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

// SetCurrentPack updates a profile's active pack reference. A nil packID
// clears the selection. The pack must exist when set.
func (db *DB) SetCurrentPack(ctx context.Context, userID string, packID *uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE profiles SET current_pack_id = $2 WHERE user_id = $1`,
		userID, packID)
	if err != nil {
		return fmt.Errorf("setting current pack: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
