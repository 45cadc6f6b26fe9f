package user

import (
	"context"
	"database/sql"
	"errors"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

// FindProfile fetches a user's profile. found is false when none exists yet.
func (r *repository) FindProfile(ctx context.Context, userID uint) (*Profile, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FindProfile"),
	)

	var p Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, role, phone, address, city, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID).Scan(&p.ID, &p.UserID, &p.Role, &p.Phone, &p.Address, &p.City, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to scan profile", zap.Error(err))
		return nil, false, err
	}

	return &p, true, nil
}

func (r *repository) CreateProfile(ctx context.Context, p *Profile) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateProfile"),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, role, phone, address, city)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Role, p.Phone, p.Address, p.City).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		log.Error("failed to create profile", zap.Error(err))
		return nil, err
	}

	log.Info("profile created", zap.Uint("profile_id", p.ID))
	return p, nil
}

// UpdateAccount applies the non-nil fields of in to users and profiles.
func (r *repository) UpdateAccount(ctx context.Context, userID uint, in UpdateProfileInput) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateAccount"),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			email = COALESCE($4, email)
		WHERE id = $1
	`, userID, in.FirstName, in.LastName, in.Email)
	if err != nil {
		log.Error("failed to update user", zap.Error(err))
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE profiles
		SET phone = COALESCE($2, phone),
			address = COALESCE($3, address),
			city = COALESCE($4, city),
			updated_at = NOW()
		WHERE user_id = $1
	`, userID, in.Phone, in.Address, in.City)
	if err != nil {
		log.Error("failed to update profile", zap.Error(err))
		return err
	}

	return tx.Commit()
}
