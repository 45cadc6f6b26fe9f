package user

import (
	"context"
	"database/sql"
	"errors"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

// Directory resolves the role of a user. found is false when the user has no
// profile, which callers treat as "no resolvable role".
type Directory interface {
	Resolve(ctx context.Context, userID uint) (identity Identity, found bool, err error)
}

func (r *repository) Resolve(ctx context.Context, userID uint) (Identity, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Resolve"),
	)

	var (
		id                         Identity
		firstName, lastName        string
		driverID                   sql.NullInt64
		nationalID, license, state sql.NullString
		driverActive               sql.NullBool
		adminID                    sql.NullInt64
		accessLevel                sql.NullString
		adminActive                sql.NullBool
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.first_name, u.last_name, p.role, p.phone,
			d.id, d.national_id, d.license_number, d.state, d.active,
			a.id, a.access_level, a.active
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		LEFT JOIN drivers d ON d.user_id = u.id
		LEFT JOIN admins a ON a.user_id = u.id
		WHERE u.id = $1 AND u.is_active
	`, userID).Scan(
		&id.UserID, &id.Email, &firstName, &lastName, &id.Role, &id.Phone,
		&driverID, &nationalID, &license, &state, &driverActive,
		&adminID, &accessLevel, &adminActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("identity has no profile", zap.Uint("target_user_id", userID))
		return Identity{}, false, nil
	}
	if err != nil {
		log.Error("failed to resolve identity", zap.Error(err))
		return Identity{}, false, err
	}

	id.FullName = User{FirstName: firstName, LastName: lastName}.FullName()
	if driverID.Valid {
		id.Driver = &DriverDetail{
			ID:            uint(driverID.Int64),
			NationalID:    nationalID.String,
			LicenseNumber: license.String,
			State:         state.String,
			Active:        driverActive.Bool,
		}
	}
	if adminID.Valid {
		id.Admin = &AdminDetail{
			ID:          uint(adminID.Int64),
			AccessLevel: accessLevel.String,
			Active:      adminActive.Bool,
		}
	}

	return id, true, nil
}

// ResolveActor resolves the acting user. A user without a resolvable role is
// forbidden from every role-gated action.
func ResolveActor(ctx context.Context, dir Directory, actorID uint) (Identity, error) {
	if actorID == 0 {
		return Identity{}, ErrNoProfile
	}
	identity, found, err := dir.Resolve(ctx, actorID)
	if err != nil {
		return Identity{}, err
	}
	if !found {
		return Identity{}, ErrNoProfile
	}
	return identity, nil
}
