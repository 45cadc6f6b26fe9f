package user

import (
	"context"
	"database/sql"
	"errors"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Directory

	Create(ctx context.Context, u *User, p *Profile, driver *DriverSignup) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	UpdatePassword(ctx context.Context, email, hashed string) error
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)

	FindProfile(ctx context.Context, userID uint) (*Profile, bool, error)
	CreateProfile(ctx context.Context, p *Profile) (*Profile, error)
	UpdateAccount(ctx context.Context, userID uint, in UpdateProfileInput) error

	ListCustomers(ctx context.Context, f CustomerFilter) ([]*Customer, error)
	GetCustomer(ctx context.Context, id uint) (*Customer, error)
	SetActive(ctx context.Context, userID uint, active bool) error
	Delete(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Create inserts the user, its profile and the role detail record in one transaction.
func (r *repository) Create(ctx context.Context, u *User, p *Profile, driver *DriverSignup) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("email", u.Email),
		zap.String("role", string(p.Role)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email, password, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at
	`, u.Email, u.Password, u.FirstName, u.LastName).Scan(&u.ID, &u.IsActive, &u.CreatedAt)
	if err != nil {
		log.Error("db: failed to insert user", zap.Error(err))
		return nil, err
	}

	p.UserID = u.ID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, role, phone, address, city)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Role, p.Phone, p.Address, p.City).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		log.Error("db: failed to insert profile", zap.Error(err))
		return nil, err
	}

	if driver != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO drivers (
				user_id, first_name, last_name, national_id, license_number,
				phone, email, address, hired_on, state, active
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_DATE, 'disponible', TRUE)
		`, u.ID, u.FirstName, u.LastName, driver.NationalID, driver.LicenseNumber,
			p.Phone, u.Email, p.Address)
		if err != nil {
			log.Error("db: failed to insert driver", zap.Error(err))
			return nil, err
		}
	}

	if p.Role == RoleAdmin {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO admins (user_id, access_level, hired_on, active)
			VALUES ($1, $2, CURRENT_DATE, TRUE)
		`, u.ID, AccessAdmin)
		if err != nil {
			log.Error("db: failed to insert admin", zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}
	committed = true

	log.Info("user created", zap.Uint("user_id", u.ID))
	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, first_name, last_name, is_active, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt)

	return &u, err
}

func (r *repository) FindByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, first_name, last_name, is_active, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt)

	return &u, err
}

func (r *repository) UpdatePassword(ctx context.Context, email, hashed string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET password = $1 WHERE LOWER(email) = LOWER($2)",
		hashed, email,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))",
		email,
	).Scan(&exists)
	return exists, err
}

func (r *repository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM profiles WHERE phone = $1)",
		phone,
	).Scan(&exists)
	return exists, err
}
