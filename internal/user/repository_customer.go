package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

const customerColumns = `
	SELECT u.id, u.first_name, u.last_name, u.email, p.phone, p.city, p.address, u.created_at, u.is_active
	FROM users u
	JOIN profiles p ON p.user_id = u.id
	WHERE p.role = $1`

func scanCustomer(row interface{ Scan(...any) error }) (*Customer, error) {
	var (
		c                   Customer
		firstName, lastName string
	)
	if err := row.Scan(&c.ID, &firstName, &lastName, &c.Email, &c.Phone, &c.City, &c.Address, &c.JoinedAt, &c.Active); err != nil {
		return nil, err
	}
	c.FullName = User{FirstName: firstName, LastName: lastName}.FullName()
	if c.FullName == "" {
		c.FullName = c.Email
	}
	return &c, nil
}

// ListCustomers returns customer accounts, newest first.
func (r *repository) ListCustomers(ctx context.Context, f CustomerFilter) ([]*Customer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListCustomers"),
	)

	var sb strings.Builder
	sb.WriteString(customerColumns)
	args := []any{RoleCustomer}

	if f.Active != nil {
		args = append(args, *f.Active)
		fmt.Fprintf(&sb, " AND u.is_active = $%d", len(args))
	}
	if city := strings.TrimSpace(f.City); city != "" {
		args = append(args, city)
		fmt.Fprintf(&sb, " AND p.city ILIKE $%d", len(args))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		fmt.Fprintf(&sb, " AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d OR p.phone ILIKE $%d)", n, n, n, n)
	}
	sb.WriteString(" ORDER BY u.created_at DESC, u.id DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to query customers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var list []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			log.Error("failed to scan customer", zap.Error(err))
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetCustomer returns sql.ErrNoRows when id is not a customer account.
func (r *repository) GetCustomer(ctx context.Context, id uint) (*Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx, customerColumns+" AND u.id = $2", RoleCustomer, id))
}

func (r *repository) SetActive(ctx context.Context, userID uint, active bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET is_active = $2 WHERE id = $1", userID, active)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes the user. Profiles, carts and role records go with it
// through ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, userID uint) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", userID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to delete user",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
