package cart

import (
	"context"
	"database/sql"
	"errors"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetOrCreate(ctx context.Context, userID uint) (*Cart, error)
	Items(ctx context.Context, cartID uint) ([]Item, error)
	FindItem(ctx context.Context, cartID, itemID uint) (*Item, bool, error)
	FindItemByProduct(ctx context.Context, cartID, productID uint) (*Item, bool, error)
	InsertItem(ctx context.Context, cartID, productID uint, quantity int) error
	SetQuantity(ctx context.Context, cartID, itemID uint, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID uint) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// GetOrCreate returns the user's cart, creating it on first access.
func (r *repository) GetOrCreate(ctx context.Context, userID uint) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at, updated_at
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get or create cart",
			zap.String("layer", "repository"),
			zap.String("method", "GetOrCreate"),
			zap.Error(err),
		)
		return nil, err
	}
	return &c, nil
}

const selectItem = `
	SELECT ci.id, ci.product_id, p.name, p.image_url, p.price, ci.quantity, ci.added_at
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
`

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.ImageURL, &it.UnitPrice, &it.Quantity, &it.AddedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repository) Items(ctx context.Context, cartID uint) ([]Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Items"),
		zap.Uint("cart_id", cartID),
	)

	rows, err := r.db.QueryContext(ctx, selectItem+" WHERE ci.cart_id = $1 ORDER BY ci.added_at, ci.id", cartID)
	if err != nil {
		log.Error("DB query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, *it)
	}

	return items, rows.Err()
}

func (r *repository) FindItem(ctx context.Context, cartID, itemID uint) (*Item, bool, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, selectItem+" WHERE ci.cart_id = $1 AND ci.id = $2", cartID, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return it, true, nil
}

func (r *repository) FindItemByProduct(ctx context.Context, cartID, productID uint) (*Item, bool, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, selectItem+" WHERE ci.cart_id = $1 AND ci.product_id = $2", cartID, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return it, true, nil
}

func (r *repository) InsertItem(ctx context.Context, cartID, productID uint, quantity int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
	`, cartID, productID, quantity)
	if err != nil {
		return err
	}
	return r.touch(ctx, cartID)
}

func (r *repository) SetQuantity(ctx context.Context, cartID, itemID uint, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND id = $2",
		cartID, itemID, quantity,
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
	return r.touch(ctx, cartID)
}

func (r *repository) DeleteItem(ctx context.Context, cartID, itemID uint) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE cart_id = $1 AND id = $2",
		cartID, itemID,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}
	return true, r.touch(ctx, cartID)
}

func (r *repository) touch(ctx context.Context, cartID uint) error {
	_, err := r.db.ExecContext(ctx, "UPDATE carts SET updated_at = NOW() WHERE id = $1", cartID)
	return err
}
