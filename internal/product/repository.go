package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]*Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, id uint, in UpdateInput) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectProduct = `
	SELECT p.id, p.category_id, c.name, p.name, p.description, p.price,
		p.stock, p.image_url, p.active, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &p.Description, &p.Price,
		&p.Stock, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]*Product, error) {
	limit, offset := utils.Paginate(f.Limit, f.Page)

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.String("search", f.Search),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)

	query := selectProduct
	where := []string{}
	args := []interface{}{}

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}
	if f.ActiveOnly {
		where = append(where, "p.active")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, selectProduct+" WHERE p.id = $1", id))
}

func (r *repository) Create(ctx context.Context, p *Product) (*Product, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (category_id, name, description, price, stock, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, active, created_at, updated_at
	`, p.CategoryID, p.Name, p.Description, p.Price, p.Stock, p.ImageURL).
		Scan(&p.ID, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert product",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return nil, err
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, id uint, in UpdateInput) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET category_id = COALESCE($2, category_id),
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			price = COALESCE($5, price),
			stock = COALESCE($6, stock),
			image_url = COALESCE($7, image_url),
			active = COALESCE($8, active),
			updated_at = NOW()
		WHERE id = $1
	`, id, in.CategoryID, in.Name, in.Description, in.Price, in.Stock, in.ImageURL, in.Active)
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
