package category

import (
	"context"
	"database/sql"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]*Category, error)
	Create(ctx context.Context, c *Category) (*Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Bool("active_only", activeOnly),
	)

	query := `
		SELECT id, name, description, active, created_at
		FROM categories
	`
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("DB query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt); err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		log.Error("Rows iteration failed", zap.Error(err))
		return nil, err
	}

	return categories, nil
}

func (r *repository) Create(ctx context.Context, c *Category) (*Category, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, active, created_at
	`, c.Name, c.Description).Scan(&c.ID, &c.Active, &c.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert category",
			zap.String("layer", "repository"),
			zap.String("name", c.Name),
			zap.Error(err),
		)
		return nil, err
	}
	return c, nil
}

func (r *repository) Exists(ctx context.Context, id uint) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)",
		id,
	).Scan(&exists)
	return exists, err
}
