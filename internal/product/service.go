package product

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/user"

	"go.uber.org/zap"
)

// CategoryChecker reports whether a category exists.
type CategoryChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type Service interface {
	List(ctx context.Context, f Filter) ([]*Product, error)
	Get(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, actorID uint, in CreateInput) (*Product, error)
	Update(ctx context.Context, actorID, id uint, in UpdateInput) (*Product, error)
}

type service struct {
	repo       Repository
	categories CategoryChecker
	dir        user.Directory
}

func NewService(repo Repository, categories CategoryChecker, dir user.Directory) Service {
	return &service{repo: repo, categories: categories, dir: dir}
}

func (s *service) List(ctx context.Context, f Filter) ([]*Product, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Get(ctx context.Context, id uint) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *service) Create(ctx context.Context, actorID uint, in CreateInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	if in.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if in.Stock < 0 {
		return nil, ErrNegativeStock
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, &Product{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    strings.TrimSpace(in.ImageURL),
	})
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Uint("product_id", p.ID))
	return s.Get(ctx, p.ID)
}

func (s *service) Update(ctx context.Context, actorID, id uint, in UpdateInput) (*Product, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		in.Name = &name
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, ErrNegativeStock
	}
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, id, in); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.FromCtx(ctx).Error("failed to update product",
			zap.String("layer", "service"),
			zap.Uint("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *service) requireAdmin(ctx context.Context, actorID uint) error {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

func (s *service) checkCategory(ctx context.Context, id uint) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}
