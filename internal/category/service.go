package category

import (
	"context"
	"strings"

	"tecnoroute-be/internal/db"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, activeOnly bool) ([]*Category, error)
	Create(ctx context.Context, actorID uint, in CreateInput) (*Category, error)
}

type service struct {
	repo Repository
	dir  user.Directory
}

func NewService(repo Repository, dir user.Directory) Service {
	return &service{repo: repo, dir: dir}
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]*Category, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) Create(ctx context.Context, actorID uint, in CreateInput) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	c, err := s.repo.Create(ctx, &Category{Name: name, Description: strings.TrimSpace(in.Description)})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrNameExists
		}
		log.Error("failed to create category", zap.Error(err))
		return nil, err
	}

	log.Info("category created", zap.Uint("category_id", c.ID))
	return c, nil
}
