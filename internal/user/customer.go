package user

import (
	"context"
	"database/sql"
	"errors"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

func (s *service) ListCustomers(ctx context.Context, actorID uint, f CustomerFilter) ([]*Customer, error) {
	if err := s.requireAdminActor(ctx, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListCustomers(ctx, f)
}

func (s *service) ActiveCustomers(ctx context.Context, actorID uint) ([]*Customer, error) {
	active := true
	return s.ListCustomers(ctx, actorID, CustomerFilter{Active: &active})
}

func (s *service) GetCustomer(ctx context.Context, actorID, id uint) (*Customer, error) {
	if err := s.requireAdminActor(ctx, actorID); err != nil {
		return nil, err
	}
	return s.customer(ctx, id)
}

func (s *service) UpdateCustomer(ctx context.Context, actorID, id uint, in UpdateCustomerInput) (*Customer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateCustomer"),
	)

	if err := s.requireAdminActor(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := s.customer(ctx, id); err != nil {
		return nil, err
	}

	err := s.repo.UpdateAccount(ctx, id, UpdateProfileInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
	})
	if err != nil {
		log.Error("failed to update customer", zap.Error(err))
		return nil, err
	}

	log.Info("customer updated", zap.Uint("customer_id", id), zap.Uint("actor_id", actorID))
	return s.customer(ctx, id)
}

// DeactivateCustomer disables the account. The customer can no longer log in
// but their orders are kept.
func (s *service) DeactivateCustomer(ctx context.Context, actorID, id uint) error {
	if err := s.requireAdminActor(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.customer(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		return err
	}

	logger.FromCtx(ctx).Info("customer deactivated",
		zap.String("layer", "service"),
		zap.Uint("customer_id", id),
		zap.Uint("actor_id", actorID),
	)
	return nil
}

// DeleteAccount permanently removes the caller's own account.
func (s *service) DeleteAccount(ctx context.Context, userID uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteAccount"),
	)

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		log.Error("failed to delete account", zap.Error(err))
		return err
	}

	log.Info("account deleted", zap.Uint("user_id", userID))
	return nil
}

func (s *service) customer(ctx context.Context, id uint) (*Customer, error) {
	c, err := s.repo.GetCustomer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func (s *service) requireAdminActor(ctx context.Context, actorID uint) error {
	identity, err := ResolveActor(ctx, s.repo, actorID)
	if err != nil {
		return err
	}
	if !identity.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}
