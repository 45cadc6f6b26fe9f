package cart

import (
	"context"
	"database/sql"
	"errors"

	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/product"

	"go.uber.org/zap"
)

// ProductFinder loads a product by id, returning sql.ErrNoRows when absent.
type ProductFinder interface {
	GetByID(ctx context.Context, id uint) (*product.Product, error)
}

// Service defines the business logic for carts. Every mutation returns the
// refreshed cart.
type Service interface {
	Get(ctx context.Context, userID uint) (*Cart, error)
	AddItem(ctx context.Context, userID, productID uint, quantity int) (*Cart, error)
	UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uint) (*Cart, error)
}

type service struct {
	repo     Repository
	products ProductFinder
}

func NewService(repo Repository, products ProductFinder) Service {
	return &service{repo: repo, products: products}
}

func (s *service) Get(ctx context.Context, userID uint) (*Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, c)
}

func (s *service) AddItem(ctx context.Context, userID, productID uint, quantity int) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Uint("product_id", productID),
		zap.Int("quantity", quantity),
	)

	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if productID == 0 {
		return nil, ErrProductRequired
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.activeProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, found, err := s.repo.FindItemByProduct(ctx, c.ID, productID)
	if err != nil {
		return nil, err
	}

	finalQty := quantity
	if found {
		finalQty += existing.Quantity
	}
	if finalQty > p.Stock {
		log.Info("insufficient stock", zap.Int("stock", p.Stock), zap.Int("requested", finalQty))
		return nil, ErrInsufficientStock
	}

	if found {
		err = s.repo.SetQuantity(ctx, c.ID, existing.ID, finalQty)
	} else {
		err = s.repo.InsertItem(ctx, c.ID, productID, finalQty)
	}
	if err != nil {
		log.Error("failed to save cart item", zap.Error(err))
		return nil, err
	}

	return s.load(ctx, c)
}

// UpdateItem sets a line's quantity; zero or less removes the line.
func (s *service) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if itemID == 0 {
		return nil, ErrItemAndQtyRequired
	}

	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, found, err := s.repo.FindItem(ctx, c.ID, itemID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrItemNotFound
	}

	if quantity <= 0 {
		if _, err := s.repo.DeleteItem(ctx, c.ID, itemID); err != nil {
			return nil, err
		}
		return s.load(ctx, c)
	}

	p, err := s.activeProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > p.Stock {
		return nil, ErrInsufficientStock
	}

	if err := s.repo.SetQuantity(ctx, c.ID, itemID, quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	return s.load(ctx, c)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uint) (*Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if itemID == 0 {
		return nil, ErrItemRequired
	}

	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeleteItem(ctx, c.ID, itemID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrItemNotFound
	}

	return s.load(ctx, c)
}

func (s *service) activeProduct(ctx context.Context, id uint) (*product.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *service) load(ctx context.Context, c *Cart) (*Cart, error) {
	items, err := s.repo.Items(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	c.computeTotals()
	return c, nil
}
