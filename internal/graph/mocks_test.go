package graph

import (
	"context"

	"tecnoroute-be/internal/cart"
	"tecnoroute-be/internal/order"
	"tecnoroute-be/internal/product"

	"github.com/stretchr/testify/mock"
)

type MockOrderService struct{ mock.Mock }

func orderOrNil(v any) *order.Order {
	o, _ := v.(*order.Order)
	return o
}

func (m *MockOrderService) Checkout(ctx context.Context, actorID uint, in order.CheckoutInput) (*order.Order, error) {
	args := m.Called(ctx, actorID, in)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, actorID uint, f order.Filter) ([]*order.Order, error) {
	args := m.Called(ctx, actorID, f)
	list, _ := args.Get(0).([]*order.Order)
	return list, args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, actorID, id uint) (*order.Order, error) {
	args := m.Called(ctx, actorID, id)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderService) Recent(ctx context.Context, actorID uint, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, actorID, limit)
	list, _ := args.Get(0).([]*order.Order)
	return list, args.Error(1)
}

func (m *MockOrderService) Available(ctx context.Context, actorID uint, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, actorID, limit)
	list, _ := args.Get(0).([]*order.Order)
	return list, args.Error(1)
}

func (m *MockOrderService) Stats(ctx context.Context, actorID uint) (*order.Stats, error) {
	args := m.Called(ctx, actorID)
	s, _ := args.Get(0).(*order.Stats)
	return s, args.Error(1)
}

func (m *MockOrderService) ChangeStatus(ctx context.Context, actorID, id uint, target order.Status) (*order.Order, error) {
	args := m.Called(ctx, actorID, id, target)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderService) AssignDriver(ctx context.Context, actorID, id, driverID uint) (*order.Order, error) {
	args := m.Called(ctx, actorID, id, driverID)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderService) Edit(ctx context.Context, actorID, id uint, in order.EditInput) (*order.Order, error) {
	args := m.Called(ctx, actorID, id, in)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, actorID, id uint) error {
	return m.Called(ctx, actorID, id).Error(0)
}

type MockCartService struct{ mock.Mock }

func cartOrNil(v any) *cart.Cart {
	c, _ := v.(*cart.Cart)
	return c
}

func (m *MockCartService) Get(ctx context.Context, userID uint) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	return cartOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*cart.Cart, error) {
	args := m.Called(ctx, userID, productID, quantity)
	return cartOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*cart.Cart, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	return cartOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID uint) (*cart.Cart, error) {
	args := m.Called(ctx, userID, itemID)
	return cartOrNil(args.Get(0)), args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) List(ctx context.Context, f product.Filter) ([]*product.Product, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]*product.Product)
	return list, args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, actorID uint, in product.CreateInput) (*product.Product, error) {
	args := m.Called(ctx, actorID, in)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, actorID, id uint, in product.UpdateInput) (*product.Product, error) {
	args := m.Called(ctx, actorID, id, in)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}
