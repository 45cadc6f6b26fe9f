package rest

import (
	"context"

	"tecnoroute-be/internal/cart"
	"tecnoroute-be/internal/fleet"
	"tecnoroute-be/internal/order"
	"tecnoroute-be/internal/shipment"
	"tecnoroute-be/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockOrderService struct{ mock.Mock }

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

func orderOrNil(v interface{}) *order.Order {
	o, _ := v.(*order.Order)
	return o
}

type MockCartService struct{ mock.Mock }

func (m *MockCartService) Get(ctx context.Context, userID uint) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*cart.Cart, error) {
	args := m.Called(ctx, userID, productID, quantity)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*cart.Cart, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID uint) (*cart.Cart, error) {
	args := m.Called(ctx, userID, itemID)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, actorID uint, in user.RegisterInput) (string, *user.Identity, error) {
	args := m.Called(ctx, actorID, in)
	id, _ := args.Get(1).(*user.Identity)
	return args.String(0), id, args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, *user.Identity, error) {
	args := m.Called(ctx, email, password)
	id, _ := args.Get(1).(*user.Identity)
	return args.String(0), id, args.Error(2)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID uint) (*user.Account, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(*user.Account)
	return a, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uint, in user.UpdateProfileInput) (*user.Account, error) {
	args := m.Called(ctx, userID, in)
	a, _ := args.Get(0).(*user.Account)
	return a, args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	return m.Called(ctx, userID, current, next).Error(0)
}

func (m *MockUserService) ResetPassword(ctx context.Context, email, next string) error {
	return m.Called(ctx, email, next).Error(0)
}

func (m *MockUserService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) PhoneAvailable(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) DeleteAccount(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserService) ListCustomers(ctx context.Context, actorID uint, f user.CustomerFilter) ([]*user.Customer, error) {
	args := m.Called(ctx, actorID, f)
	list, _ := args.Get(0).([]*user.Customer)
	return list, args.Error(1)
}

func (m *MockUserService) ActiveCustomers(ctx context.Context, actorID uint) ([]*user.Customer, error) {
	args := m.Called(ctx, actorID)
	list, _ := args.Get(0).([]*user.Customer)
	return list, args.Error(1)
}

func (m *MockUserService) GetCustomer(ctx context.Context, actorID, id uint) (*user.Customer, error) {
	args := m.Called(ctx, actorID, id)
	c, _ := args.Get(0).(*user.Customer)
	return c, args.Error(1)
}

func (m *MockUserService) UpdateCustomer(ctx context.Context, actorID, id uint, in user.UpdateCustomerInput) (*user.Customer, error) {
	args := m.Called(ctx, actorID, id, in)
	c, _ := args.Get(0).(*user.Customer)
	return c, args.Error(1)
}

func (m *MockUserService) DeactivateCustomer(ctx context.Context, actorID, id uint) error {
	return m.Called(ctx, actorID, id).Error(0)
}

type MockShipmentService struct{ mock.Mock }

func (m *MockShipmentService) CreateForOrder(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockShipmentService) EnsureForOrder(ctx context.Context, o *order.Order) (*shipment.Shipment, bool, error) {
	args := m.Called(ctx, o)
	s, _ := args.Get(0).(*shipment.Shipment)
	return s, args.Bool(1), args.Error(2)
}

func (m *MockShipmentService) List(ctx context.Context, actorID uint, f shipment.Filter) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, actorID, f)
	list, _ := args.Get(0).([]*shipment.Shipment)
	return list, args.Error(1)
}

func (m *MockShipmentService) Pending(ctx context.Context, actorID uint) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, actorID)
	list, _ := args.Get(0).([]*shipment.Shipment)
	return list, args.Error(1)
}

func (m *MockShipmentService) InTransit(ctx context.Context, actorID uint) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, actorID)
	list, _ := args.Get(0).([]*shipment.Shipment)
	return list, args.Error(1)
}

func (m *MockShipmentService) Get(ctx context.Context, actorID, id uint) (*shipment.Shipment, error) {
	args := m.Called(ctx, actorID, id)
	s, _ := args.Get(0).(*shipment.Shipment)
	return s, args.Error(1)
}

func (m *MockShipmentService) Tracking(ctx context.Context, actorID, id uint) ([]*shipment.TrackingEvent, error) {
	args := m.Called(ctx, actorID, id)
	list, _ := args.Get(0).([]*shipment.TrackingEvent)
	return list, args.Error(1)
}

func (m *MockShipmentService) FindByTrackingNumber(ctx context.Context, number string) (*shipment.Shipment, error) {
	args := m.Called(ctx, number)
	s, _ := args.Get(0).(*shipment.Shipment)
	return s, args.Error(1)
}

func (m *MockShipmentService) ChangeStatus(ctx context.Context, actorID, id uint, in shipment.StatusChange) (*shipment.Shipment, error) {
	args := m.Called(ctx, actorID, id, in)
	s, _ := args.Get(0).(*shipment.Shipment)
	return s, args.Error(1)
}

func (m *MockShipmentService) Assign(ctx context.Context, actorID, id uint, vehicleID, driverID *uint) (*shipment.Shipment, error) {
	args := m.Called(ctx, actorID, id, vehicleID, driverID)
	s, _ := args.Get(0).(*shipment.Shipment)
	return s, args.Error(1)
}

type MockFleetService struct{ mock.Mock }

func (m *MockFleetService) CreateDriver(ctx context.Context, actorID uint, in fleet.CreateDriverInput) (*fleet.CreatedDriver, error) {
	args := m.Called(ctx, actorID, in)
	d, _ := args.Get(0).(*fleet.CreatedDriver)
	return d, args.Error(1)
}

func (m *MockFleetService) ListDrivers(ctx context.Context, actorID uint, f fleet.DriverFilter) ([]*fleet.Driver, error) {
	args := m.Called(ctx, actorID, f)
	list, _ := args.Get(0).([]*fleet.Driver)
	return list, args.Error(1)
}

func (m *MockFleetService) AvailableDrivers(ctx context.Context, actorID uint) ([]*fleet.Driver, error) {
	args := m.Called(ctx, actorID)
	list, _ := args.Get(0).([]*fleet.Driver)
	return list, args.Error(1)
}

func (m *MockFleetService) GetDriver(ctx context.Context, actorID, id uint) (*fleet.Driver, error) {
	args := m.Called(ctx, actorID, id)
	d, _ := args.Get(0).(*fleet.Driver)
	return d, args.Error(1)
}

func (m *MockFleetService) ChangeDriverState(ctx context.Context, actorID, id uint, state fleet.DriverState) (*fleet.Driver, error) {
	args := m.Called(ctx, actorID, id, state)
	d, _ := args.Get(0).(*fleet.Driver)
	return d, args.Error(1)
}

func (m *MockFleetService) DeactivateDriver(ctx context.Context, actorID, id uint) error {
	return m.Called(ctx, actorID, id).Error(0)
}

func (m *MockFleetService) IsActiveDriver(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFleetService) CreateVehicle(ctx context.Context, actorID uint, in fleet.CreateVehicleInput) (*fleet.Vehicle, error) {
	args := m.Called(ctx, actorID, in)
	v, _ := args.Get(0).(*fleet.Vehicle)
	return v, args.Error(1)
}

func (m *MockFleetService) ListVehicles(ctx context.Context, actorID uint, f fleet.VehicleFilter) ([]*fleet.Vehicle, error) {
	args := m.Called(ctx, actorID, f)
	list, _ := args.Get(0).([]*fleet.Vehicle)
	return list, args.Error(1)
}

func (m *MockFleetService) AvailableVehicles(ctx context.Context, actorID uint) ([]*fleet.Vehicle, error) {
	args := m.Called(ctx, actorID)
	list, _ := args.Get(0).([]*fleet.Vehicle)
	return list, args.Error(1)
}

func (m *MockFleetService) GetVehicle(ctx context.Context, actorID, id uint) (*fleet.Vehicle, error) {
	args := m.Called(ctx, actorID, id)
	v, _ := args.Get(0).(*fleet.Vehicle)
	return v, args.Error(1)
}

func (m *MockFleetService) AssignVehicleDriver(ctx context.Context, actorID, vehicleID uint, driverID *uint) (*fleet.Vehicle, error) {
	args := m.Called(ctx, actorID, vehicleID, driverID)
	v, _ := args.Get(0).(*fleet.Vehicle)
	return v, args.Error(1)
}

func (m *MockFleetService) ChangeVehicleState(ctx context.Context, actorID, id uint, state fleet.VehicleState) (*fleet.Vehicle, error) {
	args := m.Called(ctx, actorID, id, state)
	v, _ := args.Get(0).(*fleet.Vehicle)
	return v, args.Error(1)
}

func (m *MockFleetService) UpdateDriver(ctx context.Context, actorID, id uint, in fleet.UpdateDriverInput) (*fleet.Driver, error) {
	args := m.Called(ctx, actorID, id, in)
	d, _ := args.Get(0).(*fleet.Driver)
	return d, args.Error(1)
}

func (m *MockFleetService) SaveVehicleDraft(ctx context.Context, actorID uint, draft fleet.VehicleDraft) (*fleet.DriverWithDraft, error) {
	args := m.Called(ctx, actorID, draft)
	d, _ := args.Get(0).(*fleet.DriverWithDraft)
	return d, args.Error(1)
}

func (m *MockFleetService) UpdateVehicle(ctx context.Context, actorID, id uint, in fleet.UpdateVehicleInput) (*fleet.Vehicle, error) {
	args := m.Called(ctx, actorID, id, in)
	v, _ := args.Get(0).(*fleet.Vehicle)
	return v, args.Error(1)
}

func (m *MockFleetService) ListRoutes(ctx context.Context, actorID uint, f fleet.RouteFilter) ([]*fleet.Route, error) {
	args := m.Called(ctx, actorID, f)
	list, _ := args.Get(0).([]*fleet.Route)
	return list, args.Error(1)
}

func (m *MockFleetService) ActiveRoutes(ctx context.Context, actorID uint) ([]*fleet.Route, error) {
	args := m.Called(ctx, actorID)
	list, _ := args.Get(0).([]*fleet.Route)
	return list, args.Error(1)
}

func (m *MockFleetService) GetRoute(ctx context.Context, actorID, id uint) (*fleet.Route, error) {
	args := m.Called(ctx, actorID, id)
	rt, _ := args.Get(0).(*fleet.Route)
	return rt, args.Error(1)
}

func (m *MockFleetService) CreateRoute(ctx context.Context, actorID uint, in fleet.RouteInput) (*fleet.Route, error) {
	args := m.Called(ctx, actorID, in)
	rt, _ := args.Get(0).(*fleet.Route)
	return rt, args.Error(1)
}

func (m *MockFleetService) UpdateRoute(ctx context.Context, actorID, id uint, in fleet.RouteInput) (*fleet.Route, error) {
	args := m.Called(ctx, actorID, id, in)
	rt, _ := args.Get(0).(*fleet.Route)
	return rt, args.Error(1)
}

func (m *MockFleetService) DeleteRoute(ctx context.Context, actorID, id uint) error {
	return m.Called(ctx, actorID, id).Error(0)
}
