package order

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"tecnoroute-be/internal/apperror"
	"tecnoroute-be/internal/events"
	"tecnoroute-be/internal/metrics"
	"tecnoroute-be/internal/user"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateFromCart(ctx context.Context, userID uint, in CheckoutInput, number string) (*Order, error) {
	args := m.Called(ctx, userID, in, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id uint, vis Visibility) (*Order, error) {
	args := m.Called(ctx, id, vis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f Filter, vis Visibility) ([]*Order, error) {
	args := m.Called(ctx, f, vis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) Recent(ctx context.Context, limit int, vis Visibility) ([]*Order, error) {
	args := m.Called(ctx, limit, vis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) Available(ctx context.Context, limit int) ([]*Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) TransitionStatus(ctx context.Context, id uint, from, to Status, assign *uint) (bool, error) {
	args := m.Called(ctx, id, from, to, assign)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) AssignDriver(ctx context.Context, id, driverID uint) (Status, error) {
	args := m.Called(ctx, id, driverID)
	return args.Get(0).(Status), args.Error(1)
}

func (m *MockRepository) UpdateDetails(ctx context.Context, id uint, in EditInput) (bool, error) {
	args := m.Called(ctx, id, in)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) DeleteRestoringStock(ctx context.Context, id uint) (bool, Status, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Get(1).(Status), args.Error(2)
}

func (m *MockRepository) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

type MockDrivers struct{ mock.Mock }

func (m *MockDrivers) IsActiveDriver(ctx context.Context, driverID uint) (bool, error) {
	args := m.Called(ctx, driverID)
	return args.Bool(0), args.Error(1)
}

type MockShipments struct{ mock.Mock }

func (m *MockShipments) CreateForOrder(ctx context.Context, o *Order) error {
	return m.Called(ctx, o).Error(0)
}

type MockReconciler struct{ mock.Mock }

func (m *MockReconciler) Enqueue(ctx context.Context, orderID uint, reason string) error {
	return m.Called(ctx, orderID, reason).Error(0)
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

type stubDirectory map[uint]user.Identity

func (d stubDirectory) Resolve(_ context.Context, userID uint) (user.Identity, bool, error) {
	id, ok := d[userID]
	return id, ok, nil
}

const (
	adminID      uint = 1
	ownerID      uint = 2
	otherID      uint = 3
	driverOneID  uint = 5
	driverTwoID  uint = 6
	orphanDrvID  uint = 7
	noProfileID  uint = 8
	driverOneRec uint = 40
	driverTwoRec uint = 41
)

var directory = stubDirectory{
	adminID:     {UserID: adminID, Role: user.RoleAdmin},
	ownerID:     {UserID: ownerID, Role: user.RoleCustomer},
	otherID:     {UserID: otherID, Role: user.RoleCustomer},
	driverOneID: {UserID: driverOneID, Role: user.RoleDriver, Driver: &user.DriverDetail{ID: driverOneRec}},
	driverTwoID: {UserID: driverTwoID, Role: user.RoleDriver, Driver: &user.DriverDetail{ID: driverTwoRec}},
	orphanDrvID: {UserID: orphanDrvID, Role: user.RoleDriver},
}

type testDeps struct {
	repo       *MockRepository
	drivers    *MockDrivers
	shipments  *MockShipments
	reconciler *MockReconciler
	publisher  *recordingPublisher
	metrics    *metrics.Metrics
}

func newTestService() (*service, *testDeps) {
	d := &testDeps{
		repo:       new(MockRepository),
		drivers:    new(MockDrivers),
		shipments:  new(MockShipments),
		reconciler: new(MockReconciler),
		publisher:  &recordingPublisher{},
		metrics:    metrics.New("test"),
	}
	svc := NewService(d.repo, directory, d.drivers, d.shipments, d.publisher, d.reconciler, d.metrics).(*service)
	return svc, d
}

func pendingOrder() *Order {
	return &Order{ID: 21, Number: "PED-1A2B3C4D", UserID: ownerID, Status: StatusPending, Total: decimal.NewFromInt(400)}
}

func withDriver(o *Order, status Status, driverID uint) *Order {
	o.Status = status
	o.DriverID = &driverID
	return o
}

func uintPtr(v uint) *uint { return &v }

var noAssign = (*uint)(nil)

func TestService_Checkout(t *testing.T) {
	ctx := context.Background()
	in := CheckoutInput{ShippingAddress: "  Calle 45 #12-30 ", ContactPhone: " 3001112233", Notes: " Portería "}
	trimmed := CheckoutInput{ShippingAddress: "Calle 45 #12-30", ContactPhone: "3001112233", Notes: "Portería"}
	orderNumber := mock.MatchedBy(func(n string) bool { return strings.HasPrefix(n, "PED-") && len(n) == 12 })

	t.Run("Unauthenticated", func(t *testing.T) {
		svc, d := newTestService()
		_, err := svc.Checkout(ctx, 0, in)
		assert.ErrorIs(t, err, ErrUserNotAuthenticated)
		d.repo.AssertNotCalled(t, "CreateFromCart")
	})

	t.Run("MissingFields", func(t *testing.T) {
		svc, d := newTestService()
		_, err := svc.Checkout(ctx, ownerID, CheckoutInput{ShippingAddress: "Calle 45 #12-30", ContactPhone: "   "})
		assert.ErrorIs(t, err, ErrCheckoutFieldsRequired)
		d.repo.AssertNotCalled(t, "CreateFromCart")
	})

	t.Run("CreatesShipment", func(t *testing.T) {
		svc, d := newTestService()
		o := pendingOrder()
		d.repo.On("CreateFromCart", ctx, ownerID, trimmed, orderNumber).Return(o, nil)
		d.shipments.On("CreateForOrder", ctx, o).Return(nil)

		got, err := svc.Checkout(ctx, ownerID, in)
		require.NoError(t, err)
		assert.Same(t, o, got)
		d.shipments.AssertExpectations(t)
		d.reconciler.AssertNotCalled(t, "Enqueue")
		require.Len(t, d.publisher.events, 1)
		assert.Equal(t, events.OrderCreated, d.publisher.events[0].Type)
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.OrdersCreated))
	})

	t.Run("ShipmentFailureIsSwallowed", func(t *testing.T) {
		svc, d := newTestService()
		o := pendingOrder()
		d.repo.On("CreateFromCart", ctx, ownerID, trimmed, orderNumber).Return(o, nil)
		d.shipments.On("CreateForOrder", ctx, o).Return(errors.New("shipments table locked"))
		d.reconciler.On("Enqueue", ctx, uint(21), "shipments table locked").Return(errors.New("sqs unavailable"))

		got, err := svc.Checkout(ctx, ownerID, in)
		require.NoError(t, err)
		assert.Equal(t, uint(21), got.ID)
		d.reconciler.AssertExpectations(t)
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.ShipmentAutoFailures))
	})

	t.Run("EmptyCartPropagates", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("CreateFromCart", ctx, ownerID, trimmed, orderNumber).Return(nil, ErrEmptyCart)

		_, err := svc.Checkout(ctx, ownerID, in)
		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		d.shipments.AssertNotCalled(t, "CreateForOrder")
		assert.Empty(t, d.publisher.events)
	})
}

func TestService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	allVis := Visibility{All: true}

	t.Run("NoProfile", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.ChangeStatus(ctx, noProfileID, 21, StatusConfirmed)
		assert.ErrorIs(t, err, user.ErrNoProfile)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("AdminAnyTransition", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), allVis).Return(pendingOrder(), nil).Once()
		d.repo.On("TransitionStatus", ctx, uint(21), StatusPending, StatusCancelled, noAssign).Return(true, nil)
		cancelled := pendingOrder()
		cancelled.Status = StatusCancelled
		d.repo.On("Get", ctx, uint(21), allVis).Return(cancelled, nil).Once()

		o, err := svc.ChangeStatus(ctx, adminID, 21, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, o.Status)
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.OrderTransitions.WithLabelValues("pendiente", "cancelado")))
		require.Len(t, d.publisher.events, 1)
		assert.Equal(t, events.OrderStatusChanged, d.publisher.events[0].Type)
	})

	t.Run("AdminUnknownStatus", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), allVis).Return(pendingOrder(), nil)

		_, err := svc.ChangeStatus(ctx, adminID, 21, Status("enviado"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
		d.repo.AssertNotCalled(t, "TransitionStatus")
	})

	t.Run("DriverTakesPendingOrder", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), allVis).Return(pendingOrder(), nil).Once()
		d.repo.On("TransitionStatus", ctx, uint(21), StatusPending, StatusConfirmed, uintPtr(driverOneRec)).Return(true, nil)
		d.repo.On("Get", ctx, uint(21), allVis).
			Return(withDriver(pendingOrder(), StatusConfirmed, driverOneRec), nil).Once()

		o, err := svc.ChangeStatus(ctx, driverOneID, 21, StatusConfirmed)
		require.NoError(t, err)
		assert.True(t, o.AssignedTo(driverOneRec))
		d.repo.AssertExpectations(t)
	})

	t.Run("OtherDriverCannotTakeConfirmedOrder", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), allVis).
			Return(withDriver(pendingOrder(), StatusConfirmed, driverOneRec), nil)

		_, err := svc.ChangeStatus(ctx, driverTwoID, 21, StatusInProgress)
		assert.ErrorIs(t, err, ErrNotAssignedToTake)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		d.repo.AssertNotCalled(t, "TransitionStatus")
	})

	t.Run("OtherDriverCannotDeliver", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), allVis).
			Return(withDriver(pendingOrder(), StatusInProgress, driverOneRec), nil)

		_, err := svc.ChangeStatus(ctx, driverTwoID, 21, StatusDelivered)
		assert.ErrorIs(t, err, ErrNotAssignedToDeliver)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		d.repo.AssertNotCalled(t, "TransitionStatus")
	})

	t.Run("AssignedDriverDelivers", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), allVis).
			Return(withDriver(pendingOrder(), StatusInProgress, driverOneRec), nil).Once()
		d.repo.On("TransitionStatus", ctx, uint(21), StatusInProgress, StatusDelivered, noAssign).Return(true, nil)
		d.repo.On("Get", ctx, uint(21), allVis).
			Return(withDriver(pendingOrder(), StatusDelivered, driverOneRec), nil).Once()

		o, err := svc.ChangeStatus(ctx, driverOneID, 21, StatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, StatusDelivered, o.Status)
	})

	t.Run("DriverSkippingSteps", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), allVis).Return(pendingOrder(), nil)

		_, err := svc.ChangeStatus(ctx, driverOneID, 21, StatusDelivered)
		require.Error(t, err)
		assert.Equal(t, "Cambio de estado no permitido: pendiente -> entregado", err.Error())
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("DriverWithoutRecord", func(t *testing.T) {
		svc, d := newTestService()

		_, err := svc.ChangeStatus(ctx, orphanDrvID, 21, StatusConfirmed)
		assert.ErrorIs(t, err, ErrDriverNotFound)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		d.repo.AssertNotCalled(t, "Get")
	})

	t.Run("CustomerNotAuthorized", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), Visibility{UserID: uintPtr(ownerID)}).Return(pendingOrder(), nil)

		_, err := svc.ChangeStatus(ctx, ownerID, 21, StatusCancelled)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("CustomerForeignOrderStaysHidden", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), Visibility{UserID: uintPtr(otherID)}).Return(nil, sql.ErrNoRows)

		_, err := svc.ChangeStatus(ctx, otherID, 21, StatusCancelled)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("InvisibleOrder", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(99), allVis).Return(nil, sql.ErrNoRows)

		_, err := svc.ChangeStatus(ctx, adminID, 99, StatusConfirmed)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("ConcurrentChange", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), allVis).Return(pendingOrder(), nil)
		d.repo.On("TransitionStatus", ctx, uint(21), StatusPending, StatusConfirmed, noAssign).Return(false, nil)

		_, err := svc.ChangeStatus(ctx, adminID, 21, StatusConfirmed)
		assert.ErrorIs(t, err, ErrStatusChanged)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})
}

func TestService_AssignDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminOnly", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.AssignDriver(ctx, ownerID, 21, driverOneRec)
		assert.ErrorIs(t, err, ErrAdminOnlyAssign)
	})

	t.Run("DriverRequired", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.AssignDriver(ctx, adminID, 21, 0)
		assert.ErrorIs(t, err, ErrDriverIDRequired)
	})

	t.Run("InactiveDriver", func(t *testing.T) {
		svc, d := newTestService()
		d.drivers.On("IsActiveDriver", ctx, uint(77)).Return(false, nil)

		_, err := svc.AssignDriver(ctx, adminID, 21, 77)
		assert.ErrorIs(t, err, ErrDriverUnavailable)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("PendingBecomesConfirmed", func(t *testing.T) {
		svc, d := newTestService()
		d.drivers.On("IsActiveDriver", ctx, driverOneRec).Return(true, nil)
		d.repo.On("AssignDriver", ctx, uint(21), driverOneRec).Return(StatusConfirmed, nil)
		d.repo.On("Get", ctx, uint(21), Visibility{All: true}).
			Return(withDriver(pendingOrder(), StatusConfirmed, driverOneRec), nil)

		o, err := svc.AssignDriver(ctx, adminID, 21, driverOneRec)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, o.Status)
		assert.True(t, o.AssignedTo(driverOneRec))
		require.Len(t, d.publisher.events, 1)
		assert.Equal(t, events.OrderDriverAssigned, d.publisher.events[0].Type)
	})

	t.Run("MissingOrder", func(t *testing.T) {
		svc, d := newTestService()
		d.drivers.On("IsActiveDriver", ctx, driverOneRec).Return(true, nil)
		d.repo.On("AssignDriver", ctx, uint(99), driverOneRec).Return(Status(""), sql.ErrNoRows)

		_, err := svc.AssignDriver(ctx, adminID, 99, driverOneRec)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_Edit(t *testing.T) {
	ctx := context.Background()
	ownerVis := Visibility{UserID: uintPtr(ownerID)}
	valid := EditInput{ShippingAddress: "  Carrera 7 #80-10 ", ContactPhone: " 3001112233 "}

	t.Run("OtherCustomerCannotSeeIt", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), Visibility{UserID: uintPtr(otherID)}).Return(nil, sql.ErrNoRows)

		_, err := svc.Edit(ctx, otherID, 21, valid)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("AssignedDriverIsNotOwner", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), Visibility{DriverID: uintPtr(driverOneRec)}).
			Return(withDriver(pendingOrder(), StatusPending, driverOneRec), nil)

		_, err := svc.Edit(ctx, driverOneID, 21, valid)
		assert.ErrorIs(t, err, ErrCannotEdit)
	})

	t.Run("OwnerNonPending", func(t *testing.T) {
		svc, d := newTestService()
		o := pendingOrder()
		o.Status = StatusConfirmed
		d.repo.On("Get", ctx, uint(21), ownerVis).Return(o, nil)

		_, err := svc.Edit(ctx, ownerID, 21, valid)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.Contains(t, err.Error(), `estado "confirmado"`)
	})

	t.Run("AdminStillBlockedByStatus", func(t *testing.T) {
		svc, d := newTestService()
		o := pendingOrder()
		o.Status = StatusInProgress
		d.repo.On("Get", ctx, uint(21), Visibility{All: true}).Return(o, nil)

		_, err := svc.Edit(ctx, adminID, 21, valid)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		d.repo.AssertNotCalled(t, "UpdateDetails")
	})

	t.Run("FieldValidation", func(t *testing.T) {
		cases := map[string]struct {
			in   EditInput
			want error
		}{
			"AddressMissing": {EditInput{ShippingAddress: "  ", ContactPhone: "300"}, ErrAddressRequired},
			"PhoneMissing":   {EditInput{ShippingAddress: "Carrera 7 #80-10", ContactPhone: ""}, ErrPhoneRequired},
			"AddressShort":   {EditInput{ShippingAddress: "Cra 7 ñ", ContactPhone: "300"}, ErrAddressTooShort},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				svc, d := newTestService()
				d.repo.On("Get", ctx, uint(21), ownerVis).Return(pendingOrder(), nil)

				_, err := svc.Edit(ctx, ownerID, 21, tc.in)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})

	t.Run("Success", func(t *testing.T) {
		svc, d := newTestService()
		notes := "  Timbre 2 "
		in := valid
		in.Notes = &notes
		trimmedNotes := "Timbre 2"

		d.repo.On("Get", ctx, uint(21), ownerVis).Return(pendingOrder(), nil)
		d.repo.On("UpdateDetails", ctx, uint(21), EditInput{
			ShippingAddress: "Carrera 7 #80-10",
			ContactPhone:    "3001112233",
			Notes:           &trimmedNotes,
		}).Return(true, nil)
		updated := pendingOrder()
		updated.ShippingAddress = "Carrera 7 #80-10"
		d.repo.On("Get", ctx, uint(21), Visibility{All: true}).Return(updated, nil)

		o, err := svc.Edit(ctx, ownerID, 21, in)
		require.NoError(t, err)
		assert.Equal(t, "Carrera 7 #80-10", o.ShippingAddress)
		d.repo.AssertExpectations(t)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerVis := Visibility{UserID: uintPtr(ownerID)}

	t.Run("OwnerDeletesPending", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), ownerVis).Return(pendingOrder(), nil)
		d.repo.On("DeleteRestoringStock", ctx, uint(21)).Return(true, StatusPending, nil)

		require.NoError(t, svc.Delete(ctx, ownerID, 21))
		require.Len(t, d.publisher.events, 1)
		assert.Equal(t, events.OrderDeleted, d.publisher.events[0].Type)
	})

	t.Run("AdminBlockedByStatus", func(t *testing.T) {
		svc, d := newTestService()
		o := pendingOrder()
		o.Status = StatusDelivered
		d.repo.On("Get", ctx, uint(21), Visibility{All: true}).Return(o, nil)

		err := svc.Delete(ctx, adminID, 21)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.Contains(t, err.Error(), "eliminados")
		d.repo.AssertNotCalled(t, "DeleteRestoringStock")
	})

	t.Run("DriverCannotDelete", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), Visibility{DriverID: uintPtr(driverOneRec)}).
			Return(withDriver(pendingOrder(), StatusPending, driverOneRec), nil)

		assert.ErrorIs(t, svc.Delete(ctx, driverOneID, 21), ErrCannotDelete)
	})

	t.Run("StatusMovedBeforeLock", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), ownerVis).Return(pendingOrder(), nil)
		d.repo.On("DeleteRestoringStock", ctx, uint(21)).Return(false, StatusConfirmed, nil)

		err := svc.Delete(ctx, ownerID, 21)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"confirmado"`)
		assert.Empty(t, d.publisher.events)
	})
}

func TestService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("StatsAdminOnly", func(t *testing.T) {
		svc, d := newTestService()
		fixed := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }
		d.repo.On("Stats", ctx, fixed).Return(&Stats{TotalOrders: 3}, nil)

		s, err := svc.Stats(ctx, adminID)
		require.NoError(t, err)
		assert.Equal(t, 3, s.TotalOrders)

		_, err = svc.Stats(ctx, ownerID)
		assert.ErrorIs(t, err, ErrAdminOnlyStats)
	})

	t.Run("ListRejectsUnknownStatus", func(t *testing.T) {
		svc, _ := newTestService()
		bad := Status("enviado")
		_, err := svc.List(ctx, adminID, Filter{Status: &bad})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("ListDriverSeesAssigned", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("List", ctx, Filter{}, Visibility{DriverID: uintPtr(driverOneRec)}).Return([]*Order{}, nil)

		_, err := svc.List(ctx, driverOneID, Filter{})
		assert.NoError(t, err)
		d.repo.AssertExpectations(t)
	})

	t.Run("RecentDefaultsToTen", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Recent", ctx, 10, Visibility{UserID: uintPtr(ownerID)}).Return([]*Order{pendingOrder()}, nil)

		orders, err := svc.Recent(ctx, ownerID, 0)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("AvailableForDrivers", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Available", ctx, 10).Return([]*Order{pendingOrder()}, nil)

		_, err := svc.Available(ctx, driverOneID, 0)
		assert.NoError(t, err)

		_, err = svc.Available(ctx, ownerID, 0)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("GetDriverSeesOpenPending", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), Visibility{DriverID: uintPtr(driverOneRec), OpenPending: true}).Return(pendingOrder(), nil)

		o, err := svc.Get(ctx, driverOneID, 21)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, o.Status)
	})

	t.Run("GetHidesForeignOrders", func(t *testing.T) {
		svc, d := newTestService()
		d.repo.On("Get", ctx, uint(21), Visibility{UserID: uintPtr(otherID)}).Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, otherID, 21)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
