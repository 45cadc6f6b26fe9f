package order

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"tecnoroute-be/internal/events"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/metrics"
	"tecnoroute-be/internal/user"
	"tecnoroute-be/internal/utils"

	"go.uber.org/zap"
)

const (
	defaultRecentLimit = 10
	minAddressLength   = 10
)

// DriverLookup reports whether a driver exists and is active.
type DriverLookup interface {
	IsActiveDriver(ctx context.Context, driverID uint) (bool, error)
}

// ShipmentCreator derives the shipment of a freshly created order. It must be
// safe to call more than once for the same order.
type ShipmentCreator interface {
	CreateForOrder(ctx context.Context, o *Order) error
}

// ReconcileEnqueuer schedules a later retry of shipment creation.
type ReconcileEnqueuer interface {
	Enqueue(ctx context.Context, orderID uint, reason string) error
}

type Service interface {
	Checkout(ctx context.Context, actorID uint, in CheckoutInput) (*Order, error)
	List(ctx context.Context, actorID uint, f Filter) ([]*Order, error)
	Get(ctx context.Context, actorID, id uint) (*Order, error)
	Recent(ctx context.Context, actorID uint, limit int) ([]*Order, error)
	Available(ctx context.Context, actorID uint, limit int) ([]*Order, error)
	Stats(ctx context.Context, actorID uint) (*Stats, error)
	ChangeStatus(ctx context.Context, actorID, id uint, target Status) (*Order, error)
	AssignDriver(ctx context.Context, actorID, id, driverID uint) (*Order, error)
	Edit(ctx context.Context, actorID, id uint, in EditInput) (*Order, error)
	Delete(ctx context.Context, actorID, id uint) error
}

type service struct {
	repo       Repository
	dir        user.Directory
	drivers    DriverLookup
	shipments  ShipmentCreator
	publisher  events.Publisher
	reconciler ReconcileEnqueuer
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewService(
	repo Repository,
	dir user.Directory,
	drivers DriverLookup,
	shipments ShipmentCreator,
	publisher events.Publisher,
	reconciler ReconcileEnqueuer,
	m *metrics.Metrics,
) Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{
		repo:       repo,
		dir:        dir,
		drivers:    drivers,
		shipments:  shipments,
		publisher:  publisher,
		reconciler: reconciler,
		metrics:    m,
		now:        time.Now,
	}
}

func (s *service) Checkout(ctx context.Context, actorID uint, in CheckoutInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)

	if actorID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.ShippingAddress == "" || in.ContactPhone == "" {
		return nil, ErrCheckoutFieldsRequired
	}

	o, err := s.repo.CreateFromCart(ctx, actorID, in, utils.GenerateReference(utils.OrderNumberPrefix))
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCreated()
	events.PublishBestEffort(ctx, s.publisher, events.New(events.OrderCreated, o.Number, o))
	log.Info("checkout completed", zap.Uint("order_id", o.ID), zap.String("order_number", o.Number))

	s.ensureShipment(ctx, o)
	return o, nil
}

// ensureShipment creates the order's shipment outside the checkout
// transaction. A failure never fails the order; it is counted and queued for
// reconciliation instead.
func (s *service) ensureShipment(ctx context.Context, o *Order) {
	if s.shipments == nil {
		return
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ensureShipment"),
		zap.Uint("order_id", o.ID),
	)

	err := s.shipments.CreateForOrder(ctx, o)
	if err == nil {
		return
	}

	log.Error("shipment auto-creation failed", zap.Error(err))
	s.metrics.ShipmentAutoCreateFailed()

	if s.reconciler == nil {
		return
	}
	if qErr := s.reconciler.Enqueue(ctx, o.ID, err.Error()); qErr != nil {
		log.Error("failed to enqueue shipment reconciliation", zap.Error(qErr))
	}
}

func (s *service) List(ctx context.Context, actorID uint, f Filter) ([]*Order, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, f, visibilityFor(actor))
}

func (s *service) Get(ctx context.Context, actorID, id uint) (*Order, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	vis := visibilityFor(actor)
	if actor.IsDriver() {
		vis.OpenPending = true
	}
	return s.load(ctx, id, vis)
}

func (s *service) Recent(ctx context.Context, actorID uint, limit int) ([]*Order, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.repo.Recent(ctx, limit, visibilityFor(actor))
}

// Available lists the pending orders a driver can take.
func (s *service) Available(ctx context.Context, actorID uint, limit int) ([]*Order, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsDriver() {
		return nil, ErrNotAuthorized
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.repo.Available(ctx, limit)
}

func (s *service) Stats(ctx context.Context, actorID uint) (*Stats, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrAdminOnlyStats
	}
	return s.repo.Stats(ctx, s.now())
}

func (s *service) ChangeStatus(ctx context.Context, actorID, id uint, target Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ChangeStatus"),
		zap.Uint("order_id", id),
		zap.String("target", string(target)),
	)

	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}

	if actor.IsDriver() && actor.Driver == nil {
		return nil, ErrDriverNotFound
	}

	o, err := s.load(ctx, id, transitionLookup(actor))
	if err != nil {
		return nil, err
	}

	assign, err := authorizeTransition(actor, o, target)
	if err != nil {
		log.Info("transition rejected", zap.String("current", string(o.Status)), zap.Error(err))
		return nil, err
	}
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}

	ok, err := s.repo.TransitionStatus(ctx, o.ID, o.Status, target, assign)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStatusChanged
	}

	s.metrics.OrderTransition(string(o.Status), string(target))
	events.PublishBestEffort(ctx, s.publisher, events.New(events.OrderStatusChanged, o.Number, map[string]any{
		"order_id": o.ID,
		"from":     o.Status,
		"to":       target,
		"actor_id": actor.UserID,
	}))
	log.Info("order status changed", zap.String("from", string(o.Status)))

	return s.load(ctx, o.ID, Visibility{All: true})
}

func (s *service) AssignDriver(ctx context.Context, actorID, id, driverID uint) (*Order, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrAdminOnlyAssign
	}
	if driverID == 0 {
		return nil, ErrDriverIDRequired
	}

	active, err := s.drivers.IsActiveDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrDriverUnavailable
	}

	status, err := s.repo.AssignDriver(ctx, id, driverID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	o, err := s.load(ctx, id, Visibility{All: true})
	if err != nil {
		return nil, err
	}

	events.PublishBestEffort(ctx, s.publisher, events.New(events.OrderDriverAssigned, o.Number, map[string]any{
		"order_id":  o.ID,
		"driver_id": driverID,
		"status":    status,
	}))
	return o, nil
}

func (s *service) Edit(ctx context.Context, actorID, id uint, in EditInput) (*Order, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}

	o, err := s.load(ctx, id, visibilityFor(actor))
	if err != nil {
		return nil, err
	}
	if !canManage(actor, o) {
		return nil, ErrCannotEdit
	}
	if o.Status != StatusPending {
		return nil, errNotEditable(o.Status)
	}

	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		in.Notes = &notes
	}

	if in.ShippingAddress == "" {
		return nil, ErrAddressRequired
	}
	if in.ContactPhone == "" {
		return nil, ErrPhoneRequired
	}
	if utils.RuneLen(in.ShippingAddress) < minAddressLength {
		return nil, ErrAddressTooShort
	}

	ok, err := s.repo.UpdateDetails(ctx, o.ID, in)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStatusChanged
	}

	updated, err := s.load(ctx, o.ID, Visibility{All: true})
	if err != nil {
		return nil, err
	}
	events.PublishBestEffort(ctx, s.publisher, events.New(events.OrderUpdated, updated.Number, updated))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actorID, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Delete"),
		zap.Uint("order_id", id),
	)

	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return err
	}

	o, err := s.load(ctx, id, visibilityFor(actor))
	if err != nil {
		return err
	}
	if !canManage(actor, o) {
		return ErrCannotDelete
	}
	if o.Status != StatusPending {
		return errNotDeletable(o.Status)
	}

	deleted, current, err := s.repo.DeleteRestoringStock(ctx, o.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if !deleted {
		return errNotDeletable(current)
	}

	log.Info("order deleted", zap.String("order_number", o.Number))
	events.PublishBestEffort(ctx, s.publisher, events.New(events.OrderDeleted, o.Number, map[string]any{
		"order_id": o.ID,
		"items":    o.Items,
	}))
	return nil
}

func (s *service) load(ctx context.Context, id uint, vis Visibility) (*Order, error) {
	o, err := s.repo.Get(ctx, id, vis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}
