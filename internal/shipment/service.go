package shipment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tecnoroute-be/internal/events"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/order"
	"tecnoroute-be/internal/user"
	"tecnoroute-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	// CreateForOrder satisfies order.ShipmentCreator.
	CreateForOrder(ctx context.Context, o *order.Order) error
	EnsureForOrder(ctx context.Context, o *order.Order) (*Shipment, bool, error)

	List(ctx context.Context, actorID uint, f Filter) ([]*Shipment, error)
	Pending(ctx context.Context, actorID uint) ([]*Shipment, error)
	InTransit(ctx context.Context, actorID uint) ([]*Shipment, error)
	Get(ctx context.Context, actorID, id uint) (*Shipment, error)
	Tracking(ctx context.Context, actorID, id uint) ([]*TrackingEvent, error)
	FindByTrackingNumber(ctx context.Context, number string) (*Shipment, error)

	ChangeStatus(ctx context.Context, actorID, id uint, in StatusChange) (*Shipment, error)
	Assign(ctx context.Context, actorID, id uint, vehicleID, driverID *uint) (*Shipment, error)
}

type service struct {
	repo      Repository
	dir       user.Directory
	publisher events.Publisher
	warehouse Warehouse
	now       func() time.Time
}

var _ order.ShipmentCreator = (*service)(nil)

func NewService(repo Repository, dir user.Directory, publisher events.Publisher, warehouse Warehouse) Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{
		repo:      repo,
		dir:       dir,
		publisher: publisher,
		warehouse: warehouse,
		now:       time.Now,
	}
}

func (s *service) CreateForOrder(ctx context.Context, o *order.Order) error {
	_, _, err := s.EnsureForOrder(ctx, o)
	return err
}

// EnsureForOrder derives and stores the shipment of o unless it already has
// one. Safe to call repeatedly for the same order.
func (s *service) EnsureForOrder(ctx context.Context, o *order.Order) (*Shipment, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "EnsureForOrder"),
		zap.Uint("order_id", o.ID),
	)

	sh := FromOrder(o, s.warehouse, s.now(), utils.GenerateReference(utils.TrackingNumberPrefix))
	initial := &TrackingEvent{
		Status:      string(StatusPending),
		Description: fmt.Sprintf("Envío creado desde el pedido %s", o.Number),
	}

	stored, created, err := s.repo.InsertForOrder(ctx, sh, initial)
	if err != nil {
		log.Error("failed to create shipment", zap.Error(err))
		return nil, false, err
	}

	if created {
		log.Info("shipment created", zap.String("tracking_number", stored.TrackingNumber))
		events.PublishBestEffort(ctx, s.publisher, events.New(events.ShipmentCreated, stored.TrackingNumber, stored))
	}
	return stored, created, nil
}

func (s *service) List(ctx context.Context, actorID uint, f Filter) ([]*Shipment, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, f, visibilityFor(actor))
}

func (s *service) Pending(ctx context.Context, actorID uint) ([]*Shipment, error) {
	st := StatusPending
	return s.List(ctx, actorID, Filter{Status: &st})
}

func (s *service) InTransit(ctx context.Context, actorID uint) ([]*Shipment, error) {
	st := StatusInTransit
	return s.List(ctx, actorID, Filter{Status: &st})
}

func (s *service) Get(ctx context.Context, actorID, id uint) (*Shipment, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	sh, err := s.load(ctx, id, visibilityFor(actor))
	if err != nil {
		return nil, err
	}
	if sh.Events, err = s.repo.Tracking(ctx, sh.ID); err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *service) Tracking(ctx context.Context, actorID, id uint) ([]*TrackingEvent, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id, visibilityFor(actor)); err != nil {
		return nil, err
	}
	return s.repo.Tracking(ctx, id)
}

// FindByTrackingNumber is open to anyone holding the tracking number.
func (s *service) FindByTrackingNumber(ctx context.Context, number string) (*Shipment, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrTrackingNumberRequired
	}

	sh, err := s.repo.GetByTrackingNumber(ctx, number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if sh.Events, err = s.repo.Tracking(ctx, sh.ID); err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *service) ChangeStatus(ctx context.Context, actorID, id uint, in StatusChange) (*Shipment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ChangeStatus"),
		zap.Uint("shipment_id", id),
	)

	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsDriver() {
		return nil, ErrNotAuthorized
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.load(ctx, id, visibilityFor(actor))
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = fmt.Sprintf("Estado cambiado a %s", in.Status)
	}
	uid := actor.UserID
	ev := &TrackingEvent{
		Status:      string(in.Status),
		Description: description,
		Location:    strings.TrimSpace(in.Location),
		UserID:      &uid,
	}

	if err := s.repo.ApplyStatus(ctx, id, in.Status, ev); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShipmentNotFound
		}
		log.Error("failed to apply status", zap.Error(err))
		return nil, err
	}

	log.Info("shipment status changed",
		zap.String("from", string(current.Status)),
		zap.String("to", string(in.Status)),
	)
	events.PublishBestEffort(ctx, s.publisher, events.New(events.ShipmentStatusChanged, current.TrackingNumber, map[string]any{
		"shipment_id": id,
		"order_id":    current.OrderID,
		"from":        current.Status,
		"to":          in.Status,
		"location":    ev.Location,
		"by_user":     actor.UserID,
	}))

	return s.Get(ctx, actorID, id)
}

func (s *service) Assign(ctx context.Context, actorID, id uint, vehicleID, driverID *uint) (*Shipment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Assign"),
		zap.Uint("shipment_id", id),
	)

	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrAdminOnlyAssign
	}
	if vehicleID == nil || driverID == nil || *vehicleID == 0 || *driverID == 0 {
		return nil, ErrAssignIDsRequired
	}

	current, err := s.load(ctx, id, Visibility{All: true})
	if err != nil {
		return nil, err
	}

	uid := actor.UserID
	ev := &TrackingEvent{
		Status:      EventAssigned,
		Description: "Vehículo y conductor asignados",
		UserID:      &uid,
	}
	if err := s.repo.Assign(ctx, id, *vehicleID, *driverID, ev); err != nil {
		log.Warn("assignment rejected", zap.Error(err))
		return nil, err
	}

	log.Info("shipment assigned", zap.Uint("vehicle_id", *vehicleID), zap.Uint("driver_id", *driverID))
	events.PublishBestEffort(ctx, s.publisher, events.New(events.ShipmentAssigned, current.TrackingNumber, map[string]any{
		"shipment_id": id,
		"vehicle_id":  *vehicleID,
		"driver_id":   *driverID,
	}))

	return s.Get(ctx, actorID, id)
}

func (s *service) load(ctx context.Context, id uint, vis Visibility) (*Shipment, error) {
	sh, err := s.repo.Get(ctx, id, vis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShipmentNotFound
	}
	return sh, err
}

// visibilityFor maps the actor to the shipments it may read. A driver
// without a driver record sees nothing.
func visibilityFor(actor user.Identity) Visibility {
	switch {
	case actor.IsAdmin():
		return Visibility{All: true}
	case actor.IsDriver():
		if actor.Driver == nil {
			return Visibility{}
		}
		id := actor.Driver.ID
		return Visibility{DriverID: &id}
	default:
		id := actor.UserID
		return Visibility{CustomerID: &id}
	}
}
