package shipment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tecnoroute-be/internal/fleet"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	// InsertForOrder stores s together with its first tracking event. When the
	// order already has a shipment nothing is written and the existing one is
	// returned with created=false.
	InsertForOrder(ctx context.Context, s *Shipment, initial *TrackingEvent) (*Shipment, bool, error)
	Get(ctx context.Context, id uint, vis Visibility) (*Shipment, error)
	GetByTrackingNumber(ctx context.Context, number string) (*Shipment, error)
	List(ctx context.Context, f Filter, vis Visibility) ([]*Shipment, error)
	Tracking(ctx context.Context, shipmentID uint) ([]*TrackingEvent, error)
	ApplyStatus(ctx context.Context, id uint, status Status, ev *TrackingEvent) error
	Assign(ctx context.Context, id, vehicleID, driverID uint, ev *TrackingEvent) error
}

type repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db, now: time.Now}
}

const selectShipment = `
	SELECT s.id, s.tracking_number, s.order_id, s.customer_id, u.first_name, u.last_name, u.email,
		s.vehicle_id, v.plate, s.driver_id, d.first_name, d.last_name,
		s.cargo_description, s.weight_kg, s.volume_m3,
		s.pickup_address, s.delivery_address, s.pickup_contact, s.delivery_contact,
		s.pickup_phone, s.delivery_phone,
		s.scheduled_pickup, s.scheduled_delivery, s.actual_pickup, s.actual_delivery,
		s.shipping_cost, s.declared_value, s.status, s.priority, s.notes,
		s.created_at, s.updated_at
	FROM shipments s
	JOIN users u ON u.id = s.customer_id
	LEFT JOIN vehicles v ON v.id = s.vehicle_id
	LEFT JOIN drivers d ON d.id = s.driver_id
`

func scanShipment(row interface{ Scan(...any) error }) (*Shipment, error) {
	var (
		s                       Shipment
		firstName, lastName     string
		orderID                 sql.NullInt64
		vehicleID, driverID     sql.NullInt64
		plate                   sql.NullString
		driverFirst, driverLast sql.NullString
		pickup, delivery        sql.NullTime
	)
	err := row.Scan(
		&s.ID, &s.TrackingNumber, &orderID, &s.CustomerID, &firstName, &lastName, &s.CustomerEmail,
		&vehicleID, &plate, &driverID, &driverFirst, &driverLast,
		&s.CargoDescription, &s.WeightKG, &s.VolumeM3,
		&s.PickupAddress, &s.DeliveryAddress, &s.PickupContact, &s.DeliveryContact,
		&s.PickupPhone, &s.DeliveryPhone,
		&s.ScheduledPickup, &s.ScheduledDelivery, &pickup, &delivery,
		&s.ShippingCost, &s.DeclaredValue, &s.Status, &s.Priority, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CustomerName = strings.TrimSpace(firstName + " " + lastName)
	if orderID.Valid {
		id := uint(orderID.Int64)
		s.OrderID = &id
	}
	if vehicleID.Valid {
		id := uint(vehicleID.Int64)
		s.VehicleID = &id
		s.VehiclePlate = &plate.String
	}
	if driverID.Valid {
		id := uint(driverID.Int64)
		name := strings.TrimSpace(driverFirst.String + " " + driverLast.String)
		s.DriverID = &id
		s.DriverName = &name
	}
	if pickup.Valid {
		s.ActualPickup = &pickup.Time
	}
	if delivery.Valid {
		s.ActualDelivery = &delivery.Time
	}
	s.DaysInTransit = transitDays(s.ActualPickup, s.ActualDelivery)
	return &s, nil
}

func (r *repository) InsertForOrder(ctx context.Context, s *Shipment, initial *TrackingEvent) (*Shipment, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "InsertForOrder"),
	)

	if s.OrderID == nil {
		return nil, false, ErrOrderRequired
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, false, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var id uint
	err = tx.QueryRowContext(ctx, `
		INSERT INTO shipments (
			tracking_number, order_id, customer_id, driver_id,
			cargo_description, weight_kg, volume_m3,
			pickup_address, delivery_address, pickup_contact, delivery_contact,
			pickup_phone, delivery_phone, scheduled_pickup, scheduled_delivery,
			shipping_cost, declared_value, status, priority, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING id
	`, s.TrackingNumber, *s.OrderID, s.CustomerID, s.DriverID,
		s.CargoDescription, s.WeightKG, s.VolumeM3,
		s.PickupAddress, s.DeliveryAddress, s.PickupContact, s.DeliveryContact,
		s.PickupPhone, s.DeliveryPhone, s.ScheduledPickup, s.ScheduledDelivery,
		s.ShippingCost, s.DeclaredValue, s.Status, s.Priority, s.Notes,
	).Scan(&id)

	created := true
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created = false
		log.Info("order already has a shipment", zap.Uint("order_id", *s.OrderID))
	case err != nil:
		log.Error("failed to insert shipment", zap.Error(err))
		return nil, false, err
	default:
		initial.ShipmentID = id
		if err := insertEvent(ctx, tx, initial); err != nil {
			log.Error("failed to insert tracking event", zap.Error(err))
			return nil, false, err
		}
	}

	stored, err := scanShipment(tx.QueryRowContext(ctx, selectShipment+" WHERE s.order_id = $1", *s.OrderID))
	if err != nil {
		log.Error("failed to load shipment", zap.Error(err))
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return nil, false, err
	}
	committed = true

	return stored, created, nil
}

func (v Visibility) restrict(where []string, args []interface{}) ([]string, []interface{}) {
	switch {
	case v.All:
		return where, args
	case v.CustomerID != nil:
		args = append(args, *v.CustomerID)
		return append(where, fmt.Sprintf("s.customer_id = $%d", len(args))), args
	case v.DriverID != nil:
		args = append(args, *v.DriverID)
		return append(where, fmt.Sprintf("s.driver_id = $%d", len(args))), args
	default:
		return append(where, "FALSE"), args
	}
}

// Get returns sql.ErrNoRows when the shipment does not exist or is not visible.
func (r *repository) Get(ctx context.Context, id uint, vis Visibility) (*Shipment, error) {
	where, args := vis.restrict([]string{"s.id = $1"}, []interface{}{id})
	return scanShipment(r.db.QueryRowContext(ctx, selectShipment+" WHERE "+strings.Join(where, " AND "), args...))
}

func (r *repository) GetByTrackingNumber(ctx context.Context, number string) (*Shipment, error) {
	return scanShipment(r.db.QueryRowContext(ctx, selectShipment+" WHERE s.tracking_number = $1", number))
}

func (r *repository) List(ctx context.Context, f Filter, vis Visibility) ([]*Shipment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	limit, offset := utils.Paginate(f.Limit, f.Page)

	where := []string{}
	args := []interface{}{}

	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("s.status = $%d", len(args)))
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		where = append(where, fmt.Sprintf("s.priority = $%d", len(args)))
	}
	where, args = vis.restrict(where, args)

	query := selectShipment
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.created_at DESC, s.id DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	shipments := []*Shipment{}
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		shipments = append(shipments, s)
	}
	return shipments, rows.Err()
}

// Tracking lists the events of a shipment, newest first.
func (r *repository) Tracking(ctx context.Context, shipmentID uint) ([]*TrackingEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, shipment_id, status, description, location, occurred_at, user_id
		FROM shipment_tracking_events
		WHERE shipment_id = $1
		ORDER BY occurred_at DESC, id DESC
	`, shipmentID)
	if err != nil {
		logger.FromCtx(ctx).Error("DB query failed",
			zap.String("layer", "repository"),
			zap.String("method", "Tracking"),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	events := []*TrackingEvent{}
	for rows.Next() {
		var (
			ev     TrackingEvent
			userID sql.NullInt64
		)
		if err := rows.Scan(&ev.ID, &ev.ShipmentID, &ev.Status, &ev.Description, &ev.Location, &ev.OccurredAt, &userID); err != nil {
			return nil, err
		}
		if userID.Valid {
			id := uint(userID.Int64)
			ev.UserID = &id
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// ApplyStatus sets the status and appends ev. Pickup and delivery times are
// only stamped the first time the shipment reaches in-transit or delivered.
func (r *repository) ApplyStatus(ctx context.Context, id uint, status Status, ev *TrackingEvent) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ApplyStatus"),
		zap.Uint("shipment_id", id),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	now := r.now()
	err = execOne(ctx, tx, `
		UPDATE shipments SET
			status = $2,
			actual_pickup = CASE WHEN $2 = $3 THEN COALESCE(actual_pickup, $5) ELSE actual_pickup END,
			actual_delivery = CASE WHEN $2 = $4 THEN COALESCE(actual_delivery, $5) ELSE actual_delivery END,
			updated_at = $5
		WHERE id = $1
	`, id, status, StatusInTransit, StatusDelivered, now)
	if err != nil {
		return err
	}

	ev.ShipmentID = id
	if err := insertEvent(ctx, tx, ev); err != nil {
		log.Error("failed to insert tracking event", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return err
	}
	committed = true
	return nil
}

// Assign reserves an available vehicle and an available driver and links both
// to the shipment. Either reservation failing leaves everything untouched.
func (r *repository) Assign(ctx context.Context, id, vehicleID, driverID uint, ev *TrackingEvent) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Assign"),
		zap.Uint("shipment_id", id),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	err = execOne(ctx, tx,
		"UPDATE vehicles SET state = $2 WHERE id = $1 AND state = $3 AND active",
		vehicleID, fleet.VehicleInUse, fleet.VehicleAvailable,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVehicleUnavailable
	}
	if err != nil {
		return err
	}

	err = execOne(ctx, tx,
		"UPDATE drivers SET state = $2 WHERE id = $1 AND state = $3 AND active",
		driverID, fleet.DriverOnRoute, fleet.DriverAvailable,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDriverUnavailable
	}
	if err != nil {
		return err
	}

	err = execOne(ctx, tx,
		"UPDATE shipments SET vehicle_id = $2, driver_id = $3, updated_at = $4 WHERE id = $1",
		id, vehicleID, driverID, r.now(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShipmentNotFound
	}
	if err != nil {
		return err
	}

	ev.ShipmentID = id
	if err := insertEvent(ctx, tx, ev); err != nil {
		log.Error("failed to insert tracking event", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return err
	}
	committed = true
	return nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, ev *TrackingEvent) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO shipment_tracking_events (shipment_id, status, description, location, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, occurred_at
	`, ev.ShipmentID, ev.Status, ev.Description, ev.Location, ev.UserID).Scan(&ev.ID, &ev.OccurredAt)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execOne(ctx context.Context, db execer, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
