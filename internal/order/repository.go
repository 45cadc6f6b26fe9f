package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/utils"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	CreateFromCart(ctx context.Context, userID uint, in CheckoutInput, number string) (*Order, error)
	Get(ctx context.Context, id uint, vis Visibility) (*Order, error)
	List(ctx context.Context, f Filter, vis Visibility) ([]*Order, error)
	Recent(ctx context.Context, limit int, vis Visibility) ([]*Order, error)
	Available(ctx context.Context, limit int) ([]*Order, error)
	TransitionStatus(ctx context.Context, id uint, from, to Status, assign *uint) (bool, error)
	AssignDriver(ctx context.Context, id, driverID uint) (Status, error)
	UpdateDetails(ctx context.Context, id uint, in EditInput) (bool, error)
	DeleteRestoringStock(ctx context.Context, id uint) (deleted bool, current Status, err error)
	Stats(ctx context.Context, now time.Time) (*Stats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type cartLine struct {
	productID uint
	name      string
	price     decimal.Decimal
	stock     int
	quantity  int
}

// CreateFromCart turns the user's cart into an order in a single transaction:
// order row, item snapshots, stock decrements and cart clearing either all
// happen or none do.
func (r *repository) CreateFromCart(ctx context.Context, userID uint, in CheckoutInput, number string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateFromCart"),
		zap.String("order_number", number),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	o := &Order{
		Number:          number,
		UserID:          userID,
		Status:          StatusPending,
		ShippingAddress: in.ShippingAddress,
		ContactPhone:    in.ContactPhone,
		Notes:           in.Notes,
	}

	var (
		cartID              uint
		firstName, lastName string
	)
	err = tx.QueryRowContext(ctx, `
		SELECT c.id, u.first_name, u.last_name, u.email
		FROM carts c
		JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1
	`, userID).Scan(&cartID, &firstName, &lastName, &o.CustomerEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		log.Error("failed to load cart", zap.Error(err))
		return nil, err
	}
	o.CustomerName = strings.TrimSpace(firstName + " " + lastName)

	lines, err := r.cartLines(ctx, tx, cartID)
	if err != nil {
		log.Error("failed to load cart items", zap.Error(err))
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for _, l := range lines {
		if l.quantity > l.stock {
			log.Info("insufficient stock",
				zap.Uint("product_id", l.productID),
				zap.Int("stock", l.stock),
				zap.Int("requested", l.quantity),
			)
			return nil, errInsufficientStock(l.name)
		}
		total = total.Add(l.price.Mul(decimal.NewFromInt(int64(l.quantity))))
	}
	o.Total = total

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (number, user_id, status, total, shipping_address, contact_phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, o.Number, o.UserID, o.Status, o.Total, o.ShippingAddress, o.ContactPhone, o.Notes).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	o.Items = make([]Item, 0, len(lines))
	for _, l := range lines {
		productID := l.productID
		item := Item{
			OrderID:     o.ID,
			ProductID:   &productID,
			ProductName: l.name,
			UnitPrice:   l.price,
			Quantity:    l.quantity,
			Subtotal:    l.price.Mul(decimal.NewFromInt(int64(l.quantity))),
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, o.ID, l.productID, item.ProductName, item.UnitPrice, item.Quantity, item.Subtotal).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item", zap.Uint("product_id", l.productID), zap.Error(err))
			return nil, err
		}

		// Conditional decrement: a concurrent checkout that drained the stock
		// after our read makes this match zero rows.
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, l.quantity, l.productID)
		if err != nil {
			log.Error("failed to decrement stock", zap.Uint("product_id", l.productID), zap.Error(err))
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			log.Warn("stock changed during checkout", zap.Uint("product_id", l.productID))
			return nil, errInsufficientStock(l.name)
		}

		o.Items = append(o.Items, item)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = $1", cartID); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}
	committed = true

	log.Info("order created", zap.Uint("order_id", o.ID), zap.String("total", o.Total.String()))
	return o, nil
}

func (r *repository) cartLines(ctx context.Context, tx *sql.Tx, cartID uint) ([]cartLine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT ci.product_id, p.name, p.price, p.stock, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []cartLine
	for rows.Next() {
		var l cartLine
		if err := rows.Scan(&l.productID, &l.name, &l.price, &l.stock, &l.quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

const selectOrder = `
	SELECT o.id, o.number, o.user_id, u.first_name, u.last_name, u.email,
		o.status, o.total, o.shipping_address, o.contact_phone, o.notes,
		o.driver_id, d.first_name, d.last_name, o.assigned_at, o.created_at, o.updated_at
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN drivers d ON d.id = o.driver_id
`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var (
		o                       Order
		firstName, lastName     string
		driverID                sql.NullInt64
		driverFirst, driverLast sql.NullString
		assignedAt              sql.NullTime
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.UserID, &firstName, &lastName, &o.CustomerEmail,
		&o.Status, &o.Total, &o.ShippingAddress, &o.ContactPhone, &o.Notes,
		&driverID, &driverFirst, &driverLast, &assignedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.CustomerName = strings.TrimSpace(firstName + " " + lastName)
	if driverID.Valid {
		id := uint(driverID.Int64)
		o.DriverID = &id
		o.DriverName = strings.TrimSpace(driverFirst.String + " " + driverLast.String)
	}
	if assignedAt.Valid {
		t := assignedAt.Time
		o.AssignedAt = &t
	}
	o.Items = []Item{}
	return &o, nil
}

// restrict appends the visibility predicate to where.
func (v Visibility) restrict(where []string, args []interface{}) ([]string, []interface{}) {
	switch {
	case v.All:
		return where, args
	case v.UserID != nil:
		args = append(args, *v.UserID)
		return append(where, fmt.Sprintf("o.user_id = $%d", len(args))), args
	case v.DriverID != nil:
		args = append(args, *v.DriverID)
		if v.OpenPending {
			args = append(args, StatusPending)
			return append(where, fmt.Sprintf("(o.driver_id = $%d OR (o.driver_id IS NULL AND o.status = $%d))", len(args)-1, len(args))), args
		}
		return append(where, fmt.Sprintf("o.driver_id = $%d", len(args))), args
	default:
		return append(where, "FALSE"), args
	}
}

// Get returns sql.ErrNoRows when the order does not exist or is not visible.
func (r *repository) Get(ctx context.Context, id uint, vis Visibility) (*Order, error) {
	where, args := vis.restrict([]string{"o.id = $1"}, []interface{}{id})

	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+" WHERE "+strings.Join(where, " AND "), args...))
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) List(ctx context.Context, f Filter, vis Visibility) ([]*Order, error) {
	limit, offset := utils.Paginate(f.Limit, f.Page)

	where := []string{}
	args := []interface{}{}

	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)))
	}
	where, args = vis.restrict(where, args)

	query := selectOrder
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY o.created_at DESC, o.id DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return r.query(ctx, "List", query, args...)
}

func (r *repository) Recent(ctx context.Context, limit int, vis Visibility) ([]*Order, error) {
	where, args := vis.restrict([]string{}, []interface{}{})

	query := selectOrder
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY o.created_at DESC, o.id DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	return r.query(ctx, "Recent", query, args...)
}

// Available lists pending orders that no driver has taken, oldest first.
func (r *repository) Available(ctx context.Context, limit int) ([]*Order, error) {
	query := selectOrder + `
		WHERE o.driver_id IS NULL AND o.status = $1
		ORDER BY o.created_at ASC, o.id ASC
		LIMIT $2
	`
	return r.query(ctx, "Available", query, StatusPending, limit)
}

func (r *repository) query(ctx context.Context, method, query string, args ...interface{}) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", method),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		log.Error("failed to load order items", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (r *repository) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	byID := make(map[uint]*Order, len(orders))
	for _, o := range orders {
		ids = append(ids, int64(o.ID))
		byID[o.ID] = o
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, unit_price, quantity, subtotal
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it        Item
			productID sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &productID, &it.ProductName, &it.UnitPrice, &it.Quantity, &it.Subtotal); err != nil {
			return err
		}
		if productID.Valid {
			id := uint(productID.Int64)
			it.ProductID = &id
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// TransitionStatus moves the order from one status to another only if it is
// still in from. A non-nil assign also links the driver and stamps the
// assignment time.
func (r *repository) TransitionStatus(ctx context.Context, id uint, from, to Status, assign *uint) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $3,
			driver_id = COALESCE($4::bigint, driver_id),
			assigned_at = CASE WHEN $4::bigint IS NULL THEN assigned_at ELSE NOW() END,
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to, assign)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update order status",
			zap.String("layer", "repository"),
			zap.String("method", "TransitionStatus"),
			zap.Error(err),
		)
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// AssignDriver links the driver and confirms a pending order. It returns the
// resulting status.
func (r *repository) AssignDriver(ctx context.Context, id, driverID uint) (Status, error) {
	var status Status
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET driver_id = $2,
			assigned_at = NOW(),
			status = CASE WHEN status = $3 THEN $4 ELSE status END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING status
	`, id, driverID, StatusPending, StatusConfirmed).Scan(&status)
	return status, err
}

// UpdateDetails edits contact fields only while the order is pending.
func (r *repository) UpdateDetails(ctx context.Context, id uint, in EditInput) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET shipping_address = $2,
			contact_phone = $3,
			notes = COALESCE($4, notes),
			updated_at = NOW()
		WHERE id = $1 AND status = $5
	`, id, in.ShippingAddress, in.ContactPhone, in.Notes, StatusPending)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// DeleteRestoringStock gives every line's quantity back to its product and
// deletes the order, atomically. Nothing happens unless the order is pending;
// current reports the status that was found.
func (r *repository) DeleteRestoringStock(ctx context.Context, id uint) (bool, Status, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "DeleteRestoringStock"),
		zap.Uint("order_id", id),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return false, "", err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var current Status
	err = tx.QueryRowContext(ctx, "SELECT status FROM orders WHERE id = $1 FOR UPDATE", id).Scan(&current)
	if err != nil {
		return false, "", err
	}
	if current != StatusPending {
		return false, current, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products p
		SET stock = p.stock + oi.qty, updated_at = NOW()
		FROM (
			SELECT product_id, SUM(quantity) AS qty
			FROM order_items
			WHERE order_id = $1 AND product_id IS NOT NULL
			GROUP BY product_id
		) oi
		WHERE p.id = oi.product_id
	`, id)
	if err != nil {
		log.Error("failed to restore stock", zap.Error(err))
		return false, current, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id); err != nil {
		log.Error("failed to delete order", zap.Error(err))
		return false, current, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return false, current, err
	}
	committed = true

	log.Info("order deleted and stock restored")
	return true, current, nil
}

// windowStarts returns the start of the day, the ISO week (Monday) and the
// month containing now, in now's location.
func windowStarts(now time.Time) (day, week, month time.Time) {
	y, m, d := now.Date()
	day = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	week = day.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	month = time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return day, week, month
}

func (r *repository) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Stats"),
	)

	day, week, month := windowStarts(now)

	var s Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(total), 0),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE created_at >= $2),
			COUNT(*) FILTER (WHERE created_at >= $3)
		FROM orders
	`, day, week, month).Scan(&s.TotalOrders, &s.TotalRevenue, &s.Today, &s.ThisWeek, &s.ThisMonth)
	if err != nil {
		log.Error("failed to aggregate orders", zap.Error(err))
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		log.Error("failed to count orders by status", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status Status
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch status {
		case StatusPending:
			s.Pending = count
		case StatusConfirmed:
			s.Confirmed = count
		case StatusInProgress:
			s.InProgress = count
		case StatusDelivered:
			s.Delivered = count
		case StatusCancelled:
			s.Cancelled = count
		}
	}
	return &s, rows.Err()
}
