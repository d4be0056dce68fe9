package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу ports.OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository — реализация репозитория заказов на Postgres (pgxpool).
// Все ошибки хранилища оборачиваются в domain.ErrPersistence: вызывающая
// сторона различает их через errors.Is, не зная деталей драйвера.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository — конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// persistErr — единая обёртка ошибок хранилища.
func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}

// Save — транзакционно сохраняет заказ (идемпотентный upsert всех частей).
// Повторный Save того же заказа безопасен: orders обновляется по order_uid,
// позиции заменяются целиком.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if order == nil || order.OrderUID == "" {
		return fmt.Errorf("%w: order is empty or order_uid is required", domain.ErrPersistence)
	}
	if order.CustomerID == "" {
		return fmt.Errorf("%w: customer_id is required", domain.ErrPersistence)
	}

	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return persistErr("begin", err)
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	// 1) customers — upsert (оставляем, чтобы не падать на FK).
	if _, err = transaction.Exec(ctx, `
		INSERT INTO customers (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, order.CustomerID); err != nil {
		return persistErr("insert customer", err)
	}

	// 2) orders — upsert по order_uid (PRIMARY KEY).
	if _, err = transaction.Exec(ctx, `
		INSERT INTO orders (
			order_uid, customer_id, payment_method, promo_code,
			discount, total, transaction_id, status, date_created
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (order_uid) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			payment_method = EXCLUDED.payment_method,
			promo_code = EXCLUDED.promo_code,
			discount = EXCLUDED.discount,
			total = EXCLUDED.total,
			transaction_id = EXCLUDED.transaction_id,
			status = EXCLUDED.status,
			date_created = EXCLUDED.date_created
	`,
		order.OrderUID, order.CustomerID, order.PaymentMethod, order.PromoCode,
		order.Discount, order.Total, order.TransactionID, string(order.Status), order.DateCreated,
	); err != nil {
		return persistErr("upsert order", err)
	}

	// 3) order_items — replace: удаляем и вставляем список заново.
	if _, err = transaction.Exec(ctx, `DELETE FROM order_items WHERE order_uid = $1`, order.OrderUID); err != nil {
		return persistErr("delete items", err)
	}
	if len(order.Items) > 0 {
		if err = copyItems(ctx, transaction, order.OrderUID, order.Items); err != nil {
			return err
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

// GetByUID — получить заказ по uid. Если не нашли, возвращает (nil, nil).
func (r *OrderRepository) GetByUID(ctx context.Context, uid string) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
	)

	err := r.pool.QueryRow(ctx, `
		SELECT order_uid, customer_id, payment_method, promo_code,
			discount, total, transaction_id, status, date_created
		FROM orders WHERE order_uid = $1
	`, uid).Scan(&order.OrderUID, &order.CustomerID, &order.PaymentMethod, &order.PromoCode,
		&order.Discount, &order.Total, &order.TransactionID, &status, &order.DateCreated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("select order", err)
	}
	order.Status = domain.Status(status)

	// order_items (0..N)
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, name, price, quantity
		FROM order_items WHERE order_uid = $1
		ORDER BY product_id
	`, uid)
	if err != nil {
		return nil, persistErr("select items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, persistErr("scan item", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("items rows", err)
	}

	return &order, nil
}

// ListByCustomer — постраничный список заказов клиента.
// Два запроса на страницу: базовые заказы + позиции всех UID страницы,
// затем склейка в памяти с сохранением порядка.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT order_uid, customer_id, payment_method, promo_code,
			discount, total, transaction_id, status, date_created
		FROM orders
		WHERE customer_id = $1
		ORDER BY date_created DESC, order_uid DESC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, persistErr("select customer orders", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, limit)
	byUID := make(map[string]*domain.Order, limit)
	uids := make([]string, 0, limit)

	for rows.Next() {
		order := &domain.Order{}
		var status string
		if err := rows.Scan(
			&order.OrderUID, &order.CustomerID, &order.PaymentMethod, &order.PromoCode,
			&order.Discount, &order.Total, &order.TransactionID, &status, &order.DateCreated,
		); err != nil {
			return nil, persistErr("scan order base", err)
		}
		order.Status = domain.Status(status)
		orders = append(orders, order)
		byUID[order.OrderUID] = order
		uids = append(uids, order.OrderUID)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("orders rows", err)
	}
	if len(orders) == 0 {
		return orders, nil // пустая страница
	}

	// Позиции для всех UID страницы.
	iRows, err := r.pool.Query(ctx, `
		SELECT order_uid, product_id, name, price, quantity
		FROM order_items
		WHERE order_uid = ANY($1::text[])
		ORDER BY order_uid, product_id
	`, uids)
	if err != nil {
		return nil, persistErr("select items", err)
	}
	defer iRows.Close()

	for iRows.Next() {
		var uid string
		var item domain.Item
		if err := iRows.Scan(&uid, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, persistErr("scan item", err)
		}
		if order := byUID[uid]; order != nil {
			order.Items = append(order.Items, item)
		}
	}
	if err := iRows.Err(); err != nil {
		return nil, persistErr("items rows", err)
	}

	return orders, nil
}

// LastN — последние N заказов (для прогрева кэша).
// Подход N+1: берём только UID, затем дочитываем полные заказы.
func (r *OrderRepository) LastN(ctx context.Context, n int) ([]*domain.Order, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT order_uid
		FROM orders
		ORDER BY date_created DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, persistErr("select last uids", err)
	}
	defer rows.Close()

	var result []*domain.Order
	for rows.Next() {
		var orderUID string
		if err := rows.Scan(&orderUID); err != nil {
			return nil, persistErr("scan uid", err)
		}
		order, err := r.GetByUID(ctx, orderUID)
		if err != nil {
			return nil, err
		}
		if order != nil {
			result = append(result, order)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("last rows", err)
	}

	return result, nil
}

// copyItems — вставка позиций через COPY (CopyFromRows); быстрее, чем INSERT в цикле.
func copyItems(ctx context.Context, tx pgx.Tx, orderUID string, items []domain.Item) error {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, []any{orderUID, item.ProductID, item.Name, item.Price, item.Quantity})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_uid", "product_id", "name", "price", "quantity"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return persistErr("copy items", err)
	}
	return nil
}
