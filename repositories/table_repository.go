package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"qr-restaurant/config"
	"qr-restaurant/models"
)

type TableRepository struct{}

func NewTableRepository() *TableRepository {
	return &TableRepository{}
}

const tableColumns = `t.id, t.number, t.name, t.capacity, t.is_active, t.qr_code, t.created_at,
	(SELECT COUNT(*) FROM orders o
	 WHERE o.table_id = t.id AND o.status NOT IN ('served', 'cancelled'))`

func (r *TableRepository) GetAll(ctx context.Context, activeOnly bool) ([]models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables t`
	if activeOnly {
		query += ` WHERE t.is_active = true`
	}
	query += ` ORDER BY t.number`

	rows, err := config.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []models.Table{}
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Name, &t.Capacity, &t.IsActive, &t.QRCode, &t.CreatedAt, &t.ActiveOrdersCount); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (r *TableRepository) GetByID(ctx context.Context, id int) (*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables t WHERE t.id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *TableRepository) GetByNumber(ctx context.Context, number int) (*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables t WHERE t.number = $1`
	return r.scanOne(ctx, query, number)
}

func (r *TableRepository) GetActiveByNumber(ctx context.Context, number int) (*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables t WHERE t.number = $1 AND t.is_active = true`
	return r.scanOne(ctx, query, number)
}

// GetActiveTableByID satisfies the table lookup the order lifecycle
// needs: inactive tables cannot receive orders.
func (r *TableRepository) GetActiveTableByID(ctx context.Context, id int) (*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables t WHERE t.id = $1 AND t.is_active = true`
	return r.scanOne(ctx, query, id)
}

func (r *TableRepository) scanOne(ctx context.Context, query string, arg interface{}) (*models.Table, error) {
	var t models.Table
	err := config.DB.QueryRow(ctx, query, arg).Scan(
		&t.ID, &t.Number, &t.Name, &t.Capacity, &t.IsActive, &t.QRCode, &t.CreatedAt, &t.ActiveOrdersCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) Create(ctx context.Context, table *models.Table) error {
	query := `INSERT INTO tables (number, name, capacity, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`

	return config.DB.QueryRow(ctx, query,
		table.Number, table.Name, table.Capacity, table.IsActive, time.Now(),
	).Scan(&table.ID, &table.CreatedAt)
}

func (r *TableRepository) Update(ctx context.Context, table *models.Table) error {
	query := `UPDATE tables SET name = $1, capacity = $2, is_active = $3 WHERE id = $4`
	_, err := config.DB.Exec(ctx, query, table.Name, table.Capacity, table.IsActive, table.ID)
	return err
}

func (r *TableRepository) UpdateQRCode(ctx context.Context, id int, qrPath string) error {
	query := `UPDATE tables SET qr_code = $1 WHERE id = $2`
	_, err := config.DB.Exec(ctx, query, qrPath, id)
	return err
}

func (r *TableRepository) Delete(ctx context.Context, id int) error {
	_, err := config.DB.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	return err
}
