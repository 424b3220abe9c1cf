package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"qr-restaurant/config"
	"qr-restaurant/models"
)

type MenuRepository struct{}

func NewMenuRepository() *MenuRepository {
	return &MenuRepository{}
}

func (r *MenuRepository) GetActiveCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, name, description, image, sort_order, is_active, created_at
	          FROM categories WHERE is_active = true ORDER BY sort_order, name`

	rows, err := config.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Image, &cat.SortOrder, &cat.IsActive, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *MenuRepository) GetCategoryByID(ctx context.Context, id int) (*models.Category, error) {
	query := `SELECT id, name, description, image, sort_order, is_active, created_at
	          FROM categories WHERE id = $1`

	var cat models.Category
	err := config.DB.QueryRow(ctx, query, id).Scan(
		&cat.ID, &cat.Name, &cat.Description, &cat.Image, &cat.SortOrder, &cat.IsActive, &cat.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (r *MenuRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (name, description, sort_order, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`

	return config.DB.QueryRow(ctx, query,
		category.Name, category.Description, category.SortOrder, category.IsActive, time.Now(),
	).Scan(&category.ID, &category.CreatedAt)
}

func (r *MenuRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	query := `UPDATE categories SET name = $1, description = $2, sort_order = $3, is_active = $4 WHERE id = $5`
	_, err := config.DB.Exec(ctx, query,
		category.Name, category.Description, category.SortOrder, category.IsActive, category.ID,
	)
	return err
}

func (r *MenuRepository) DeleteCategory(ctx context.Context, id int) error {
	_, err := config.DB.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

func (r *MenuRepository) GetAvailableItems(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	query := `SELECT m.id, m.category_id, c.name, m.name, m.description, m.price, m.image,
	                 m.available, m.is_popular, m.preparation_time, m.created_at, m.updated_at
	          FROM menu_items m
	          JOIN categories c ON m.category_id = c.id
	          WHERE m.available = true`

	args := []interface{}{}
	argIndex := 1

	if filter.CategoryID > 0 {
		query += fmt.Sprintf(" AND m.category_id = $%d", argIndex)
		args = append(args, filter.CategoryID)
		argIndex++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND m.name ILIKE $%d", argIndex)
		args = append(args, "%"+strings.TrimSpace(filter.Search)+"%")
		argIndex++
	}
	if filter.Popular {
		query += " AND m.is_popular = true"
	}

	query += " ORDER BY m.is_popular DESC, m.name"

	rows, err := config.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var m models.MenuItem
		if err := rows.Scan(&m.ID, &m.CategoryID, &m.CategoryName, &m.Name, &m.Description, &m.Price,
			&m.Image, &m.Available, &m.IsPopular, &m.PreparationTime, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *MenuRepository) GetItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	query := `SELECT m.id, m.category_id, c.name, m.name, m.description, m.price, m.image,
	                 m.available, m.is_popular, m.preparation_time, m.created_at, m.updated_at
	          FROM menu_items m
	          JOIN categories c ON m.category_id = c.id
	          WHERE m.id = $1`

	var m models.MenuItem
	err := config.DB.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.CategoryID, &m.CategoryName, &m.Name, &m.Description, &m.Price,
		&m.Image, &m.Available, &m.IsPopular, &m.PreparationTime, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrMenuItemNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetMenuItemByID satisfies the catalog lookup the order lifecycle
// needs; an unavailable item is treated as missing so it cannot be
// ordered.
func (r *MenuRepository) GetMenuItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	item, err := r.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, models.ErrMenuItemNotFound
	}
	return item, nil
}

func (r *MenuRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	query := `INSERT INTO menu_items (category_id, name, description, price, image, available, is_popular, preparation_time, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id, created_at, updated_at`

	now := time.Now()
	return config.DB.QueryRow(ctx, query,
		item.CategoryID, item.Name, item.Description, item.Price, item.Image,
		item.Available, item.IsPopular, item.PreparationTime, now, now,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *MenuRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	query := `UPDATE menu_items SET category_id = $1, name = $2, description = $3, price = $4,
	          image = $5, available = $6, is_popular = $7, preparation_time = $8, updated_at = $9
	          WHERE id = $10`
	_, err := config.DB.Exec(ctx, query,
		item.CategoryID, item.Name, item.Description, item.Price, item.Image,
		item.Available, item.IsPopular, item.PreparationTime, time.Now(), item.ID,
	)
	return err
}

func (r *MenuRepository) DeleteItem(ctx context.Context, id int) error {
	_, err := config.DB.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	return err
}
