package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"qr-restaurant/config"
	"qr-restaurant/models"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password, role, phone, avatar, created_at, updated_at
	          FROM users WHERE username = $1`

	var u models.User
	err := config.DB.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Password, &u.Role, &u.Phone, &u.Avatar, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, username, password, role, phone, avatar, created_at, updated_at
	          FROM users WHERE id = $1`

	var u models.User
	err := config.DB.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Password, &u.Role, &u.Phone, &u.Avatar, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, username, password, role, phone, avatar, created_at, updated_at
	          FROM users ORDER BY username`

	rows, err := config.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.Phone, &u.Avatar, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, password, role, phone, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`

	now := time.Now()
	return config.DB.QueryRow(ctx, query,
		user.Username, user.Password, user.Role, user.Phone, now, now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET password = $1, role = $2, phone = $3, updated_at = $4 WHERE id = $5`
	_, err := config.DB.Exec(ctx, query, user.Password, user.Role, user.Phone, time.Now(), user.ID)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hashedPassword string) error {
	query := `UPDATE users SET password = $1, updated_at = $2 WHERE id = $3`
	_, err := config.DB.Exec(ctx, query, hashedPassword, time.Now(), id)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	_, err := config.DB.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
