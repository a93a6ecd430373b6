package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/stats"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Create полагается на уникальный индекс по email: никакой предварительной
// проверки, дубликат ловится по коду unique_violation.
func (s *Storage) Create(ctx context.Context, userToCreate *user.User) error {
	start := time.Now()

	query := `INSERT INTO users
				(id, name, surname, role, email, password_hash, birth_date, phone_number, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		userToCreate.ID,
		userToCreate.Name,
		userToCreate.Surname,
		userToCreate.Role,
		userToCreate.Email,
		userToCreate.PasswordHash,
		userToCreate.BirthDate,
		userToCreate.PhoneNumber,
		time.Now(),
	).Scan(&userToCreate.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			logger.Warn("Repository: Дубликат email",
				zap.String("email", userToCreate.Email))
			return repo.ErrEmailTaken
		}

		logger.Error("Repository: Не удалось добавить пользователя", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT
				id, name, surname, role, email, password_hash, birth_date, phone_number, created_at
				FROM users
				WHERE id = $1`

	return s.scanOne(ctx, query, id)
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT
				id, name, surname, role, email, password_hash, birth_date, phone_number, created_at
				FROM users
				WHERE email = $1`

	return s.scanOne(ctx, query, email)
}

func (s *Storage) scanOne(ctx context.Context, query string, arg any) (*user.User, error) {
	u := &user.User{}
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Surname,
		&u.Role,
		&u.Email,
		&u.PasswordHash,
		&u.BirthDate,
		&u.PhoneNumber,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	return u, nil
}

func (s *Storage) GetAll(ctx context.Context) ([]*user.User, error) {
	start := time.Now()

	query := `SELECT
				id, name, surname, role, email, password_hash, birth_date, phone_number, created_at
				FROM users
				ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить пользователей", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение пользователей: %w", err)
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		u := &user.User{}

		err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Surname,
			&u.Role,
			&u.Email,
			&u.PasswordHash,
			&u.BirthDate,
			&u.PhoneNumber,
			&u.CreatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования пользователя", zap.Error(err))
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return users, nil
}

func (s *Storage) CountByRole(ctx context.Context) (*stats.UserStats, error) {
	query := `SELECT
				COUNT(*) AS total_users,
				COALESCE(SUM(CASE WHEN role = 'admin' THEN 1 ELSE 0 END), 0) AS admin_users,
				COALESCE(SUM(CASE WHEN role = 'user' THEN 1 ELSE 0 END), 0) AS normal_users
				FROM users`

	st := &stats.UserStats{}
	err := s.pool.QueryRow(ctx, query).Scan(&st.TotalUsers, &st.AdminUsers, &st.NormalUsers)
	if err != nil {
		logger.Error("Repository: Не удалось получить статистику пользователей", err)
		return nil, fmt.Errorf("статистика пользователей: %w", err)
	}

	return st, nil
}
