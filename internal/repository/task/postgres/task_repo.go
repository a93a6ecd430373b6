package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/stats"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(id, title, description, priority, progress, assigned_user_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.ID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Priority,
		taskToCreate.Progress,
		taskToCreate.AssignedUserID,
		time.Now(),
	).Scan(&taskToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT
				id,
				title,
				description,
				priority,
				progress,
				assigned_user_id,
				created_at,
				updated_at
				FROM tasks
				WHERE id = $1`

	t := &task.Task{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Progress,
		&t.AssignedUserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return t, nil
}

// GetAll возвращает все задачи, новые первыми, с именем исполнителя.
func (s *Storage) GetAll(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT
				t.id,
				t.title,
				t.description,
				t.priority,
				t.progress,
				t.assigned_user_id,
				u.name || ' ' || u.surname AS assigned_user_name,
				t.created_at,
				t.updated_at
				FROM tasks t
				LEFT JOIN users u ON t.assigned_user_id = u.id
				ORDER BY t.created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t := &task.Task{}

		err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.Priority,
			&t.Progress,
			&t.AssignedUserID,
			&t.AssignedUserName,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

// UpdateProgress - единственная запись, чувствительная к порядку выполнения.
// Обновление условное: строка меняется только если текущий прогресс равен from.
// Ноль затронутых строк означает, что параллельный запрос успел раньше.
func (s *Storage) UpdateProgress(ctx context.Context, id uuid.UUID, from, to task.Status, assignee *uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `UPDATE tasks
			SET progress = $1,
				assigned_user_id = $2,
				updated_at = NOW()
			WHERE id = $3 AND progress = $4
			RETURNING id, title, description, priority, progress, assigned_user_id, created_at, updated_at`

	t := &task.Task{}
	err := s.pool.QueryRow(ctx, query, to, assignee, id, from).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Progress,
		&t.AssignedUserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Конфликт статуса при обновлении задачи",
				zap.String("task_id", id.String()),
				zap.String("expected_progress", string(from)))
			return nil, repo.ErrProgressConflict
		}
		logger.Error("Repository: Не удалось обновить статус задачи", err)
		return nil, fmt.Errorf("обновление статуса задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return t, nil
}

func (s *Storage) GlobalStats(ctx context.Context) (*stats.GlobalTaskStats, error) {
	start := time.Now()

	query := `SELECT
				COUNT(*) AS total_tasks,
				COALESCE(SUM(CASE WHEN progress = 'Pending' THEN 1 ELSE 0 END), 0) AS pending_tasks,
				COALESCE(SUM(CASE WHEN progress = 'In Progress' THEN 1 ELSE 0 END), 0) AS in_progress_tasks,
				COALESCE(SUM(CASE WHEN progress = 'Needs Review' THEN 1 ELSE 0 END), 0) AS needs_review_tasks,
				COALESCE(SUM(CASE WHEN progress = 'In Review' THEN 1 ELSE 0 END), 0) AS in_review_tasks,
				COALESCE(SUM(CASE WHEN progress = 'Needs Validation' THEN 1 ELSE 0 END), 0) AS needs_validation_tasks,
				COALESCE(SUM(CASE WHEN progress = 'Done' THEN 1 ELSE 0 END), 0) AS completed_tasks,
				COALESCE(SUM(CASE WHEN priority = 'High' THEN 1 ELSE 0 END), 0) AS high_priority_tasks,
				COALESCE(SUM(CASE WHEN priority = 'Medium' THEN 1 ELSE 0 END), 0) AS medium_priority_tasks,
				COALESCE(SUM(CASE WHEN priority = 'Low' THEN 1 ELSE 0 END), 0) AS low_priority_tasks,
				COALESCE(SUM(CASE WHEN assigned_user_id IS NULL THEN 1 ELSE 0 END), 0) AS unassigned_tasks
				FROM tasks`

	st := &stats.GlobalTaskStats{}
	err := s.pool.QueryRow(ctx, query).Scan(
		&st.TotalTasks,
		&st.PendingTasks,
		&st.InProgressTasks,
		&st.NeedsReviewTasks,
		&st.InReviewTasks,
		&st.NeedsValidationTasks,
		&st.CompletedTasks,
		&st.HighPriorityTasks,
		&st.MediumPriorityTasks,
		&st.LowPriorityTasks,
		&st.UnassignedTasks,
	)
	if err != nil {
		logger.Error("Repository: Не удалось получить статистику задач", err)
		return nil, fmt.Errorf("статистика задач: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return st, nil
}

func (s *Storage) StatsByUser(ctx context.Context, userID uuid.UUID) (*stats.TaskStats, error) {
	start := time.Now()

	query := `SELECT
				COUNT(*) AS total_tasks,
				COALESCE(SUM(CASE WHEN progress = 'Pending' THEN 1 ELSE 0 END), 0) AS pending_tasks,
				COALESCE(SUM(CASE WHEN progress = 'In Progress' THEN 1 ELSE 0 END), 0) AS in_progress_tasks,
				COALESCE(SUM(CASE WHEN progress = 'Needs Review' THEN 1 ELSE 0 END), 0) AS needs_review_tasks,
				COALESCE(SUM(CASE WHEN progress = 'In Review' THEN 1 ELSE 0 END), 0) AS in_review_tasks,
				COALESCE(SUM(CASE WHEN progress = 'Needs Validation' THEN 1 ELSE 0 END), 0) AS needs_validation_tasks,
				COALESCE(SUM(CASE WHEN progress = 'Done' THEN 1 ELSE 0 END), 0) AS completed_tasks,
				COALESCE(SUM(CASE WHEN priority = 'High' THEN 1 ELSE 0 END), 0) AS high_priority_tasks,
				COALESCE(SUM(CASE WHEN priority = 'Medium' THEN 1 ELSE 0 END), 0) AS medium_priority_tasks,
				COALESCE(SUM(CASE WHEN priority = 'Low' THEN 1 ELSE 0 END), 0) AS low_priority_tasks
				FROM tasks
				WHERE assigned_user_id = $1`

	st := &stats.TaskStats{}
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&st.TotalTasks,
		&st.PendingTasks,
		&st.InProgressTasks,
		&st.NeedsReviewTasks,
		&st.InReviewTasks,
		&st.NeedsValidationTasks,
		&st.CompletedTasks,
		&st.HighPriorityTasks,
		&st.MediumPriorityTasks,
		&st.LowPriorityTasks,
	)
	if err != nil {
		logger.Error("Repository: Не удалось получить статистику пользователя", err)
		return nil, fmt.Errorf("статистика пользователя: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return st, nil
}

func (s *Storage) CountByAssignee(ctx context.Context) (map[uuid.UUID]stats.PerUserCount, error) {
	query := `SELECT
				assigned_user_id,
				COUNT(*) AS task_count,
				COALESCE(SUM(CASE WHEN progress = 'Done' THEN 1 ELSE 0 END), 0) AS completed_count
				FROM tasks
				WHERE assigned_user_id IS NOT NULL
				GROUP BY assigned_user_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить счётчики по исполнителям", err)
		return nil, fmt.Errorf("счётчики по исполнителям: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]stats.PerUserCount)
	for rows.Next() {
		var id uuid.UUID
		var c stats.PerUserCount

		if err := rows.Scan(&id, &c.TotalTasks, &c.CompletedTasks); err != nil {
			logger.Warn("Repository: Ошибка сканирования счётчиков", zap.Error(err))
			continue
		}
		counts[id] = c
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return counts, nil
}
