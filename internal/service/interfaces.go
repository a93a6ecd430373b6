package service

import (
	"context"

	"taskManager/internal/models/stats"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	GetAll(ctx context.Context) ([]*task.Task, error)
	// UpdateProgress - условная запись: выполняется только если текущий
	// прогресс задачи равен from, иначе repository.ErrProgressConflict.
	UpdateProgress(ctx context.Context, id uuid.UUID, from, to task.Status, assignee *uuid.UUID) (*task.Task, error)
	GlobalStats(ctx context.Context) (*stats.GlobalTaskStats, error)
	StatsByUser(ctx context.Context, userID uuid.UUID) (*stats.TaskStats, error)
	CountByAssignee(ctx context.Context) (map[uuid.UUID]stats.PerUserCount, error)
	HealthCheck(ctx context.Context) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetAll(ctx context.Context) ([]*user.User, error)
	CountByRole(ctx context.Context) (*stats.UserStats, error)
}
