package handlers

import (
	"context"

	"taskManager/internal/models/stats"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	"taskManager/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	CreateTask(ctx context.Context, p user.Principal, title, priority, description string, assignedUserID *uuid.UUID) (*task.Task, error)
	ListTasks(ctx context.Context, p user.Principal) ([]*task.Task, error)
	UpdateStatus(ctx context.Context, p user.Principal, taskID uuid.UUID, targetStatus string) (*task.Task, error)
	HealthCheck(ctx context.Context) error
}

type UserService interface {
	CreateUser(ctx context.Context, p user.Principal, params service.CreateUserParams) (*user.User, error)
	ListUsers(ctx context.Context, p user.Principal) ([]*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

type StatsService interface {
	Global(ctx context.Context, p user.Principal) (*stats.GlobalStats, error)
	User(ctx context.Context, p user.Principal, requestedID *uuid.UUID) (*stats.UserTaskStats, error)
}
