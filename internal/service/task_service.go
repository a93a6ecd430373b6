package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	rep "taskManager/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь живут правила конвейера статусов и авторизация переходов

type TaskService struct {
	tasks TaskRepository
	users UserRepository
}

func NewTaskService(tasks TaskRepository, users UserRepository) TaskService {
	return TaskService{
		tasks: tasks,
		users: users,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.tasks.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// CreateTask доступен только админу. Порядок валидации полей фиксированный:
// title, priority, description - первым в ошибке называется первое невалидное.
func (s *TaskService) CreateTask(ctx context.Context, p user.Principal, title, priority, description string, assignedUserID *uuid.UUID) (*task.Task, error) {
	if !p.IsAdmin() {
		return nil, NewForbidden("Требуются права администратора")
	}

	if title == "" {
		return nil, NewValidationError("title", "не может быть пустым")
	}

	prio, ok := task.ParsePriority(priority)
	if !ok {
		return nil, NewValidationError("priority", "допустимы только High, Medium, Low")
	}

	if description == "" {
		return nil, NewValidationError("description", "не может быть пустым")
	}

	if assignedUserID != nil {
		if _, err := s.users.GetByID(ctx, *assignedUserID); err != nil {
			if errors.Is(err, rep.ErrNotFound) {
				return nil, NewValidationError("assigned_user_id", "пользователь не существует")
			}
			return nil, NewInternal(err)
		}
	}

	t := &task.Task{
		ID:             uuid.New(),
		Title:          title,
		Description:    description,
		Priority:       prio,
		Progress:       task.StatusPending,
		AssignedUserID: assignedUserID,
		CreatedAt:      time.Now(),
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, NewInternal(err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", t.ID.String()),
		zap.String("created_by", p.ID.String()))

	return t, nil
}

func (s *TaskService) ListTasks(ctx context.Context, p user.Principal) ([]*task.Task, error) {
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, NewInternal(err)
	}
	return tasks, nil
}

// UpdateStatus - машина состояний задачи.
// Решение и запись составляют один логический шаг: запись условная,
// от прогресса, прочитанного на шаге решения. Проигравший гонку получает CONFLICT.
func (s *TaskService) UpdateStatus(ctx context.Context, p user.Principal, taskID uuid.UUID, targetStatus string) (*task.Task, error) {
	target, ok := task.ParseStatus(targetStatus)
	if !ok {
		return nil, NewValidationError("new_status", "неизвестный статус")
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", taskID.String()))
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, NewInternal(err)
	}

	assignee, berr := policyFor(p.Role).Authorize(t, target, p)
	if berr != nil {
		return nil, berr
	}

	// захват задачи, назначенной при создании другому пользователю,
	// разрешён, но оставляет след в логах
	if !p.IsAdmin() && t.Progress == task.StatusPending && target == task.StatusInProgress &&
		t.AssignedUserID != nil && *t.AssignedUserID != p.ID {
		logger.Warn("Service: Захват задачи, назначенной другому пользователю",
			zap.String("task_id", t.ID.String()),
			zap.String("previous_assignee", t.AssignedUserID.String()),
			zap.String("new_assignee", p.ID.String()))
	}

	updated, err := s.tasks.UpdateProgress(ctx, t.ID, t.Progress, target, assignee)
	if err != nil {
		if errors.Is(err, rep.ErrProgressConflict) {
			return nil, NewConflict("Задача была изменена параллельным запросом, повторите")
		}
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, NewInternal(err)
	}

	logger.Info("Service: Статус задачи обновлён",
		zap.String("task_id", updated.ID.String()),
		zap.String("from", string(t.Progress)),
		zap.String("to", string(updated.Progress)),
		zap.String("requester", p.ID.String()),
		zap.String("role", string(p.Role)))

	return updated, nil
}
