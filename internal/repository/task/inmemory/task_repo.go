package inmemory

import (
	"context"
	"sync"
	"time"

	"taskManager/internal/models/stats"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
)

type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now()
	}

	stored := *taskToCreate
	s.storage[stored.ID] = &stored
	s.ids = append(s.ids, stored.ID)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	t := *stored
	return &t, nil
}

// GetAll возвращает задачи новыми первыми.
func (s *TaskStorage) GetAll(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for i := len(s.ids) - 1; i >= 0; i-- {
		t := *s.storage[s.ids[i]]
		res = append(res, &t)
	}
	return res, nil
}

// UpdateProgress выполняет проверку и запись под одной блокировкой,
// поэтому два параллельных захвата одной задачи не могут пройти оба.
func (s *TaskStorage) UpdateProgress(ctx context.Context, id uuid.UUID, from, to task.Status, assignee *uuid.UUID) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	if stored.Progress != from {
		return nil, repo.ErrProgressConflict
	}

	now := time.Now()
	stored.Progress = to
	stored.AssignedUserID = assignee
	stored.UpdatedAt = &now

	t := *stored
	return &t, nil
}

func (s *TaskStorage) GlobalStats(ctx context.Context) (*stats.GlobalTaskStats, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	st := &stats.GlobalTaskStats{}
	for _, t := range s.storage {
		countTask(&st.TaskStats, t)
		if t.AssignedUserID == nil {
			st.UnassignedTasks++
		}
	}
	return st, nil
}

func (s *TaskStorage) StatsByUser(ctx context.Context, userID uuid.UUID) (*stats.TaskStats, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	st := &stats.TaskStats{}
	for _, t := range s.storage {
		if t.AssignedUserID == nil || *t.AssignedUserID != userID {
			continue
		}
		countTask(st, t)
	}
	return st, nil
}

func (s *TaskStorage) CountByAssignee(ctx context.Context) (map[uuid.UUID]stats.PerUserCount, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	counts := make(map[uuid.UUID]stats.PerUserCount)
	for _, t := range s.storage {
		if t.AssignedUserID == nil {
			continue
		}

		c := counts[*t.AssignedUserID]
		c.TotalTasks++
		if t.Progress == task.StatusDone {
			c.CompletedTasks++
		}
		counts[*t.AssignedUserID] = c
	}
	return counts, nil
}

func countTask(st *stats.TaskStats, t *task.Task) {
	st.TotalTasks++

	switch t.Progress {
	case task.StatusPending:
		st.PendingTasks++
	case task.StatusInProgress:
		st.InProgressTasks++
	case task.StatusNeedsReview:
		st.NeedsReviewTasks++
	case task.StatusInReview:
		st.InReviewTasks++
	case task.StatusNeedsValidation:
		st.NeedsValidationTasks++
	case task.StatusDone:
		st.CompletedTasks++
	}

	switch t.Priority {
	case task.PriorityHigh:
		st.HighPriorityTasks++
	case task.PriorityMedium:
		st.MediumPriorityTasks++
	case task.PriorityLow:
		st.LowPriorityTasks++
	}
}
