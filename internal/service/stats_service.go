package service

import (
	"context"
	"errors"
	"sort"

	"taskManager/internal/models/stats"
	"taskManager/internal/models/user"
	rep "taskManager/internal/repository"

	"github.com/google/uuid"
)

// агрегация только на чтение, никаких мутаций

type StatsService struct {
	tasks TaskRepository
	users UserRepository
}

func NewStatsService(tasks TaskRepository, users UserRepository) StatsService {
	return StatsService{
		tasks: tasks,
		users: users,
	}
}

func (s *StatsService) Global(ctx context.Context, p user.Principal) (*stats.GlobalStats, error) {
	if !p.IsAdmin() {
		return nil, NewForbidden("Требуются права администратора")
	}

	taskStats, err := s.tasks.GlobalStats(ctx)
	if err != nil {
		return nil, NewInternal(err)
	}

	userStats, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, NewInternal(err)
	}

	counts, err := s.tasks.CountByAssignee(ctx)
	if err != nil {
		return nil, NewInternal(err)
	}

	allUsers, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, NewInternal(err)
	}

	// в разрезе по исполнителям участвуют только обычные пользователи,
	// включая тех, у кого ноль задач
	perUser := []stats.PerUserStat{}
	for _, u := range allUsers {
		if u.Role != user.RoleUser {
			continue
		}

		c := counts[u.ID]
		perUser = append(perUser, stats.PerUserStat{
			UserID:         u.ID,
			Name:           u.Name + " " + u.Surname,
			Email:          u.Email,
			TotalTasks:     c.TotalTasks,
			CompletedTasks: c.CompletedTasks,
		})
	}

	sort.SliceStable(perUser, func(i, j int) bool {
		return perUser[i].TotalTasks > perUser[j].TotalTasks
	})

	return &stats.GlobalStats{
		TaskStats:    *taskStats,
		UserStats:    *userStats,
		PerUserStats: perUser,
	}, nil
}

// User отдаёт статистику самого запросившего; чужой user_id учитывается
// только для админа, для остальных параметр молча игнорируется.
func (s *StatsService) User(ctx context.Context, p user.Principal, requestedID *uuid.UUID) (*stats.UserTaskStats, error) {
	targetID := p.ID
	if requestedID != nil && p.IsAdmin() {
		targetID = *requestedID
	}

	u, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("пользователь", targetID.String())
		}
		return nil, NewInternal(err)
	}

	taskStats, err := s.tasks.StatsByUser(ctx, targetID)
	if err != nil {
		return nil, NewInternal(err)
	}

	return &stats.UserTaskStats{
		UserInfo: stats.UserInfo{
			Name:  u.Name + " " + u.Surname,
			Email: u.Email,
		},
		TaskStats: *taskStats,
	}, nil
}
