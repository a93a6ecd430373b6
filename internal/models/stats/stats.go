package stats

import "github.com/google/uuid"

// TaskStats - счётчики задач по статусам и приоритетам.
// Инвариант: TotalTasks равен сумме шести статусных счётчиков.
type TaskStats struct {
	TotalTasks           int `json:"total_tasks"`
	PendingTasks         int `json:"pending_tasks"`
	InProgressTasks      int `json:"in_progress_tasks"`
	NeedsReviewTasks     int `json:"needs_review_tasks"`
	InReviewTasks        int `json:"in_review_tasks"`
	NeedsValidationTasks int `json:"needs_validation_tasks"`
	CompletedTasks       int `json:"completed_tasks"`
	HighPriorityTasks    int `json:"high_priority_tasks"`
	MediumPriorityTasks  int `json:"medium_priority_tasks"`
	LowPriorityTasks     int `json:"low_priority_tasks"`
}

type GlobalTaskStats struct {
	TaskStats
	UnassignedTasks int `json:"unassigned_tasks"`
}

type UserStats struct {
	TotalUsers  int `json:"total_users"`
	AdminUsers  int `json:"admin_users"`
	NormalUsers int `json:"normal_users"`
}

type PerUserStat struct {
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
}

// PerUserCount - счётчики задач одного исполнителя (ключ - id пользователя).
type PerUserCount struct {
	TotalTasks     int
	CompletedTasks int
}

type GlobalStats struct {
	TaskStats    GlobalTaskStats `json:"task_stats"`
	UserStats    UserStats       `json:"user_stats"`
	PerUserStats []PerUserStat   `json:"per_user_stats"`
}

type UserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserTaskStats struct {
	UserInfo  UserInfo  `json:"user_info"`
	TaskStats TaskStats `json:"task_stats"`
}
