package dto

import (
	"time"

	"taskManager/internal/models/task"
	"taskManager/internal/models/user"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Priority       string     `json:"priority"`
	Description    string     `json:"description"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id,omitempty"`
}

type UpdateStatusRequest struct {
	TaskID    uuid.UUID `json:"task_id"`
	NewStatus string    `json:"new_status"`
}

type CreateUserRequest struct {
	Name        string  `json:"name"`
	Surname     string  `json:"surname"`
	Role        string  `json:"role"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	BirthDate   *string `json:"birth_date,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

type PrincipalResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Surname string    `json:"surname"`
	Role    user.Role `json:"role"`
}

func FromPrincipal(p user.Principal) PrincipalResponse {
	return PrincipalResponse{
		ID:      p.ID,
		Name:    p.Name,
		Surname: p.Surname,
		Role:    p.Role,
	}
}

type TaskResponse struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Priority         string     `json:"priority"`
	Progress         string     `json:"progress"`
	Description      string     `json:"description"`
	AssignedUserID   *uuid.UUID `json:"assigned_user_id"`
	AssignedUserName *string    `json:"assigned_user_name"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:               t.ID,
		Title:            t.Title,
		Priority:         string(t.Priority),
		Progress:         string(t.Progress),
		Description:      t.Description,
		AssignedUserID:   t.AssignedUserID,
		AssignedUserName: t.AssignedUserName,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	Role        user.Role `json:"role"`
	Email       string    `json:"email"`
	BirthDate   *string   `json:"birth_date"`
	PhoneNumber *string   `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Surname:     u.Surname,
		Role:        u.Role,
		Email:       u.Email,
		BirthDate:   u.BirthDate,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
	}
}

func FromUserList(users []*user.User) []UserResponse {
	result := make([]UserResponse, len(users))
	for i, u := range users {
		result[i] = FromUser(u)
	}
	return result
}
