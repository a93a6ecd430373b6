package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(r string) (Role, bool) {
	switch Role(r) {
	case RoleAdmin, RoleUser:
		return Role(r), true
	}
	return "", false
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Surname      string    `json:"surname" db:"surname"`
	Role         Role      `json:"role" db:"role"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	BirthDate    *string   `json:"birth_date,omitempty" db:"birth_date"`
	PhoneNumber  *string   `json:"phone_number,omitempty" db:"phone_number"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Principal - авторизованный субъект запроса.
// Передаётся явно в каждую операцию сервиса, никакого глобального состояния сессии.
type Principal struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Surname string    `json:"surname"`
	Role    Role      `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
