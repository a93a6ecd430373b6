package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/user"
	rep "taskManager/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) UserService {
	return UserService{
		users: users,
	}
}

type CreateUserParams struct {
	Name        string
	Surname     string
	Role        string
	Email       string
	Password    string
	BirthDate   *string
	PhoneNumber *string
}

// CreateUser доступен только админу, саморегистрации нет.
// Порядок валидации обязательных полей: name, surname, role, email, password.
func (s *UserService) CreateUser(ctx context.Context, p user.Principal, params CreateUserParams) (*user.User, error) {
	if !p.IsAdmin() {
		return nil, NewForbidden("Требуются права администратора")
	}

	if params.Name == "" {
		return nil, NewValidationError("name", "обязательное поле")
	}
	if params.Surname == "" {
		return nil, NewValidationError("surname", "обязательное поле")
	}
	if params.Role == "" {
		return nil, NewValidationError("role", "обязательное поле")
	}
	if params.Email == "" {
		return nil, NewValidationError("email", "обязательное поле")
	}
	if params.Password == "" {
		return nil, NewValidationError("password", "обязательное поле")
	}

	role, ok := user.ParseRole(params.Role)
	if !ok {
		return nil, NewValidationError("role", "допустимы только admin или user")
	}

	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, NewValidationError("email", "неверный формат")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewInternal(err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Surname:      params.Surname,
		Role:         role,
		Email:        params.Email,
		PasswordHash: string(hash),
		BirthDate:    params.BirthDate,
		PhoneNumber:  params.PhoneNumber,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, rep.ErrEmailTaken) {
			return nil, NewConflict("Email уже существует")
		}
		return nil, NewInternal(err)
	}

	logger.Info("Service: Пользователь создан",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
		zap.String("created_by", p.ID.String()))

	return u, nil
}

// Authenticate не различает "нет такого email" и "неверный пароль".
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewUnauthenticated()
		}
		return nil, NewInternal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Service: Неудачная попытка входа", zap.String("email", email))
		return nil, NewUnauthenticated()
	}

	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context, p user.Principal) ([]*user.User, error) {
	if !p.IsAdmin() {
		return nil, NewForbidden("Требуются права администратора")
	}

	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, NewInternal(err)
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("пользователь", id.String())
		}
		return nil, NewInternal(err)
	}
	return u, nil
}
