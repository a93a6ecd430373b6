package repository

import "errors"

var (
	ErrNotFound = errors.New("запись не найдена")

	// ErrEmailTaken - нарушение уникального индекса по email.
	ErrEmailTaken = errors.New("email уже существует")

	// ErrProgressConflict - условное обновление не затронуло ни одной строки:
	// текущий прогресс задачи уже не тот, от которого отталкивался запрос.
	ErrProgressConflict = errors.New("конфликт статуса задачи")
)
