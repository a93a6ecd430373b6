package service

import (
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"

	"github.com/google/uuid"
)

// transitionPolicy решает, разрешён ли переход статуса, и возвращает
// итогового исполнителя. Вариант политики выбирается один раз по роли.
type transitionPolicy interface {
	Authorize(t *task.Task, target task.Status, p user.Principal) (*uuid.UUID, *BusinessError)
}

func policyFor(role user.Role) transitionPolicy {
	if role == user.RoleAdmin {
		return adminPolicy{}
	}
	return memberPolicy{}
}

// adminPolicy: админ может принудительно выставить любой статус любой задаче.
// Исполнитель при этом не меняется - захват задач через этот путь не для админов.
type adminPolicy struct{}

func (adminPolicy) Authorize(t *task.Task, target task.Status, p user.Principal) (*uuid.UUID, *BusinessError) {
	return t.AssignedUserID, nil
}

// memberPolicy: обычный пользователь либо захватывает Pending-задачу,
// либо двигает свою задачу ровно на один шаг вперёд по конвейеру.
// Порядок проверок фиксированный: владение раньше легальности перехода.
type memberPolicy struct{}

func (memberPolicy) Authorize(t *task.Task, target task.Status, p user.Principal) (*uuid.UUID, *BusinessError) {
	if t.Progress == task.StatusPending && target == task.StatusInProgress {
		// захват: задача становится задачей запросившего
		id := p.ID
		return &id, nil
	}

	if t.AssignedUserID == nil || *t.AssignedUserID != p.ID {
		return nil, NewForbidden("Можно обновлять только задачи, назначенные вам")
	}

	if next, ok := t.Progress.Next(); !ok || next != target {
		return nil, NewInvalidTransition(string(t.Progress), string(target))
	}

	return t.AssignedUserID, nil
}
