package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/casavia/estate-backend/internal/domain/entity"
	"github.com/casavia/estate-backend/internal/domain/valueobject"
)

// DelegationChecker отвечает на вопрос, уполномочен ли руководитель
// действовать вместо конкретного агента.
type DelegationChecker interface {
	IsDelegateFor(ctx context.Context, managerID, agentID uuid.UUID) (bool, error)
}

// RoleResolver определяет сторону участника в конкретных переговорах.
// Прямые участники разрешаются по агрегату, руководители — через
// выданные полномочия.
type RoleResolver struct {
	delegations DelegationChecker
}

// NewRoleResolver создаёт резолвер.
func NewRoleResolver(delegations DelegationChecker) *RoleResolver {
	return &RoleResolver{delegations: delegations}
}

// ResolveSide возвращает сторону, от имени которой участник может ходить.
// Покупатель и ответственный агент разрешаются напрямую; руководитель
// получает sides responsible, только если уполномочен за агента предложения.
func (r *RoleResolver) ResolveSide(ctx context.Context, offer *entity.Offer, partyID uuid.UUID) (valueobject.Side, bool, error) {
	if side, ok := offer.SideOf(partyID); ok {
		return side, true, nil
	}

	ok, err := r.delegations.IsDelegateFor(ctx, partyID, offer.ResponsibleID)
	if err != nil {
		return "", false, err
	}
	if ok {
		return valueobject.SideResponsible, true, nil
	}

	return "", false, nil
}

// CanReply сообщает, может ли участник сделать ход прямо сейчас:
// переговоры не завершены, участник принадлежит стороне, и очередь за ней.
func (r *RoleResolver) CanReply(ctx context.Context, offer *entity.Offer, partyID uuid.UUID) (bool, error) {
	if offer.IsTerminal() {
		return false, nil
	}

	side, ok, err := r.ResolveSide(ctx, offer, partyID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	return offer.HoldsTurn(side), nil
}
