package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/casavia/estate-backend/internal/models"
	"github.com/casavia/estate-backend/internal/repository/common"
)

// DelegationRepository хранит полномочия руководителей отвечать за агентов.
type DelegationRepository struct {
	db *sqlx.DB
}

// NewDelegationRepository создаёт новый экземпляр.
func NewDelegationRepository(db *sqlx.DB) *DelegationRepository {
	return &DelegationRepository{db: db}
}

// Create фиксирует полномочие. Повторная выдача того же полномочия — конфликт.
func (r *DelegationRepository) Create(ctx context.Context, delegation *models.Delegation) error {
	query := `
		INSERT INTO delegations (manager_id, agent_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, delegation.ManagerID, delegation.AgentID).
		Scan(&delegation.ID, &delegation.CreatedAt); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("delegation repository: create %w", err)
	}

	return nil
}

// Delete отзывает полномочие.
func (r *DelegationRepository) Delete(ctx context.Context, managerID, agentID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM delegations WHERE manager_id = $1 AND agent_id = $2`, managerID, agentID); err != nil {
		return fmt.Errorf("delegation repository: delete %w", err)
	}

	return nil
}

// IsDelegateFor сообщает, уполномочен ли руководитель отвечать вместо агента.
func (r *DelegationRepository) IsDelegateFor(ctx context.Context, managerID, agentID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM delegations WHERE manager_id = $1 AND agent_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, managerID, agentID); err != nil {
		return false, fmt.Errorf("delegation repository: is delegate for %w", err)
	}

	return exists, nil
}

// ListByManager возвращает все полномочия руководителя.
func (r *DelegationRepository) ListByManager(ctx context.Context, managerID uuid.UUID) ([]models.Delegation, error) {
	query := `
		SELECT id, manager_id, agent_id, created_at
		FROM delegations
		WHERE manager_id = $1
		ORDER BY created_at DESC
	`

	var delegations []models.Delegation
	if err := r.db.SelectContext(ctx, &delegations, query, managerID); err != nil {
		return nil, fmt.Errorf("delegation repository: list by manager %w", err)
	}

	return delegations, nil
}
