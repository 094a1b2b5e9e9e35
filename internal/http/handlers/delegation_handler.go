package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/casavia/estate-backend/internal/dto"
	"github.com/casavia/estate-backend/internal/http/handlers/common"
	"github.com/casavia/estate-backend/internal/http/response"
	"github.com/casavia/estate-backend/internal/models"
	"github.com/casavia/estate-backend/internal/pkg/apperror"
	repocommon "github.com/casavia/estate-backend/internal/repository/common"
)

// DelegationStore хранит полномочия руководителей.
type DelegationStore interface {
	Create(ctx context.Context, delegation *models.Delegation) error
	Delete(ctx context.Context, managerID, agentID uuid.UUID) error
	ListByManager(ctx context.Context, managerID uuid.UUID) ([]models.Delegation, error)
}

// DelegationUserReader читает пользователей для проверки ролей.
type DelegationUserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// DelegationHandler управляет полномочиями руководителей. Полномочие
// выдаёт и отзывает сам агент на своего руководителя: руководитель не
// может назначить себя представителем чужого агента.
type DelegationHandler struct {
	delegations DelegationStore
	users       DelegationUserReader
}

// NewDelegationHandler создаёт хэндлер.
func NewDelegationHandler(delegations DelegationStore, users DelegationUserReader) *DelegationHandler {
	return &DelegationHandler{
		delegations: delegations,
		users:       users,
	}
}

// Create обрабатывает POST /delegations — агент выдаёт полномочие
// руководителю.
func (h *DelegationHandler) Create(c *gin.Context) {
	agentID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	role, err := common.CurrentUserRole(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}
	if role != models.RoleAgent {
		response.Error(c, apperror.New(apperror.ErrCodeForbidden, "выдать полномочие может только агент за себя"))
		return
	}

	var req dto.CreateDelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		response.ValidationError(c, "manager_id должен быть валидным UUID")
		return
	}

	manager, err := h.users.GetByID(c.Request.Context(), managerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if manager.Role != models.RoleManager {
		response.ValidationError(c, "полномочие выдаётся только руководителю")
		return
	}

	delegation := &models.Delegation{
		ManagerID: managerID,
		AgentID:   agentID,
	}
	if err := h.delegations.Create(c.Request.Context(), delegation); err != nil {
		if errors.Is(err, repocommon.ErrAlreadyExists) {
			response.Error(c, apperror.New(apperror.ErrCodeConflict, "полномочие уже выдано"))
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, delegation)
}

// Delete обрабатывает DELETE /delegations/:manager_id — агент отзывает
// выданное им полномочие.
func (h *DelegationHandler) Delete(c *gin.Context) {
	agentID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	managerID, err := common.ParseUUIDParam(c, "manager_id")
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := h.delegations.Delete(c.Request.Context(), managerID, agentID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "полномочие отозвано"})
}

// List обрабатывает GET /delegations — полномочия текущего руководителя.
func (h *DelegationHandler) List(c *gin.Context) {
	managerID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	delegations, err := h.delegations.ListByManager(c.Request.Context(), managerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, delegations)
}
