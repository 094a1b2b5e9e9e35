package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casavia/estate-backend/internal/http/middleware"
	"github.com/casavia/estate-backend/internal/models"
	"github.com/casavia/estate-backend/internal/repository"
)

type mockDelegationStore struct {
	created []models.Delegation
	deleted [][2]uuid.UUID
}

func (m *mockDelegationStore) Create(_ context.Context, delegation *models.Delegation) error {
	delegation.ID = uuid.New()
	m.created = append(m.created, *delegation)
	return nil
}

func (m *mockDelegationStore) Delete(_ context.Context, managerID, agentID uuid.UUID) error {
	m.deleted = append(m.deleted, [2]uuid.UUID{managerID, agentID})
	return nil
}

func (m *mockDelegationStore) ListByManager(_ context.Context, _ uuid.UUID) ([]models.Delegation, error) {
	return nil, nil
}

type mockUserDirectory struct {
	users map[uuid.UUID]*models.User
}

func (m *mockUserDirectory) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func delegationTestContext(t *testing.T, userID uuid.UUID, role, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/delegations", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserIDKey, userID)
	c.Set(middleware.ContextRoleKey, role)

	return c, w
}

func TestDelegationHandler_Create_AgentGrantsManager(t *testing.T) {
	agentID := uuid.New()
	managerID := uuid.New()

	store := &mockDelegationStore{}
	users := &mockUserDirectory{users: map[uuid.UUID]*models.User{
		managerID: {ID: managerID, DisplayName: "Ольга Смирнова", Role: models.RoleManager},
	}}
	h := NewDelegationHandler(store, users)

	c, w := delegationTestContext(t, agentID, models.RoleAgent, `{"manager_id":"`+managerID.String()+`"}`)
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.created, 1)
	assert.Equal(t, agentID, store.created[0].AgentID)
	assert.Equal(t, managerID, store.created[0].ManagerID)
}

func TestDelegationHandler_Create_ManagerCannotSelfIssue(t *testing.T) {
	managerID := uuid.New()
	agentID := uuid.New()

	store := &mockDelegationStore{}
	users := &mockUserDirectory{users: map[uuid.UUID]*models.User{
		agentID: {ID: agentID, DisplayName: "Пётр Волков", Role: models.RoleAgent},
	}}
	h := NewDelegationHandler(store, users)

	// Руководитель пытается назначить себя представителем агента.
	c, w := delegationTestContext(t, managerID, models.RoleManager, `{"manager_id":"`+managerID.String()+`"}`)
	h.Create(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, store.created)
}

func TestDelegationHandler_Create_TargetMustBeManager(t *testing.T) {
	agentID := uuid.New()
	buyerID := uuid.New()

	store := &mockDelegationStore{}
	users := &mockUserDirectory{users: map[uuid.UUID]*models.User{
		buyerID: {ID: buyerID, DisplayName: "Иван Иванов", Role: models.RoleBuyer},
	}}
	h := NewDelegationHandler(store, users)

	c, w := delegationTestContext(t, agentID, models.RoleAgent, `{"manager_id":"`+buyerID.String()+`"}`)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.created)
}

func TestDelegationHandler_Delete_AgentRevokesOwnGrant(t *testing.T) {
	agentID := uuid.New()
	managerID := uuid.New()

	store := &mockDelegationStore{}
	h := NewDelegationHandler(store, &mockUserDirectory{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/delegations/"+managerID.String(), nil)
	c.Params = gin.Params{{Key: "manager_id", Value: managerID.String()}}
	c.Set(middleware.ContextUserIDKey, agentID)
	c.Set(middleware.ContextRoleKey, models.RoleAgent)

	h.Delete(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.deleted, 1)
	assert.Equal(t, managerID, store.deleted[0][0])
	assert.Equal(t, agentID, store.deleted[0][1])
}
