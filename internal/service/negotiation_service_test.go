package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casavia/estate-backend/internal/domain/entity"
	"github.com/casavia/estate-backend/internal/models"
	"github.com/casavia/estate-backend/internal/pkg/apperror"
)

// mockOfferStore хранит предложения в памяти и честно проверяет version,
// как это делает CAS-запрос в Postgres.
type mockOfferStore struct {
	offers       map[uuid.UUID]*entity.Offer
	conflictOnce bool
}

func newMockOfferStore() *mockOfferStore {
	return &mockOfferStore{offers: make(map[uuid.UUID]*entity.Offer)}
}

func (m *mockOfferStore) Create(ctx context.Context, offer *entity.Offer) error {
	cp := *offer
	cp.Messages = append([]entity.OfferMessage(nil), offer.Messages...)
	m.offers[offer.ID] = &cp
	return nil
}

func (m *mockOfferStore) Append(ctx context.Context, offer *entity.Offer, msg *entity.OfferMessage) error {
	stored, ok := m.offers[offer.ID]
	if !ok {
		return apperror.ErrOfferNotFound
	}
	if m.conflictOnce {
		m.conflictOnce = false
		return apperror.ErrOfferConflict
	}
	if stored.Version != offer.Version {
		return apperror.ErrOfferConflict
	}
	stored.State = offer.State
	stored.TurnHolder = offer.TurnHolder
	stored.UpdatedAt = offer.UpdatedAt
	stored.Version++
	stored.Messages = append(stored.Messages, *msg)
	offer.Version++
	return nil
}

func (m *mockOfferStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	stored, ok := m.offers[id]
	if !ok {
		return nil, apperror.ErrOfferNotFound
	}
	cp := *stored
	cp.Messages = append([]entity.OfferMessage(nil), stored.Messages...)
	return &cp, nil
}

type mockPropertyReader struct {
	properties map[uuid.UUID]*models.Property
}

func (m *mockPropertyReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if p, ok := m.properties[id]; ok {
		return p, nil
	}
	return nil, apperror.ErrPropertyNotFound
}

type mockUserReader struct {
	users map[uuid.UUID]*models.User
}

func (m *mockUserReader) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperror.ErrUserNotFound
}

type mockDelegationChecker struct {
	pairs map[[2]uuid.UUID]bool
}

func (m *mockDelegationChecker) IsDelegateFor(ctx context.Context, managerID, agentID uuid.UUID) (bool, error) {
	return m.pairs[[2]uuid.UUID{managerID, agentID}], nil
}

type negotiationFixture struct {
	svc        *NegotiationService
	store      *mockOfferStore
	properties *mockPropertyReader
	resolver   *RoleResolver
	buyer      *models.User
	agent      *models.User
	manager    *models.User
	stranger   *models.User
	property   *models.Property
}

func newNegotiationFixture(t *testing.T) *negotiationFixture {
	t.Helper()

	buyer := &models.User{ID: uuid.New(), DisplayName: "Анна Покупатель", Role: models.RoleBuyer}
	agent := &models.User{ID: uuid.New(), DisplayName: "Борис Агент", Role: models.RoleAgent}
	manager := &models.User{ID: uuid.New(), DisplayName: "Вера Руководитель", Role: models.RoleManager}
	stranger := &models.User{ID: uuid.New(), DisplayName: "Посторонний", Role: models.RoleBuyer}

	property := &models.Property{
		ID:          uuid.New(),
		AgentID:     agent.ID,
		Title:       "Двухкомнатная квартира на Тверской",
		AskingPrice: 25_000_000,
		Status:      models.PropertyStatusActive,
	}

	store := newMockOfferStore()
	users := &mockUserReader{users: map[uuid.UUID]*models.User{
		buyer.ID: buyer, agent.ID: agent, manager.ID: manager, stranger.ID: stranger,
	}}
	properties := &mockPropertyReader{properties: map[uuid.UUID]*models.Property{property.ID: property}}
	delegations := &mockDelegationChecker{pairs: map[[2]uuid.UUID]bool{
		{manager.ID, agent.ID}: true,
	}}

	resolver := NewRoleResolver(delegations)
	svc := NewNegotiationService(store, properties, users, resolver, nil, nil)

	return &negotiationFixture{
		svc:        svc,
		store:      store,
		properties: properties,
		resolver:   resolver,
		buyer:      buyer,
		agent:      agent,
		manager:    manager,
		stranger:   stranger,
		property:   property,
	}
}

func TestNegotiationService_CreateOffer(t *testing.T) {
	f := newNegotiationFixture(t)

	offer, err := f.svc.CreateOffer(context.Background(), CreateOfferInput{
		PropertyID: f.property.ID,
		BuyerID:    f.buyer.ID,
		Amount:     23_000_000,
	})
	require.NoError(t, err)

	assert.Equal(t, "proposed", string(offer.State))
	assert.Equal(t, "responsible", string(offer.TurnHolder))
	assert.Equal(t, f.agent.ID, offer.ResponsibleID)
	require.Len(t, offer.Messages, 1)
	assert.Equal(t, "proposal", string(offer.Messages[0].Kind))
	require.NotNil(t, offer.Messages[0].Price)
	assert.Equal(t, int64(23_000_000), *offer.Messages[0].Price)
}

func TestNegotiationService_CreateOffer_PropertyNotFound(t *testing.T) {
	f := newNegotiationFixture(t)

	_, err := f.svc.CreateOffer(context.Background(), CreateOfferInput{
		PropertyID: uuid.New(),
		BuyerID:    f.buyer.ID,
		Amount:     1_000_000,
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestNegotiationService_CreateOffer_InactiveProperty(t *testing.T) {
	f := newNegotiationFixture(t)
	f.property.Status = models.PropertyStatusSold

	_, err := f.svc.CreateOffer(context.Background(), CreateOfferInput{
		PropertyID: f.property.ID,
		BuyerID:    f.buyer.ID,
		Amount:     1_000_000,
	})
	assert.True(t, apperror.IsConflict(err))
}

func TestNegotiationService_CreateOffer_OwnProperty(t *testing.T) {
	f := newNegotiationFixture(t)

	_, err := f.svc.CreateOffer(context.Background(), CreateOfferInput{
		PropertyID: f.property.ID,
		BuyerID:    f.agent.ID,
		Amount:     1_000_000,
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeBadRequest, appErr.Code)
}

func TestNegotiationService_CreateOffer_InvalidPrice(t *testing.T) {
	f := newNegotiationFixture(t)

	for _, amount := range []int64{0, -500_000} {
		_, err := f.svc.CreateOffer(context.Background(), CreateOfferInput{
			PropertyID: f.property.ID,
			BuyerID:    f.buyer.ID,
			Amount:     amount,
		})
		assert.True(t, apperror.IsInvalidPrice(err), "цена %d должна быть отклонена", amount)
	}
}

func TestNegotiationService_SubmitResponse_AcceptByAgent(t *testing.T) {
	f := newNegotiationFixture(t)
	offer := createOffer(t, f, 23_000_000)

	updated, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.agent.ID,
		Outcome: "accept",
	})
	require.NoError(t, err)

	assert.Equal(t, "accepted", string(updated.State))
	assert.True(t, updated.IsTerminal())
	require.Len(t, updated.Messages, 2)
	assert.Equal(t, "acceptance", string(updated.Messages[1].Kind))
	assert.Nil(t, updated.Messages[1].Price)
}

func TestNegotiationService_SubmitResponse_CounterExchange(t *testing.T) {
	f := newNegotiationFixture(t)
	offer := createOffer(t, f, 23_000_000)

	counter := int64(24_500_000)
	updated, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID:  offer.ID,
		ActorID:  f.agent.ID,
		Outcome:  "counter",
		NewPrice: &counter,
	})
	require.NoError(t, err)
	assert.Equal(t, "countered", string(updated.State))
	assert.Equal(t, "buyer", string(updated.TurnHolder))

	// Теперь очередь покупателя, он принимает встречное предложение.
	final, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.buyer.ID,
		Outcome: "accept",
	})
	require.NoError(t, err)
	assert.Equal(t, "accepted", string(final.State))
	require.Len(t, final.Messages, 3)
}

func TestNegotiationService_SubmitResponse_NotYourTurn(t *testing.T) {
	f := newNegotiationFixture(t)
	offer := createOffer(t, f, 23_000_000)

	// Очередь агента: покупатель ходить не может.
	_, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.buyer.ID,
		Outcome: "accept",
	})
	assert.True(t, apperror.IsNotYourTurn(err))
}

func TestNegotiationService_SubmitResponse_Stranger(t *testing.T) {
	f := newNegotiationFixture(t)
	offer := createOffer(t, f, 23_000_000)

	_, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.stranger.ID,
		Outcome: "accept",
	})
	assert.True(t, apperror.IsNotYourTurn(err))
}

func TestNegotiationService_SubmitResponse_Terminal(t *testing.T) {
	f := newNegotiationFixture(t)
	offer := createOffer(t, f, 23_000_000)

	_, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.agent.ID,
		Outcome: "reject",
	})
	require.NoError(t, err)

	// Завершённость поглощает все остальные проверки, даже для постороннего.
	for _, actor := range []uuid.UUID{f.buyer.ID, f.agent.ID, f.stranger.ID} {
		_, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
			OfferID: offer.ID,
			ActorID: actor,
			Outcome: "accept",
		})
		assert.True(t, apperror.IsAlreadyTerminal(err))
	}
}

func TestNegotiationService_SubmitResponse_CounterWithoutPrice(t *testing.T) {
	f := newNegotiationFixture(t)
	offer := createOffer(t, f, 23_000_000)

	_, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.agent.ID,
		Outcome: "counter",
	})
	assert.True(t, apperror.IsInvalidPrice(err))

	// Неудачный ход ничего не меняет.
	stored, err := f.store.GetByID(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "proposed", string(stored.State))
	assert.Len(t, stored.Messages, 1)
}

func TestNegotiationService_SubmitResponse_UnknownOutcome(t *testing.T) {
	f := newNegotiationFixture(t)
	offer := createOffer(t, f, 23_000_000)

	_, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.agent.ID,
		Outcome: "maybe",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestNegotiationService_SubmitResponse_DelegatedManager(t *testing.T) {
	f := newNegotiationFixture(t)
	offer := createOffer(t, f, 23_000_000)

	updated, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.manager.ID,
		Outcome: "accept",
	})
	require.NoError(t, err)
	assert.Equal(t, "accepted", string(updated.State))
	// Ход записан от ответственной стороны, но автор — сам руководитель.
	assert.Equal(t, "responsible", string(updated.Messages[1].Side))
	assert.Equal(t, f.manager.ID, updated.Messages[1].AuthorID)
}

func TestNegotiationService_SubmitResponse_StaleVersion(t *testing.T) {
	f := newNegotiationFixture(t)
	offer := createOffer(t, f, 23_000_000)

	f.store.conflictOnce = true
	_, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.agent.ID,
		Outcome: "accept",
	})
	assert.True(t, apperror.IsConflict(err))

	// Повтор по свежей версии проходит.
	_, err = f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.agent.ID,
		Outcome: "accept",
	})
	assert.NoError(t, err)
}

func TestNegotiationService_SubmitResponse_NotFound(t *testing.T) {
	f := newNegotiationFixture(t)

	_, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: uuid.New(),
		ActorID: f.agent.ID,
		Outcome: "accept",
	})
	assert.True(t, apperror.IsNotFound(err))
}

func createOffer(t *testing.T, f *negotiationFixture, amount int64) *entity.Offer {
	t.Helper()
	offer, err := f.svc.CreateOffer(context.Background(), CreateOfferInput{
		PropertyID: f.property.ID,
		BuyerID:    f.buyer.ID,
		Amount:     amount,
	})
	require.NoError(t, err)
	return offer
}
