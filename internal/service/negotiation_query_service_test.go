package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casavia/estate-backend/internal/models"
	"github.com/casavia/estate-backend/internal/pkg/apperror"
)

func newQueryServiceFromFixture(f *negotiationFixture) *NegotiationQueryService {
	return NewNegotiationQueryService(f.store, nil, f.properties, f.resolver)
}

// mockOfferLister запоминает параметры последнего вызова и отдаёт
// заготовленные строки.
type mockOfferLister struct {
	summaries  []models.OfferSummary
	lastParty  uuid.UUID
	lastLimit  int
	lastOffset int
	pending    bool
}

func (m *mockOfferLister) ListForParty(_ context.Context, partyID uuid.UUID, limit, offset int) ([]models.OfferSummary, error) {
	m.lastParty, m.lastLimit, m.lastOffset = partyID, limit, offset
	m.pending = false
	return m.summaries, nil
}

func (m *mockOfferLister) ListPendingForResponsible(_ context.Context, responsibleID uuid.UUID, limit, offset int) ([]models.OfferSummary, error) {
	m.lastParty, m.lastLimit, m.lastOffset = responsibleID, limit, offset
	m.pending = true
	return m.summaries, nil
}

func TestNegotiationQueryService_GetHistory(t *testing.T) {
	f := newNegotiationFixture(t)
	query := newQueryServiceFromFixture(f)
	offer := createOffer(t, f, 23_000_000)

	counter := int64(24_000_000)
	_, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID:  offer.ID,
		ActorID:  f.agent.ID,
		Outcome:  "counter",
		NewPrice: &counter,
	})
	require.NoError(t, err)

	// Глазами покупателя: первое сообщение его, второе чужое, очередь его.
	view, err := query.GetHistory(context.Background(), offer.ID, f.buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "countered", view.State)
	assert.Equal(t, f.property.Title, view.PropertyTitle)
	assert.Equal(t, int64(23_000_000), view.InitialPrice)
	require.Len(t, view.Messages, 2)
	assert.True(t, view.Messages[0].IsAuthoredByViewer)
	assert.False(t, view.Messages[1].IsAuthoredByViewer)
	assert.True(t, view.CanReply)

	// Глазами агента та же история размечена наоборот, и хода у него нет.
	view, err = query.GetHistory(context.Background(), offer.ID, f.agent.ID)
	require.NoError(t, err)
	assert.False(t, view.Messages[0].IsAuthoredByViewer)
	assert.True(t, view.Messages[1].IsAuthoredByViewer)
	assert.False(t, view.CanReply)
}

func TestNegotiationQueryService_GetHistory_StrangerGetsNotFound(t *testing.T) {
	f := newNegotiationFixture(t)
	query := newQueryServiceFromFixture(f)
	offer := createOffer(t, f, 23_000_000)

	// Посторонний не должен узнать, что переговоры вообще существуют.
	_, err := query.GetHistory(context.Background(), offer.ID, f.stranger.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestNegotiationQueryService_GetHistory_DelegatedManager(t *testing.T) {
	f := newNegotiationFixture(t)
	query := newQueryServiceFromFixture(f)
	offer := createOffer(t, f, 23_000_000)

	// Руководитель уполномочен за агента: видит историю и может отвечать.
	view, err := query.GetHistory(context.Background(), offer.ID, f.manager.ID)
	require.NoError(t, err)
	assert.True(t, view.CanReply)
	assert.False(t, view.Messages[0].IsAuthoredByViewer)
}

func TestNegotiationQueryService_GetHistory_Terminal(t *testing.T) {
	f := newNegotiationFixture(t)
	query := newQueryServiceFromFixture(f)
	offer := createOffer(t, f, 23_000_000)

	_, err := f.svc.SubmitResponse(context.Background(), SubmitResponseInput{
		OfferID: offer.ID,
		ActorID: f.agent.ID,
		Outcome: "accept",
	})
	require.NoError(t, err)

	// После завершения отвечать не может никто.
	view, err := query.GetHistory(context.Background(), offer.ID, f.buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", view.State)
	assert.False(t, view.CanReply)

	view, err = query.GetHistory(context.Background(), offer.ID, f.agent.ID)
	require.NoError(t, err)
	assert.False(t, view.CanReply)
}

func TestNegotiationQueryService_ListForParty(t *testing.T) {
	f := newNegotiationFixture(t)
	lister := &mockOfferLister{summaries: []models.OfferSummary{
		{
			OfferID:         uuid.New(),
			PropertyID:      f.property.ID,
			PropertyTitle:   f.property.Title,
			LastState:       "countered",
			TurnHolder:      "buyer",
			LastModified:    time.Now(),
			CounterpartID:   f.agent.ID,
			CounterpartName: f.agent.DisplayName,
		},
	}}
	query := NewNegotiationQueryService(f.store, lister, f.properties, f.resolver)

	summaries, err := query.ListForParty(context.Background(), f.buyer.ID, 50, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, f.agent.DisplayName, summaries[0].CounterpartName)
	assert.Equal(t, f.buyer.ID, lister.lastParty)
	assert.False(t, lister.pending)
	assert.Equal(t, 50, lister.lastLimit)
	assert.Equal(t, 10, lister.lastOffset)
}

func TestNegotiationQueryService_ListForParty_PageClamping(t *testing.T) {
	f := newNegotiationFixture(t)
	lister := &mockOfferLister{}
	query := NewNegotiationQueryService(f.store, lister, f.properties, f.resolver)

	// Нулевой и завышенный limit сводятся к значению по умолчанию,
	// отрицательный offset — к нулю.
	_, err := query.ListForParty(context.Background(), f.buyer.ID, 0, -3)
	require.NoError(t, err)
	assert.Equal(t, 20, lister.lastLimit)
	assert.Equal(t, 0, lister.lastOffset)

	_, err = query.ListForParty(context.Background(), f.buyer.ID, 500, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, lister.lastLimit)
}

func TestNegotiationQueryService_ListPendingForResponsible(t *testing.T) {
	f := newNegotiationFixture(t)
	lister := &mockOfferLister{summaries: []models.OfferSummary{
		{
			OfferID:         uuid.New(),
			PropertyID:      f.property.ID,
			PropertyTitle:   f.property.Title,
			LastState:       "proposed",
			TurnHolder:      "responsible",
			LastModified:    time.Now(),
			CounterpartID:   f.buyer.ID,
			CounterpartName: f.buyer.DisplayName,
		},
	}}
	query := NewNegotiationQueryService(f.store, lister, f.properties, f.resolver)

	summaries, err := query.ListPendingForResponsible(context.Background(), f.agent.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "responsible", summaries[0].TurnHolder)
	assert.True(t, lister.pending)
	assert.Equal(t, f.agent.ID, lister.lastParty)
	assert.Equal(t, 20, lister.lastLimit)
}
