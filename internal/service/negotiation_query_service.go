package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/casavia/estate-backend/internal/models"
	"github.com/casavia/estate-backend/internal/pkg/apperror"
)

// OfferLister читает списки переговоров.
type OfferLister interface {
	ListForParty(ctx context.Context, partyID uuid.UUID, limit, offset int) ([]models.OfferSummary, error)
	ListPendingForResponsible(ctx context.Context, responsibleID uuid.UUID, limit, offset int) ([]models.OfferSummary, error)
}

// NegotiationQueryService собирает истории и списки переговоров под
// конкретного зрителя. Ничего не изменяет.
type NegotiationQueryService struct {
	offers     OfferStore
	lister     OfferLister
	properties PropertyReader
	resolver   *RoleResolver
}

// NewNegotiationQueryService создаёт сервис чтения переговоров.
func NewNegotiationQueryService(offers OfferStore, lister OfferLister, properties PropertyReader, resolver *RoleResolver) *NegotiationQueryService {
	return &NegotiationQueryService{
		offers:     offers,
		lister:     lister,
		properties: properties,
		resolver:   resolver,
	}
}

// GetHistory возвращает историю переговоров глазами зрителя. Посторонний
// получает «не найдено», а не «запрещено»: существование чужих переговоров
// не раскрывается. Признак авторства вычисляется на каждый запрос.
func (s *NegotiationQueryService) GetHistory(ctx context.Context, offerID, viewerID uuid.UUID) (*models.OfferHistoryView, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	_, related, err := s.resolver.ResolveSide(ctx, offer, viewerID)
	if err != nil {
		return nil, fmt.Errorf("negotiation query: resolve side %w", err)
	}
	if !related {
		return nil, apperror.ErrOfferNotFound
	}

	property, err := s.properties.GetByID(ctx, offer.PropertyID)
	if err != nil {
		return nil, err
	}

	canReply, err := s.resolver.CanReply(ctx, offer, viewerID)
	if err != nil {
		return nil, fmt.Errorf("negotiation query: can reply %w", err)
	}

	view := &models.OfferHistoryView{
		OfferID:       offer.ID,
		PropertyID:    offer.PropertyID,
		PropertyTitle: property.Title,
		InitialPrice:  offer.InitialPrice,
		State:         string(offer.State),
		Messages:      make([]models.OfferMessageView, 0, len(offer.Messages)),
		CanReply:      canReply,
	}

	for _, msg := range offer.Messages {
		view.Messages = append(view.Messages, models.OfferMessageView{
			ID:                 msg.ID,
			AuthorName:         msg.AuthorName,
			Kind:               string(msg.Kind),
			Price:              msg.Price,
			Note:               msg.Note,
			IsAuthoredByViewer: msg.AuthorID == viewerID,
			CreatedAt:          msg.CreatedAt,
		})
	}

	return view, nil
}

// ListForParty возвращает переговоры, где участник выступает любой стороной.
func (s *NegotiationQueryService) ListForParty(ctx context.Context, partyID uuid.UUID, limit, offset int) ([]models.OfferSummary, error) {
	limit, offset = normalizePage(limit, offset)
	return s.lister.ListForParty(ctx, partyID, limit, offset)
}

// ListPendingForResponsible возвращает незавершённые переговоры, ожидающие
// хода ответственной стороны.
func (s *NegotiationQueryService) ListPendingForResponsible(ctx context.Context, responsibleID uuid.UUID, limit, offset int) ([]models.OfferSummary, error) {
	limit, offset = normalizePage(limit, offset)
	return s.lister.ListPendingForResponsible(ctx, responsibleID, limit, offset)
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
