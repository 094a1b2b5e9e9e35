package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/casavia/estate-backend/internal/domain/entity"
	"github.com/casavia/estate-backend/internal/domain/valueobject"
	"github.com/casavia/estate-backend/internal/goroutine"
	"github.com/casavia/estate-backend/internal/logger"
	"github.com/casavia/estate-backend/internal/models"
	"github.com/casavia/estate-backend/internal/pkg/apperror"
	"github.com/casavia/estate-backend/internal/validation"
)

// OfferStore описывает хранилище переговоров.
type OfferStore interface {
	Create(ctx context.Context, offer *entity.Offer) error
	Append(ctx context.Context, offer *entity.Offer, msg *entity.OfferMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error)
}

// PropertyReader читает объекты недвижимости.
type PropertyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

// UserReader читает пользователей.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// OfferNotifier доставляет уведомления участникам переговоров.
type OfferNotifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, data interface{}) (*models.Notification, error)
}

// EventPublisher публикует события жизненного цикла переговоров во внешнюю шину.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// NegotiationService управляет жизненным циклом предложений: создание
// и ходы сторон. Чтение историй и списков живёт в NegotiationQueryService.
type NegotiationService struct {
	offers     OfferStore
	properties PropertyReader
	users      UserReader
	resolver   *RoleResolver
	notifier   OfferNotifier
	events     EventPublisher
}

// NewNegotiationService создаёт сервис переговоров. notifier и events
// опциональны: nil отключает соответствующий канал.
func NewNegotiationService(offers OfferStore, properties PropertyReader, users UserReader, resolver *RoleResolver, notifier OfferNotifier, events EventPublisher) *NegotiationService {
	return &NegotiationService{
		offers:     offers,
		properties: properties,
		users:      users,
		resolver:   resolver,
		notifier:   notifier,
		events:     events,
	}
}

// CreateOfferInput описывает входные данные нового предложения.
type CreateOfferInput struct {
	PropertyID uuid.UUID
	BuyerID    uuid.UUID
	Amount     int64
	Note       *string
}

// SubmitResponseInput описывает ход стороны в переговорах.
type SubmitResponseInput struct {
	OfferID  uuid.UUID
	ActorID  uuid.UUID
	Outcome  string
	NewPrice *int64
	Note     *string
}

// CreateOffer создаёт предложение покупателя по объекту. Ответственной
// стороной становится агент объекта, очередь сразу переходит к нему.
func (s *NegotiationService) CreateOffer(ctx context.Context, in CreateOfferInput) (*entity.Offer, error) {
	if err := validation.ValidateNote(in.Note); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePriceBounds(in.Amount); err != nil {
		return nil, apperror.ErrInvalidPrice
	}

	property, err := s.properties.GetByID(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.Status != models.PropertyStatusActive {
		return nil, apperror.New(apperror.ErrCodeConflict, "объект недоступен для предложений")
	}
	if property.AgentID == in.BuyerID {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "нельзя сделать предложение по собственному объекту")
	}

	buyer, err := s.users.GetByID(ctx, in.BuyerID)
	if err != nil {
		return nil, err
	}

	offer, err := entity.NewOffer(property.ID, buyer.ID, property.AgentID, in.Amount, in.Note, buyer.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.dispatch(offer, offer.Messages[0], offer.ResponsibleID, "offer.created")

	return offer, nil
}

// SubmitResponse применяет ход актора. Порядок проверок фиксирован:
// существование, завершённость (поглощает всё для любого актора),
// принадлежность стороне и очередь, затем цена. При гонке версий
// возвращается конфликт, и клиент повторяет запрос по свежей истории.
func (s *NegotiationService) SubmitResponse(ctx context.Context, in SubmitResponseInput) (*entity.Offer, error) {
	offer, err := s.offers.GetByID(ctx, in.OfferID)
	if err != nil {
		return nil, err
	}

	if offer.IsTerminal() {
		return nil, apperror.ErrAlreadyTerminal
	}

	side, ok, err := s.resolver.ResolveSide(ctx, offer, in.ActorID)
	if err != nil {
		return nil, fmt.Errorf("negotiation service: resolve side %w", err)
	}
	if !ok {
		return nil, apperror.ErrNotYourTurn
	}

	outcome, err := valueobject.NewOutcome(in.Outcome)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateNote(in.Note); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.NewPrice != nil {
		if err := validation.ValidatePriceBounds(*in.NewPrice); err != nil {
			return nil, apperror.ErrInvalidPrice
		}
	}

	actor, err := s.users.GetByID(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}

	msg, err := offer.Respond(side, actor.ID, actor.DisplayName, outcome, in.NewPrice, in.Note)
	if err != nil {
		return nil, err
	}

	if err := s.offers.Append(ctx, offer, msg); err != nil {
		return nil, err
	}

	counterpart := offer.BuyerID
	if side == valueobject.SideBuyer {
		counterpart = offer.ResponsibleID
	}
	s.dispatch(offer, *msg, counterpart, eventForKind(msg.Kind))

	return offer, nil
}

// dispatch асинхронно уведомляет контрагента и публикует событие в шину.
// Сбой доставки не откатывает уже зафиксированный ход.
func (s *NegotiationService) dispatch(offer *entity.Offer, msg entity.OfferMessage, recipient uuid.UUID, event string) {
	payload := map[string]interface{}{
		"offer_id":    offer.ID,
		"property_id": offer.PropertyID,
		"state":       string(offer.State),
		"author_name": msg.AuthorName,
		"kind":        string(msg.Kind),
		"price":       msg.Price,
	}

	// Контекст запроса к этому моменту уже может быть закрыт, доставка
	// идёт на собственном контексте.
	goroutine.SafeGoWithContext(context.Background(), func(ctx context.Context) {
		if s.notifier != nil {
			if _, err := s.notifier.Notify(ctx, recipient, event, payload); err != nil && logger.Log != nil {
				logger.Log.WithField("offer_id", offer.ID).Errorf("не удалось отправить уведомление: %v", err)
			}
		}
		if s.events != nil {
			if err := s.events.Publish(ctx, event, payload); err != nil && logger.Log != nil {
				logger.Log.WithField("offer_id", offer.ID).Errorf("не удалось опубликовать событие: %v", err)
			}
		}
	})
}

func eventForKind(kind valueobject.MessageKind) string {
	switch kind {
	case valueobject.MessageKindCounterProposal:
		return "offer.countered"
	case valueobject.MessageKindAcceptance:
		return "offer.accepted"
	case valueobject.MessageKindRejection:
		return "offer.rejected"
	}
	return "offer.created"
}
