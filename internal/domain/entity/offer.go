package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/casavia/estate-backend/internal/domain/valueobject"
	"github.com/casavia/estate-backend/internal/pkg/apperror"
)

// OfferMessage — одно сообщение в истории переговоров. История append-only:
// сообщения никогда не изменяются и не удаляются.
type OfferMessage struct {
	ID         uuid.UUID
	OfferID    uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	Side       valueobject.Side
	Kind       valueobject.MessageKind
	Price      *int64
	Note       *string
	CreatedAt  time.Time
}

// Offer — агрегат переговоров по объекту недвижимости. Единственный способ
// изменить предложение — добавить сообщение через валидный переход.
type Offer struct {
	ID            uuid.UUID
	PropertyID    uuid.UUID
	BuyerID       uuid.UUID
	ResponsibleID uuid.UUID
	InitialPrice  int64
	State         valueobject.OfferState
	// TurnHolder — чья очередь отвечать. В терминальном состоянии не имеет смысла.
	TurnHolder valueobject.Side
	// Version — счётчик для optimistic CAS в хранилище.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []OfferMessage
}

// NewOffer создаёт предложение от покупателя: состояние proposed, очередь
// ответственной стороны, первое proposal-сообщение добавлено сразу.
func NewOffer(propertyID, buyerID, responsibleID uuid.UUID, initialPrice int64, note *string, buyerName string) (*Offer, error) {
	price, err := valueobject.NewPrice(initialPrice)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	offer := &Offer{
		ID:            uuid.New(),
		PropertyID:    propertyID,
		BuyerID:       buyerID,
		ResponsibleID: responsibleID,
		InitialPrice:  price.Amount,
		State:         valueobject.OfferStateProposed,
		TurnHolder:    valueobject.SideResponsible,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	amount := price.Amount
	offer.Messages = append(offer.Messages, OfferMessage{
		ID:         uuid.New(),
		OfferID:    offer.ID,
		AuthorID:   buyerID,
		AuthorName: buyerName,
		Side:       valueobject.SideBuyer,
		Kind:       valueobject.MessageKindProposal,
		Price:      &amount,
		Note:       note,
		CreatedAt:  now,
	})

	return offer, nil
}

// IsTerminal сообщает, завершены ли переговоры.
func (o *Offer) IsTerminal() bool {
	return o.State.IsTerminal()
}

// SideOf возвращает сторону, к которой участник принадлежит напрямую.
// Делегирование менеджера разрешается выше, в сервисном слое.
func (o *Offer) SideOf(partyID uuid.UUID) (valueobject.Side, bool) {
	switch partyID {
	case o.BuyerID:
		return valueobject.SideBuyer, true
	case o.ResponsibleID:
		return valueobject.SideResponsible, true
	}
	return "", false
}

// HoldsTurn сообщает, может ли сторона сейчас отвечать.
func (o *Offer) HoldsTurn(side valueobject.Side) bool {
	return !o.IsTerminal() && o.TurnHolder == side
}

// LastMessage возвращает последнее сообщение истории.
func (o *Offer) LastMessage() *OfferMessage {
	if len(o.Messages) == 0 {
		return nil
	}
	return &o.Messages[len(o.Messages)-1]
}

// Respond применяет ход стороны. Порядок проверок фиксирован: терминальность
// поглощает всё (AlreadyTerminal для любого актора), затем очередь, затем цена.
// При успехе добавляется ровно одно сообщение, состояние и очередь пересчитаны.
func (o *Offer) Respond(side valueobject.Side, authorID uuid.UUID, authorName string, outcome valueobject.Outcome, newPrice *int64, note *string) (*OfferMessage, error) {
	if o.IsTerminal() {
		return nil, apperror.ErrAlreadyTerminal
	}
	if o.TurnHolder != side {
		return nil, apperror.ErrNotYourTurn
	}

	var kind valueobject.MessageKind
	var price *int64

	switch outcome {
	case valueobject.OutcomeAccept:
		kind = valueobject.MessageKindAcceptance
	case valueobject.OutcomeReject:
		kind = valueobject.MessageKindRejection
	case valueobject.OutcomeCounter:
		if newPrice == nil {
			return nil, apperror.ErrInvalidPrice
		}
		p, err := valueobject.NewPrice(*newPrice)
		if err != nil {
			return nil, err
		}
		amount := p.Amount
		price = &amount
		kind = valueobject.MessageKindCounterProposal
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный исход хода")
	}

	now := time.Now()
	msg := OfferMessage{
		ID:         uuid.New(),
		OfferID:    o.ID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Side:       side,
		Kind:       kind,
		Price:      price,
		Note:       note,
		CreatedAt:  now,
	}

	o.Messages = append(o.Messages, msg)
	o.State = kind.State()
	o.TurnHolder = side.Opposite()
	o.UpdatedAt = now

	return &msg, nil
}
