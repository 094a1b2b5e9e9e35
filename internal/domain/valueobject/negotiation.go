package valueobject

import "github.com/casavia/estate-backend/internal/pkg/apperror"

// OfferState описывает состояние переговоров по предложению.
type OfferState string

const (
	OfferStateProposed  OfferState = "proposed"
	OfferStateCountered OfferState = "countered"
	OfferStateAccepted  OfferState = "accepted"
	OfferStateRejected  OfferState = "rejected"
)

func (s OfferState) IsValid() bool {
	switch s {
	case OfferStateProposed, OfferStateCountered, OfferStateAccepted, OfferStateRejected:
		return true
	}
	return false
}

// IsTerminal сообщает, что переговоры завершены и новые ходы запрещены.
func (s OfferState) IsTerminal() bool {
	return s == OfferStateAccepted || s == OfferStateRejected
}

func NewOfferState(state string) (OfferState, error) {
	s := OfferState(state)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректное состояние предложения")
	}
	return s, nil
}

// MessageKind описывает тип сообщения в истории переговоров.
type MessageKind string

const (
	MessageKindProposal        MessageKind = "proposal"
	MessageKindCounterProposal MessageKind = "counter_proposal"
	MessageKindAcceptance      MessageKind = "acceptance"
	MessageKindRejection       MessageKind = "rejection"
)

func (k MessageKind) IsValid() bool {
	switch k {
	case MessageKindProposal, MessageKindCounterProposal, MessageKindAcceptance, MessageKindRejection:
		return true
	}
	return false
}

// CarriesPrice сообщает, обязано ли сообщение этого типа нести цену.
func (k MessageKind) CarriesPrice() bool {
	return k == MessageKindProposal || k == MessageKindCounterProposal
}

// State возвращает состояние предложения, которое задаёт последнее
// сообщение этого типа.
func (k MessageKind) State() OfferState {
	switch k {
	case MessageKindProposal:
		return OfferStateProposed
	case MessageKindCounterProposal:
		return OfferStateCountered
	case MessageKindAcceptance:
		return OfferStateAccepted
	default:
		return OfferStateRejected
	}
}

// FoldState сворачивает упорядоченную историю типов сообщений в состояние.
// Инвариант хранилища: состояние предложения всегда равно свёртке его истории.
func FoldState(kinds []MessageKind) (OfferState, error) {
	if len(kinds) == 0 {
		return "", apperror.New(apperror.ErrCodeValidation, "история предложения не может быть пустой")
	}
	return kinds[len(kinds)-1].State(), nil
}

// Side обозначает сторону переговоров.
type Side string

const (
	SideBuyer       Side = "buyer"
	SideResponsible Side = "responsible"
)

func (s Side) IsValid() bool {
	return s == SideBuyer || s == SideResponsible
}

// Opposite возвращает противоположную сторону.
func (s Side) Opposite() Side {
	if s == SideBuyer {
		return SideResponsible
	}
	return SideBuyer
}

// Outcome описывает ход, который сторона делает в ответ на текущее предложение.
type Outcome string

const (
	OutcomeAccept  Outcome = "accept"
	OutcomeReject  Outcome = "reject"
	OutcomeCounter Outcome = "counter"
)

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeAccept, OutcomeReject, OutcomeCounter:
		return true
	}
	return false
}

func NewOutcome(outcome string) (Outcome, error) {
	o := Outcome(outcome)
	if !o.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный исход: допустимы accept, reject, counter")
	}
	return o, nil
}
