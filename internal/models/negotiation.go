package models

import (
	"time"

	"github.com/google/uuid"
)

// OfferSummary — строка списка переговоров для конкретного участника.
type OfferSummary struct {
	OfferID         uuid.UUID `db:"offer_id" json:"offer_id"`
	PropertyID      uuid.UUID `db:"property_id" json:"property_id"`
	PropertyTitle   string    `db:"property_title" json:"property_title"`
	LastState       string    `db:"last_state" json:"last_state"`
	TurnHolder      string    `db:"turn_holder" json:"turn_holder"`
	LastModified    time.Time `db:"last_modified" json:"last_modified"`
	CounterpartID   uuid.UUID `db:"counterpart_id" json:"counterpart_id"`
	CounterpartName string    `db:"counterpart_name" json:"counterpart_name"`
}

// OfferMessageView — сообщение истории в том виде, в котором его видит
// конкретный зритель. Признак авторства вычисляется на каждый запрос
// и никогда не хранится.
type OfferMessageView struct {
	ID                 uuid.UUID `json:"id"`
	AuthorName         string    `json:"author_name"`
	Kind               string    `json:"kind"`
	Price              *int64    `json:"price,omitempty"`
	Note               *string   `json:"note,omitempty"`
	IsAuthoredByViewer bool      `json:"is_authored_by_viewer"`
	CreatedAt          time.Time `json:"created_at"`
}

// OfferHistoryView — история переговоров, собранная под зрителя.
type OfferHistoryView struct {
	OfferID       uuid.UUID          `json:"offer_id"`
	PropertyID    uuid.UUID          `json:"property_id"`
	PropertyTitle string             `json:"property_title"`
	InitialPrice  int64              `json:"initial_price"`
	State         string             `json:"state"`
	Messages      []OfferMessageView `json:"messages"`
	CanReply      bool               `json:"can_reply"`
}
