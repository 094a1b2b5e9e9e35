package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы публикации объекта.
const (
	PropertyStatusActive   = "active"
	PropertyStatusSold     = "sold"
	PropertyStatusArchived = "archived"
)

// Property описывает объект недвижимости, выставленный агентом.
type Property struct {
	ID          uuid.UUID `db:"id" json:"id"`
	AgentID     uuid.UUID `db:"agent_id" json:"agent_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Address     string    `db:"address" json:"address"`
	City        string    `db:"city" json:"city"`
	// AskingPrice хранится в минимальных единицах валюты.
	AskingPrice int64     `db:"asking_price" json:"asking_price"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
