package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/casavia/estate-backend/internal/domain/entity"
	"github.com/casavia/estate-backend/internal/models"
)

// UserResponse represents a user без чувствительных полей.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserResponse converts a user model into its API shape
func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
}

// AuthResponse bundles the user with the issued token pair
type AuthResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
}

// OfferResponse represents a freshly created or updated offer
type OfferResponse struct {
	ID            uuid.UUID `json:"id"`
	PropertyID    uuid.UUID `json:"property_id"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	ResponsibleID uuid.UUID `json:"responsible_id"`
	InitialPrice  int64     `json:"initial_price"`
	State         string    `json:"state"`
	TurnHolder    string    `json:"turn_holder"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewOfferResponse converts the negotiation aggregate into its API shape
func NewOfferResponse(offer *entity.Offer) *OfferResponse {
	return &OfferResponse{
		ID:            offer.ID,
		PropertyID:    offer.PropertyID,
		BuyerID:       offer.BuyerID,
		ResponsibleID: offer.ResponsibleID,
		InitialPrice:  offer.InitialPrice,
		State:         string(offer.State),
		TurnHolder:    string(offer.TurnHolder),
		CreatedAt:     offer.CreatedAt,
		UpdatedAt:     offer.UpdatedAt,
	}
}
