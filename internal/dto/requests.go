package dto

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Role        string `json:"role"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreatePropertyRequest represents the request to publish a property
type CreatePropertyRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	AskingPrice int64  `json:"asking_price" binding:"required"`
}

// UpdatePropertyStatusRequest changes the listing status
type UpdatePropertyStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOfferRequest represents a buyer's opening offer on a property
type CreateOfferRequest struct {
	Amount int64   `json:"amount" binding:"required"`
	Note   *string `json:"note"`
}

// SubmitResponseRequest represents a party's move in a negotiation:
// accept, reject or counter (counter requires new_price)
type SubmitResponseRequest struct {
	Outcome  string  `json:"outcome" binding:"required"`
	NewPrice *int64  `json:"new_price"`
	Note     *string `json:"note"`
}

// CreateDelegationRequest is issued by an agent and grants the named
// manager the right to respond on the agent's behalf
type CreateDelegationRequest struct {
	ManagerID string `json:"manager_id" binding:"required"`
}
