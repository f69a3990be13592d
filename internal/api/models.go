package api

import (
	"time"

	"github.com/memodrop/braindump/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// CategoryRequest defines the payload for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=128"`
	Description string `json:"description" validate:"max=1024"`
	Mode        string `json:"mode"        validate:"required,oneof=strict defensive"`
}

// CategoryResponse represents the response data for a category.
type CategoryResponse struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"owner_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Mode              string    `json:"mode"`
	LastInteractionAt time.Time `json:"last_interaction_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CardRequest defines the payload for creating or updating a card.
type CardRequest struct {
	Question string `json:"question" validate:"required,min=1"`
	Answer   string `json:"answer"   validate:"required,min=1"`
	Hint     string `json:"hint"     validate:"max=1024"`
}

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Hint       string    `json:"hint,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PlacementResponse represents the response data for a card placement.
type PlacementResponse struct {
	ID                string    `json:"id"`
	CardID            string    `json:"card_id"`
	Area              int       `json:"area"`
	PostponeUntil     time.Time `json:"postpone_until"`
	LastInteractionAt time.Time `json:"last_interaction_at"`
}

// SelectionResponse represents a drawn review card with its placement.
type SelectionResponse struct {
	Card      CardResponse      `json:"card"`
	Placement PlacementResponse `json:"placement"`
}

// AnswerRequest defines the payload for recording a review answer.
type AnswerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// PostponeRequest defines the payload for postponing a card.
type PostponeRequest struct {
	Seconds int64 `json:"seconds" validate:"required,gt=0"`
}

// SetAreaRequest defines the payload for moving a card to a specific area.
type SetAreaRequest struct {
	Area int `json:"area" validate:"required"`
}

// ShareRequest defines the payload for offering a category to another user.
type ShareRequest struct {
	Username string `json:"username" validate:"required"`
}

// ContractResponse represents the response data for a share contract.
type ContractResponse struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	UserID     string    `json:"user_id"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// categoryToResponse converts a domain.Category to a CategoryResponse.
func categoryToResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:                category.ID.String(),
		OwnerID:           category.OwnerID.String(),
		Name:              category.Name,
		Description:       category.Description,
		Mode:              string(category.Mode),
		LastInteractionAt: category.LastInteractionAt,
		CreatedAt:         category.CreatedAt,
		UpdatedAt:         category.UpdatedAt,
	}
}

// cardToResponse converts a domain.Card to a CardResponse.
func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:         card.ID.String(),
		CategoryID: card.CategoryID.String(),
		Question:   card.Question,
		Answer:     card.Answer,
		Hint:       card.Hint,
		CreatedAt:  card.CreatedAt,
		UpdatedAt:  card.UpdatedAt,
	}
}

// placementToResponse converts a domain.CardPlacement to a PlacementResponse.
func placementToResponse(placement *domain.CardPlacement) PlacementResponse {
	return PlacementResponse{
		ID:                placement.ID.String(),
		CardID:            placement.CardID.String(),
		Area:              placement.Area,
		PostponeUntil:     placement.PostponeUntil,
		LastInteractionAt: placement.LastInteractionAt,
	}
}

// contractToResponse converts a domain.ShareContract to a ContractResponse.
func contractToResponse(contract *domain.ShareContract) ContractResponse {
	return ContractResponse{
		ID:         contract.ID.String(),
		CategoryID: contract.CategoryID.String(),
		UserID:     contract.UserID.String(),
		State:      string(contract.State),
		CreatedAt:  contract.CreatedAt,
		UpdatedAt:  contract.UpdatedAt,
	}
}
