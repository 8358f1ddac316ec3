package returns

import "github.com/google/uuid"

// CreateReturnRequest opens a return for an order, all dimensions pending.
type CreateReturnRequest struct {
	OrderID   int64  `json:"order_id" validate:"required,gt=0"`
	CompanyID int64  `json:"company_id" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

// ListReturnsRequest filters the returns listing.
type ListReturnsRequest struct {
	CompanyID int64 `validate:"required,gt=0"`
	Limit     int   `validate:"omitempty,gt=0,lte=100"`
	Offset    int   `validate:"omitempty,gte=0"`
}

// RequestChangeRequest asks for a confirmation challenge covering one
// field change.
type RequestChangeRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// ConfirmChangeRequest commits a previously issued challenge.
type ConfirmChangeRequest struct {
	ChallengeID uuid.UUID `json:"challenge_id" validate:"required"`
	Word        string    `json:"word" validate:"required"`
}

// ChallengeResponse is what the operator sees after requesting a change.
type ChallengeResponse struct {
	ChallengeID uuid.UUID `json:"challenge_id"`
	Word        string    `json:"word"`
	Label       string    `json:"label"`
}

// AllowedChangesResponse lists the values a field may currently take.
type AllowedChangesResponse struct {
	Field   Field    `json:"field"`
	Current string   `json:"current"`
	Allowed []string `json:"allowed"`
}
