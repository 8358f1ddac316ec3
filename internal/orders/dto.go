package orders

// CreateOrderRequest is the payload for creating an order.
type CreateOrderRequest struct {
	CompanyID  int64                    `json:"company_id" validate:"required,gt=0"`
	CustomerID int64                    `json:"customer_id" validate:"required,gt=0"`
	Currency   string                   `json:"currency" validate:"required,len=3"`
	Notes      *string                  `json:"notes,omitempty"`
	Lines      []CreateOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateOrderLineRequest is a single line on a create request.
type CreateOrderLineRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"required,gte=0"`
	LineOrder int     `json:"line_order" validate:"gte=0"`
}

// ChangeStatusRequest asks for a status transition on an existing order.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListOrdersRequest filters the order listing.
type ListOrdersRequest struct {
	CompanyID int64   `json:"company_id" validate:"required,gt=0"`
	Status    *Status `json:"status,omitempty"`
	Limit     int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int     `json:"offset" validate:"gte=0"`
}

// TransitionsResponse lists the transitions the current actor may perform.
type TransitionsResponse struct {
	Current Status             `json:"current"`
	Options []TransitionOption `json:"options"`
}
