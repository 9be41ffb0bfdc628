package handlers

// ErrorResponse is the body of every non-cart error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Cart envelope statuses.
const (
	StatusSuccess       = "Success"
	StatusFailed        = "Failed"
	StatusLoginRequired = "login_required"
)

// CartEnvelope is the body of every cart mutation response. It is always
// sent with HTTP 200; Status tells the client what happened.
type CartEnvelope struct {
	Status      string   `json:"status"`
	Message     string   `json:"message,omitempty"`
	CartCounter *int     `json:"cart_counter,omitempty"`
	Qty         *int     `json:"qty,omitempty"`
	CartAmount  *float64 `json:"cart_amount,omitempty"`
}
