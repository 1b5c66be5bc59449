package pos

import "errors"

// Validation failures. Every mutating operation checks all of its
// preconditions before touching state, so none of these ever leaves a
// partial mutation behind.
var (
	ErrNoOpenShift         = errors.New("no open shift")
	ErrShiftAlreadyOpen    = errors.New("shift already open")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrProductNotFound     = errors.New("product not found")
	ErrLineNotFound        = errors.New("cart line not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrLineItemNotSelected = errors.New("transaction line item not selected")
	ErrLineNotRefundable   = errors.New("line is not refundable")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotPending     = errors.New("order is not pending pickup")
	ErrPromotionNotFound   = errors.New("promotion not found")
	ErrInvalidPromotion    = errors.New("invalid promotion")
)
