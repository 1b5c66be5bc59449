package domain

// Request and response shapes for the HTTP surface.

type AddToCartRequest struct {
	ProductID string `json:"product_id"`
}

// AddToCartResult carries a non-blocking OutOfStock flag: a zero-stock
// product is still added, the UI just warns.
type AddToCartResult struct {
	Line       CartLine   `json:"line"`
	Cart       []CartLine `json:"cart"`
	Totals     CartTotals `json:"totals"`
	OutOfStock bool       `json:"out_of_stock"`
}

type SetQtyRequest struct {
	Qty int `json:"qty"`
}

type CartView struct {
	Lines  []CartLine `json:"lines"`
	Totals CartTotals `json:"totals"`
}

type CheckoutRequest struct {
	CashCents int64 `json:"cash_cents"`
	CardCents int64 `json:"card_cents"`
}

type CheckoutResult struct {
	Transaction       Transaction `json:"transaction"`
	RemainingDueCents int64       `json:"remaining_due_cents"`
	ChangeCents       int64       `json:"change_cents"`
}

type OrderCreateRequest struct {
	PayNow bool   `json:"pay_now"`
	Notes  string `json:"notes"`
}

type PickupRequest struct {
	CashCents int64 `json:"cash_cents"`
	CardCents int64 `json:"card_cents"`
}

type ShiftOpenRequest struct {
	OpeningCashCents int64 `json:"opening_cash_cents"`
}

type ShiftCloseRequest struct {
	ClosingCashCents int64  `json:"closing_cash_cents"`
	Notes            string `json:"notes"`
}

type ShiftStatus struct {
	Open   bool        `json:"open"`
	Shift  *Shift      `json:"shift,omitempty"`
	Totals ShiftTotals `json:"totals"`
}

type RefundRequest struct {
	TransactionID string `json:"transaction_id"`
	LineItemID    string `json:"line_item_id"`
	Qty           int    `json:"qty"`
	Reason        string `json:"reason"`
}

type RefundResult struct {
	Refund            Refund      `json:"refund"`
	RefundTransaction Transaction `json:"refund_transaction"`
}

type ReceiveStockRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Note      string `json:"note"`
}

type RecordLossRequest struct {
	ProductID string `json:"product_id"`
}

type CountStockRequest struct {
	ProductID  string `json:"product_id"`
	CountedQty int    `json:"counted_qty"`
}

type PromotionCreateRequest struct {
	Name          string        `json:"name"`
	Kind          PromotionKind `json:"kind"`
	PercentOff    float64       `json:"percent_off,omitempty"`
	FixedOffCents int64         `json:"fixed_off_cents,omitempty"`
	ProductIDs    []string      `json:"product_ids,omitempty"`
	MinQty        int           `json:"min_qty,omitempty"`
	MinTotalCents int64         `json:"min_total_cents,omitempty"`
}

type PromotionToggleRequest struct {
	Active bool `json:"active"`
}

type ProfileUpdateRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	BusinessName string `json:"business_name"`
}

type CatalogView struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}
