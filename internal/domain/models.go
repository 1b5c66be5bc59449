package domain

import "time"

// All money values are integer cents.

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	CategoryID string `json:"category_id"`
	PriceCents int64  `json:"price_cents"`
	Stock      int    `json:"stock"`
	Taxable    bool   `json:"taxable"`
	IsService  bool   `json:"is_service"`
}

// CartLine is a transient working line. PriceCents is a snapshot of the
// product price at add time; DiscountCents is the per-unit discount written
// by the promotion engine.
type CartLine struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Qty           int    `json:"qty"`
	PriceCents    int64  `json:"price_cents"`
	DiscountCents int64  `json:"discount_cents"`
	IsService     bool   `json:"is_service"`
}

type CartTotals struct {
	SubtotalBeforeCents int64 `json:"subtotal_before_cents"`
	DiscountCents       int64 `json:"discount_cents"`
	SubtotalAfterCents  int64 `json:"subtotal_after_cents"`
	QtyTotal            int   `json:"qty_total"`
}

type PromotionKind string

const (
	PromotionPercentOff PromotionKind = "percent_off"
	PromotionFixedOff   PromotionKind = "fixed_off"
)

// Promotion is a tagged variant: Kind selects which of PercentOff or
// FixedOffCents is meaningful. A nil ProductIDs applies to all products.
type Promotion struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Kind          PromotionKind `json:"kind"`
	PercentOff    float64       `json:"percent_off,omitempty"`
	FixedOffCents int64         `json:"fixed_off_cents,omitempty"`
	ProductIDs    []string      `json:"product_ids,omitempty"`
	Active        bool          `json:"active"`
	ExpiresAt     *time.Time    `json:"expires_at,omitempty"`
	MinQty        int           `json:"min_qty,omitempty"`
	MinTotalCents int64         `json:"min_total_cents,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type InventoryOpType string

const (
	InventoryOpReceive    InventoryOpType = "receive"
	InventoryOpLoss       InventoryOpType = "loss"
	InventoryOpCount      InventoryOpType = "inventory_count"
	InventoryOpAdjustment InventoryOpType = "adjustment"
)

// InventoryOp is one append-only stock movement. Every code path that
// changes Product.Stock appends exactly one matching op.
type InventoryOp struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	ProductID string          `json:"product_id"`
	QtyChange int             `json:"qty_change"`
	Type      InventoryOpType `json:"type"`
	Note      string          `json:"note,omitempty"`
}

const (
	PayMethodCash  = "cash"
	PayMethodCard  = "card"
	PayMethodOther = "other"
)

// PaymentSplit records one tendered amount. Splits are stored exactly as
// entered; change is never subtracted from the cash split.
type PaymentSplit struct {
	Method      string `json:"method"`
	AmountCents int64  `json:"amount_cents"`
}

type TransactionLine struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Qty           int    `json:"qty"`
	PriceCents    int64  `json:"price_cents"`
	DiscountCents int64  `json:"discount_cents"`
	IsService     bool   `json:"is_service"`
}

// Transaction is immutable once appended. Refunds append a new transaction
// with negative amounts instead of editing the original.
type Transaction struct {
	ID         string            `json:"id"`
	Date       time.Time         `json:"date"`
	Items      []TransactionLine `json:"items"`
	CustomerID string            `json:"customer_id,omitempty"`
	Splits     []PaymentSplit    `json:"splits"`
	TotalCents int64             `json:"total_cents"`
	Notes      string            `json:"notes,omitempty"`
	ShiftID    string            `json:"shift_id,omitempty"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// OrderLine snapshots a cart line without its discount; PriceCents is the
// unit price as the cart carried it.
type OrderLine struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	PriceCents int64  `json:"price_cents"`
	IsService  bool   `json:"is_service"`
}

type Order struct {
	ID         string      `json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	Items      []OrderLine `json:"items"`
	CustomerID string      `json:"customer_id,omitempty"`
	TotalCents int64       `json:"total_cents"`
	PayNow     bool        `json:"pay_now"`
	Paid       bool        `json:"paid"`
	Status     string      `json:"status"`
	Notes      string      `json:"notes,omitempty"`
	ShiftID    string      `json:"shift_id,omitempty"`
}

const (
	ShiftStateOpen   = "open"
	ShiftStateClosed = "closed"
)

type Shift struct {
	ID                string     `json:"id"`
	OpenedAt          time.Time  `json:"opened_at"`
	OpenedBy          string     `json:"opened_by"`
	OpeningCashCents  int64      `json:"opening_cash_cents"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	ClosingCashCents  int64      `json:"closing_cash_cents,omitempty"`
	CashSalesCents    int64      `json:"cash_sales_cents"`
	CardSalesCents    int64      `json:"card_sales_cents"`
	OtherSalesCents   int64      `json:"other_sales_cents"`
	Notes             string     `json:"notes,omitempty"`
	State             string     `json:"state"`
	DiscrepancyCents  *int64     `json:"discrepancy_cents,omitempty"`
}

type ShiftTotals struct {
	CashCents  int64 `json:"cash_cents"`
	CardCents  int64 `json:"card_cents"`
	OtherCents int64 `json:"other_cents"`
}

// Refund reverses part of a prior transaction. LineItemID pins the refund
// to one transaction line so cumulative refunded quantity can be enforced.
type Refund struct {
	ID                    string    `json:"id"`
	Date                  time.Time `json:"date"`
	OriginalTransactionID string    `json:"original_transaction_id"`
	LineItemID            string    `json:"line_item_id"`
	ProductID             string    `json:"product_id"`
	Qty                   int       `json:"qty"`
	AmountCents           int64     `json:"amount_cents"`
	Reason                string    `json:"reason,omitempty"`
	ProcessedBy           string    `json:"processed_by"`
}

type Profile struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
}

// State is the full persisted application state, one blob. The in-progress
// cart is persisted separately.
type State struct {
	Categories   []Category    `json:"categories"`
	Products     []Product     `json:"products"`
	Promotions   []Promotion   `json:"promotions"`
	Transactions []Transaction `json:"transactions"`
	InventoryOps []InventoryOp `json:"inventory_ops"`
	Orders       []Order       `json:"orders"`
	Refunds      []Refund      `json:"refunds"`
	Shifts       []Shift       `json:"shifts"`
	Profile      Profile       `json:"profile"`
}

// Snapshot is the read model handed to the render layer after every
// mutation; the UI re-derives everything from it.
type Snapshot struct {
	State      State      `json:"state"`
	Cart       []CartLine `json:"cart"`
	CartTotals CartTotals `json:"cart_totals"`
	TakenAt    time.Time  `json:"taken_at"`
}
