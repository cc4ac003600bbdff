package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// StatusPriced means every line resolved to a live price.
	StatusPriced OrderStatus = "PRICED"
	// StatusNeedsReview means at least one line could not be priced and a
	// manager has to confirm it before the order is finalized.
	StatusNeedsReview OrderStatus = "NEEDS_REVIEW"
)

// DefaultCurrency is the currency the ERP quotes all prices in.
const DefaultCurrency = "RUB"

// OrderLine is one row of a customer order. The pricing engine mutates
// UnitPrice, LineTotal, Availability and Comment in place; a line starts with
// all of them unset.
type OrderLine struct {
	ProductCode   string
	ProductName   string
	Quantity      decimal.Decimal
	RequestedUnit string

	UnitPrice    *decimal.Decimal
	LineTotal    *decimal.Decimal
	Availability *string
	Comment      *string
}

// Resolved reports whether the line carries an authoritative total.
func (l *OrderLine) Resolved() bool {
	return l.UnitPrice != nil && l.LineTotal != nil
}

// OrderTotals is recomputed from scratch on every pricing pass, never cached.
type OrderTotals struct {
	Subtotal decimal.Decimal
	Currency string
	// UnresolvedLineIndices holds the 0-based indices of lines that
	// contributed nothing to Subtotal. Callers must refuse to finalize an
	// order while this is non-empty.
	UnresolvedLineIndices []int
}

func (t *OrderTotals) FullyResolved() bool {
	return len(t.UnresolvedLineIndices) == 0
}

// PricedOrder is a stored pricing pass the CRM layer picks up.
type PricedOrder struct {
	ID        uuid.UUID
	Lines     []OrderLine
	Subtotal  decimal.Decimal
	Currency  string
	Status    OrderStatus
	CreatedAt time.Time
}

type PriceOrderParams struct {
	Lines []OrderLine
}

type PriceOrderResult struct {
	ID     uuid.UUID
	Lines  []OrderLine
	Totals OrderTotals
	Status OrderStatus
}

// OrderPricedEvent is published after a pricing pass is stored.
type OrderPricedEvent struct {
	EventID         uuid.UUID
	OrderID         uuid.UUID
	Subtotal        decimal.Decimal
	Currency        string
	LineCount       int
	UnresolvedCount int
}
