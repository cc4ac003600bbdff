package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRef is the lightweight identity of a product inside a catalog group.
// It carries just enough for search indexing; pricing always goes through a
// live detail fetch.
type ItemRef struct {
	ItemCode    string
	DisplayName string
}

// CatalogGroup is one node of the ERP catalog hierarchy. Groups are replaced
// wholesale on every refresh and never mutated in place.
type CatalogGroup struct {
	GroupCode string
	GroupName string
	Items     []ItemRef
}

// PricedItem is the authoritative detail record for a single item code as
// returned by the ERP. Price and unit may be absent when the upstream omits
// them; they are never invented.
type PricedItem struct {
	ItemCode      string
	DisplayName   string
	Price         *decimal.Decimal
	UnitOfMeasure *string
	StockStatus   *string
}

// SummaryItem is the browse-level record returned by the group pricing
// endpoint. Not suitable for exact line pricing.
type SummaryItem struct {
	ItemCode    string
	DisplayName string
	Price       *decimal.Decimal
	StockStatus *string
}

// UnitSpec is the parsed decomposition of an ERP unit string, e.g.
// "m2 (2.380952 pieces)" -> BaseUnit "m2", PiecesPerUnit 2.380952.
// PiecesPerUnit is nil when the raw string carries no parenthetical factor.
type UnitSpec struct {
	BaseUnit      string
	PiecesPerUnit *decimal.Decimal
}

type SearchQuery struct {
	Keywords string
	Filters  map[string]string
	Offset   int
	Limit    int
}

// SearchHit is a ranked item together with its group context.
type SearchHit struct {
	Item      ItemRef
	GroupCode string
	GroupName string
	Score     float64
}

type SearchResult struct {
	Items      []SearchHit
	TotalCount int
	// StaleCatalog is set when the snapshot backing this result is past its
	// TTL because a refresh failed or is still in flight.
	StaleCatalog bool
}

// SyncStatus describes the current state of the catalog snapshot.
type SyncStatus struct {
	FetchedAt  time.Time
	Stale      bool
	LastError  string
	GroupCount int
	ItemCount  int
}
