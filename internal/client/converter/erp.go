// Package converter maps raw 1C API payloads onto domain models. The upstream
// is loose with types: numbers arrive as strings with NBSP thousand separators
// and comma decimals, field names switch between Cyrillic and latin spellings,
// and stock can be a quantity or a free-text status. Everything here is
// tolerant: an unparsable field becomes nil, never an error.
package converter

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stroyast/sales-agent/internal/model"
)

type GroupsResponse struct {
	Groups []Group `json:"groups"`
}

type Group struct {
	Name  string    `json:"-"`
	Code  string    `json:"-"`
	Items []ItemRef `json:"-"`
}

func (g *Group) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	g.Name = pickString(raw, "название", "name", "Name")
	g.Code = pickString(raw, "номенклатура", "code", "Code")
	if items, ok := raw["items"]; ok {
		if err := json.Unmarshal(items, &g.Items); err != nil {
			return err
		}
	}
	return nil
}

type ItemRef struct {
	Name string `json:"-"`
	Code string `json:"-"`
}

func (i *ItemRef) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	i.Name = pickString(raw, "название", "Наименование", "name", "Name")
	i.Code = pickString(raw, "номенклатура", "Код", "code", "Code")
	return nil
}

type ItemsResponse struct {
	Items []Item `json:"items"`
}

// Item covers both the summary shape from GetItems and the detailed shape
// from GetDetailedItems; the detailed one just fills more fields.
type Item struct {
	Code  string           `json:"-"`
	Name  string           `json:"-"`
	Price *decimal.Decimal `json:"-"`
	Unit  string           `json:"-"`
	Stock string           `json:"-"`
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	it.Code = pickString(raw, "Код", "code", "Code")
	it.Name = pickString(raw, "Наименование", "name", "Name")
	it.Unit = pickString(raw, "ЕдИзмерения", "unit", "Unit")
	it.Price = pickDecimal(raw, "Цена", "price", "Price")
	it.Stock = pickString(raw, "Остатки", "остатки", "stock", "Stock")
	return nil
}

func ToCatalogGroups(resp GroupsResponse) []model.CatalogGroup {
	groups := make([]model.CatalogGroup, 0, len(resp.Groups))
	for _, g := range resp.Groups {
		items := make([]model.ItemRef, 0, len(g.Items))
		for _, it := range g.Items {
			if it.Code == "" {
				continue
			}
			items = append(items, model.ItemRef{
				ItemCode:    it.Code,
				DisplayName: it.Name,
			})
		}
		groups = append(groups, model.CatalogGroup{
			GroupCode: g.Code,
			GroupName: g.Name,
			Items:     items,
		})
	}
	return groups
}

func ToPricedItems(resp ItemsResponse) []model.PricedItem {
	items := make([]model.PricedItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.Code == "" {
			continue
		}
		items = append(items, model.PricedItem{
			ItemCode:      it.Code,
			DisplayName:   it.Name,
			Price:         it.Price,
			UnitOfMeasure: optional(it.Unit),
			StockStatus:   optional(it.Stock),
		})
	}
	return items
}

func ToSummaryItems(resp ItemsResponse) []model.SummaryItem {
	items := make([]model.SummaryItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.Code == "" {
			continue
		}
		items = append(items, model.SummaryItem{
			ItemCode:    it.Code,
			DisplayName: it.Name,
			Price:       it.Price,
			StockStatus: optional(it.Stock),
		})
	}
	return items
}

func pickString(raw map[string]json.RawMessage, keys ...string) string {
	msg, ok := pick(raw, keys...)
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return CleanString(s)
	}

	// Numbers and booleans come through verbatim.
	return CleanString(string(msg))
}

func pickDecimal(raw map[string]json.RawMessage, keys ...string) *decimal.Decimal {
	msg, ok := pick(raw, keys...)
	if !ok {
		return nil
	}

	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		s = string(msg)
	}
	return ParseDecimal(s)
}

func pick(raw map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if msg, ok := raw[k]; ok && string(msg) != "null" {
			return msg, true
		}
	}
	return nil, false
}

// CleanString normalizes NBSP to plain spaces and trims the result.
func CleanString(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
}

// ParseDecimal reads 1C numerics: "1 953,333", "6 000", plain numbers.
// Returns nil when the value is empty or not a number.
func ParseDecimal(s string) *decimal.Decimal {
	s = CleanString(s)
	if s == "" {
		return nil
	}
	s = strings.NewReplacer(" ", "", ",", ".").Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
