package unit

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stroyast/sales-agent/internal/model"
)

// The ERP quotes prices in a base unit and, for most lumber positions, embeds
// the pieces-per-unit ratio in the unit text itself: "м3 (33.333333 шт)",
// "m2 (2.380952 pieces)". The factor may use a comma as the decimal separator
// and NBSP as a thousands separator.
var factorRe = regexp.MustCompile(`^(.+?)\s*\(\s*([0-9][0-9\s\x{00a0}.,]*)\s*(шт\.?|штук[аи]?|pieces?|pcs\.?)\s*\)$`)

var pieceWords = map[string]struct{}{
	"шт":     {},
	"шт.":    {},
	"штук":   {},
	"штука":  {},
	"штуки":  {},
	"piece":  {},
	"pieces": {},
	"pc":     {},
	"pcs":    {},
	"pcs.":   {},
}

// Parse decomposes a raw ERP unit string into a UnitSpec. It never fails:
// anything it cannot recognize degrades to the trimmed raw string with no
// pieces-per-unit factor, and pricing falls back to passthrough.
func Parse(raw string) model.UnitSpec {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, " ", " "))

	m := factorRe.FindStringSubmatch(trimmed)
	if m == nil {
		return model.UnitSpec{BaseUnit: trimmed}
	}

	factor, err := parseFactor(m[2])
	if err != nil || factor.IsZero() {
		return model.UnitSpec{BaseUnit: trimmed}
	}

	return model.UnitSpec{
		BaseUnit:      strings.TrimSpace(m[1]),
		PiecesPerUnit: &factor,
	}
}

// PricePerPiece divides the base-unit price by the pieces-per-unit factor.
// Returns nil when no factor is known, meaning the base price is already the
// closest per-piece equivalent available.
func PricePerPiece(basePrice decimal.Decimal, spec model.UnitSpec) *decimal.Decimal {
	if spec.PiecesPerUnit == nil || spec.PiecesPerUnit.IsZero() {
		return nil
	}
	p := basePrice.DivRound(*spec.PiecesPerUnit, 8)
	return &p
}

// Convert reprices a base-unit price into the unit the customer asked for.
// The returned bool is a unit-mismatch warning: when the requested unit cannot
// be reconciled with the priced unit family the base price passes through
// unchanged and the caller must surface the mismatch instead of guessing a
// conversion factor it cannot derive.
func Convert(basePrice decimal.Decimal, spec model.UnitSpec, requestedUnit string) (decimal.Decimal, bool) {
	req := normalize(requestedUnit)
	base := normalize(spec.BaseUnit)

	if isPieceWord(req) {
		if p := PricePerPiece(basePrice, spec); p != nil {
			return *p, false
		}
		if isPieceWord(base) {
			return basePrice, false
		}
		return basePrice, true
	}

	if req != "" && req == base {
		return basePrice, false
	}

	// Unknown or foreign unit family: unitless passthrough, flagged.
	return basePrice, true
}

func isPieceWord(normalized string) bool {
	_, ok := pieceWords[normalized]
	return ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, " ", " ")))
}

func parseFactor(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(s)
	return decimal.NewFromString(s)
}
