package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/stroyast/sales-agent/internal/model"
	"github.com/stroyast/sales-agent/internal/service/unit"
	"github.com/stroyast/sales-agent/platform/logger"
)

// LiveDetailFetcher resolves product codes to live ERP details in one batch.
type LiveDetailFetcher interface {
	Fetch(ctx context.Context, codes []string) (map[string]model.PricedItem, error)
}

// Engine prices order lines against live ERP data. One pricing pass makes at
// most one detail fetch regardless of line count; a failed fetch degrades the
// affected lines instead of aborting the pass.
type Engine struct {
	fetcher LiveDetailFetcher
}

func NewEngine(fetcher LiveDetailFetcher) *Engine {
	return &Engine{fetcher: fetcher}
}

// PriceLines runs one pricing pass. The input is not mutated; the returned
// lines carry unit prices converted to the requested unit and totals rounded
// to 2 decimal places. Totals are recomputed from scratch, lines that could
// not be priced are listed in UnresolvedLineIndices.
func (e *Engine) PriceLines(ctx context.Context, lines []model.OrderLine) ([]model.OrderLine, model.OrderTotals, error) {
	const op = "pricing.engine.PriceLines"

	if len(lines) == 0 {
		return nil, model.OrderTotals{}, fmt.Errorf("%s: %w: order has no lines", op, model.ErrValidation)
	}

	out := make([]model.OrderLine, len(lines))
	copy(out, lines)

	var (
		priceable []int
		codes     []string
		seen      = make(map[string]struct{})
	)
	for i := range out {
		if out[i].ProductCode == "" {
			setComment(&out[i], model.NoteMissingProductCode)
			continue
		}
		priceable = append(priceable, i)
		if _, ok := seen[out[i].ProductCode]; !ok {
			seen[out[i].ProductCode] = struct{}{}
			codes = append(codes, out[i].ProductCode)
		}
	}

	var details map[string]model.PricedItem
	if len(codes) > 0 {
		var err error
		details, err = e.fetcher.Fetch(ctx, codes)
		if err != nil {
			if !errors.Is(err, model.ErrLiveDataUnavailable) {
				return nil, model.OrderTotals{}, fmt.Errorf("%s: %w", op, err)
			}
			logger.Warn(ctx, "pricing pass degraded, live data unavailable",
				logger.Int("lines", len(lines)),
				logger.ErrorF(err),
			)
			for _, i := range priceable {
				setComment(&out[i], model.NoteLiveDataDown)
			}
			details = nil
		}
	}

	if details != nil {
		for _, i := range priceable {
			priceLine(&out[i], details)
		}
	}

	totals := model.OrderTotals{Currency: model.DefaultCurrency}
	for i := range out {
		if !out[i].Resolved() {
			totals.UnresolvedLineIndices = append(totals.UnresolvedLineIndices, i)
			continue
		}
		totals.Subtotal = totals.Subtotal.Add(*out[i].LineTotal)
	}

	return out, totals, nil
}

func priceLine(line *model.OrderLine, details map[string]model.PricedItem) {
	item, ok := details[line.ProductCode]
	if !ok || item.Price == nil {
		setComment(line, model.NoteNoLivePrice)
		return
	}

	var rawUnit string
	if item.UnitOfMeasure != nil {
		rawUnit = *item.UnitOfMeasure
	}
	spec := unit.Parse(rawUnit)

	var (
		unitPrice = *item.Price
		mismatch  bool
	)
	if line.RequestedUnit == "" {
		// No unit on the line means the customer counts pieces; a priced
		// unit carrying a piece factor is always broken down.
		if pp := unit.PricePerPiece(*item.Price, spec); pp != nil {
			unitPrice = *pp
		}
	} else {
		unitPrice, mismatch = unit.Convert(*item.Price, spec, line.RequestedUnit)
	}

	total := unitPrice.Mul(line.Quantity).Round(2)
	line.UnitPrice = &unitPrice
	line.LineTotal = &total
	line.Availability = item.StockStatus

	if line.ProductName == "" {
		line.ProductName = item.DisplayName
	}
	if mismatch {
		setComment(line, model.NoteUnitMismatch)
	}
}

func setComment(line *model.OrderLine, note string) {
	n := note
	line.Comment = &n
}
