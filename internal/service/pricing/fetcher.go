package pricing

import (
	"context"
	"fmt"

	"github.com/stroyast/sales-agent/internal/model"
	"github.com/stroyast/sales-agent/platform/logger"
)

// ERPClient fetches live per-item data (price, unit, stock) from the ERP.
type ERPClient interface {
	FetchDetailedItems(ctx context.Context, codes []string) ([]model.PricedItem, error)
}

// LiveFetcher resolves a set of product codes to their live ERP details in a
// single batched round trip.
type LiveFetcher struct {
	client ERPClient
}

func NewLiveFetcher(client ERPClient) *LiveFetcher {
	return &LiveFetcher{client: client}
}

// Fetch returns live details keyed by product code. Codes the ERP did not
// return are simply absent from the map. Any transport or upstream failure is
// reported as ErrLiveDataUnavailable so callers can degrade instead of
// guessing prices.
func (f *LiveFetcher) Fetch(ctx context.Context, codes []string) (map[string]model.PricedItem, error) {
	const op = "pricing.fetcher.Fetch"

	if len(codes) == 0 {
		return nil, fmt.Errorf("%s: %w: no product codes", op, model.ErrValidation)
	}

	items, err := f.client.FetchDetailedItems(ctx, codes)
	if err != nil {
		logger.Warn(ctx, "live detail fetch failed",
			logger.Int("codes", len(codes)),
			logger.ErrorF(err),
		)
		return nil, fmt.Errorf("%s: %w: %w", op, model.ErrLiveDataUnavailable, err)
	}

	byCode := make(map[string]model.PricedItem, len(items))
	for _, item := range items {
		byCode[item.ItemCode] = item
	}
	return byCode, nil
}
