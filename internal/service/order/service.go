package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stroyast/sales-agent/internal/model"
	"github.com/stroyast/sales-agent/platform/logger"
)

type OrderRepository interface {
	Create(ctx context.Context, ord *model.PricedOrder) (uuid.UUID, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*model.PricedOrder, error)
}

type PricingEngine interface {
	PriceLines(ctx context.Context, lines []model.OrderLine) ([]model.OrderLine, model.OrderTotals, error)
}

type OrderProducer interface {
	SendOrderPriced(ctx context.Context, event model.OrderPricedEvent) error
}

type service struct {
	engine   PricingEngine
	repo     OrderRepository
	producer OrderProducer
}

func NewOrderService(engine PricingEngine, repository OrderRepository, producer OrderProducer) *service {
	return &service{
		engine:   engine,
		repo:     repository,
		producer: producer,
	}
}

// Price runs one pricing pass over the order lines, stores the result and
// announces it. An order with unpriceable lines is stored as NEEDS_REVIEW, a
// manager confirms it before the deal moves on.
func (svc *service) Price(ctx context.Context, params model.PriceOrderParams) (*model.PriceOrderResult, error) {
	const op string = "order.service.Price"
	log := logger.With(
		logger.Int("number_lines", len(params.Lines)),
	)

	lines, totals, err := svc.engine.PriceLines(ctx, params.Lines)
	if err != nil {
		log.Error(ctx, "price lines", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := model.StatusPriced
	if !totals.FullyResolved() {
		status = model.StatusNeedsReview
	}

	ordID, err := svc.repo.Create(ctx, &model.PricedOrder{
		Lines:    lines,
		Subtotal: totals.Subtotal,
		Currency: totals.Currency,
		Status:   status,
	})
	if err != nil {
		log.Error(ctx, "repository create order", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	event := model.OrderPricedEvent{
		EventID:         uuid.New(),
		OrderID:         ordID,
		Subtotal:        totals.Subtotal,
		Currency:        totals.Currency,
		LineCount:       len(lines),
		UnresolvedCount: len(totals.UnresolvedLineIndices),
	}
	if err := svc.producer.SendOrderPriced(ctx, event); err != nil {
		// The order is already stored; a lost event is recoverable, a
		// failed request is not.
		log.Error(ctx, "send order priced event",
			logger.String("order_id", ordID.String()),
			logger.ErrorF(err),
		)
	}

	return &model.PriceOrderResult{
		ID:     ordID,
		Lines:  lines,
		Totals: totals,
		Status: status,
	}, nil
}

func (svc *service) OrderByID(ctx context.Context, ordID uuid.UUID) (*model.PricedOrder, error) {
	const op string = "order.service.OrderByID"

	ord, err := svc.repo.OrderByID(ctx, ordID)
	if err != nil {
		logger.Error(ctx, "repository order by id",
			logger.String("order_id", ordID.String()),
			logger.ErrorF(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ord, nil
}
