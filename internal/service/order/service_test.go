package service

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stroyast/sales-agent/internal/model"
	"github.com/stroyast/sales-agent/internal/service/order/mocks"
)

func TestServicePrice(t *testing.T) {
	t.Parallel()

	type deps struct {
		engine     *mocks.MockPricingEngine
		repository *mocks.MockOrderRepository
		producer   *mocks.MockOrderProducer
	}

	newSvc := func(d deps) *service {
		return NewOrderService(d.engine, d.repository, d.producer)
	}

	orderID := uuid.New()
	price := decimal.NewFromFloat(gofakeit.Price(100, 9999)).Round(2)

	inputLines := []model.OrderLine{
		{ProductCode: "00-001", Quantity: decimal.NewFromInt(10), RequestedUnit: "шт"},
	}
	pricedLines := func() []model.OrderLine {
		total := price.Mul(decimal.NewFromInt(10)).Round(2)
		return []model.OrderLine{{
			ProductCode:   "00-001",
			Quantity:      decimal.NewFromInt(10),
			RequestedUnit: "шт",
			UnitPrice:     &price,
			LineTotal:     &total,
		}}
	}

	type testCase struct {
		name   string
		params model.PriceOrderParams
		setup  func(d deps)
		assert func(t *testing.T, res *model.PriceOrderResult, err error, d deps)
	}

	tests := []testCase{
		{
			name:   "fully resolved order is stored as PRICED and announced",
			params: model.PriceOrderParams{Lines: inputLines},
			setup: func(d deps) {
				lines := pricedLines()
				totals := model.OrderTotals{
					Subtotal: *lines[0].LineTotal,
					Currency: model.DefaultCurrency,
				}

				d.engine.
					On("PriceLines", mock.Anything, inputLines).
					Return(lines, totals, nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(ord *model.PricedOrder) bool {
						return ord.Status == model.StatusPriced && ord.Subtotal.Equal(totals.Subtotal)
					})).
					Return(orderID, nil).
					Once()
				d.producer.
					On("SendOrderPriced", mock.Anything, mock.MatchedBy(func(e model.OrderPricedEvent) bool {
						return e.OrderID == orderID && e.UnresolvedCount == 0 && e.LineCount == 1
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.PriceOrderResult, err error, d deps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, orderID, res.ID)
				assert.Equal(t, model.StatusPriced, res.Status)
				assert.True(t, res.Totals.FullyResolved())

				d.engine.AssertExpectations(t)
				d.repository.AssertExpectations(t)
				d.producer.AssertExpectations(t)
			},
		},
		{
			name:   "unresolved lines flip the order to NEEDS_REVIEW",
			params: model.PriceOrderParams{Lines: inputLines},
			setup: func(d deps) {
				totals := model.OrderTotals{
					Currency:              model.DefaultCurrency,
					UnresolvedLineIndices: []int{0},
				}

				d.engine.
					On("PriceLines", mock.Anything, inputLines).
					Return(inputLines, totals, nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(ord *model.PricedOrder) bool {
						return ord.Status == model.StatusNeedsReview
					})).
					Return(orderID, nil).
					Once()
				d.producer.
					On("SendOrderPriced", mock.Anything, mock.MatchedBy(func(e model.OrderPricedEvent) bool {
						return e.UnresolvedCount == 1
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.PriceOrderResult, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.StatusNeedsReview, res.Status)
				assert.Equal(t, []int{0}, res.Totals.UnresolvedLineIndices)

				d.engine.AssertExpectations(t)
				d.repository.AssertExpectations(t)
				d.producer.AssertExpectations(t)
			},
		},
		{
			name:   "validation error from the engine is passed through",
			params: model.PriceOrderParams{},
			setup: func(d deps) {
				d.engine.
					On("PriceLines", mock.Anything, mock.Anything).
					Return(nil, model.OrderTotals{}, model.ErrValidation).
					Once()
			},
			assert: func(t *testing.T, res *model.PriceOrderResult, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)

				d.repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				d.producer.AssertNotCalled(t, "SendOrderPriced", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "repository failure fails the request",
			params: model.PriceOrderParams{Lines: inputLines},
			setup: func(d deps) {
				d.engine.
					On("PriceLines", mock.Anything, inputLines).
					Return(pricedLines(), model.OrderTotals{Currency: model.DefaultCurrency}, nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.Anything).
					Return(uuid.Nil, errors.New("db is down")).
					Once()
			},
			assert: func(t *testing.T, res *model.PriceOrderResult, err error, d deps) {
				require.Error(t, err)
				assert.Nil(t, res)

				d.producer.AssertNotCalled(t, "SendOrderPriced", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "a failed event does not fail the stored order",
			params: model.PriceOrderParams{Lines: inputLines},
			setup: func(d deps) {
				lines := pricedLines()
				totals := model.OrderTotals{
					Subtotal: *lines[0].LineTotal,
					Currency: model.DefaultCurrency,
				}

				d.engine.
					On("PriceLines", mock.Anything, inputLines).
					Return(lines, totals, nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.Anything).
					Return(orderID, nil).
					Once()
				d.producer.
					On("SendOrderPriced", mock.Anything, mock.Anything).
					Return(errors.New("kafka is down")).
					Once()
			},
			assert: func(t *testing.T, res *model.PriceOrderResult, err error, d deps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, orderID, res.ID)

				d.producer.AssertExpectations(t)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := deps{
				engine:     &mocks.MockPricingEngine{},
				repository: &mocks.MockOrderRepository{},
				producer:   &mocks.MockOrderProducer{},
			}
			tt.setup(d)

			res, err := newSvc(d).Price(context.Background(), tt.params)
			tt.assert(t, res, err, d)
		})
	}
}

func TestServiceOrderByID(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		repo := &mocks.MockOrderRepository{}
		repo.
			On("OrderByID", mock.Anything, orderID).
			Return(&model.PricedOrder{ID: orderID, Status: model.StatusPriced}, nil).
			Once()

		svc := NewOrderService(&mocks.MockPricingEngine{}, repo, &mocks.MockOrderProducer{})

		ord, err := svc.OrderByID(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, orderID, ord.ID)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		repo := &mocks.MockOrderRepository{}
		repo.
			On("OrderByID", mock.Anything, orderID).
			Return(nil, model.ErrOrderNotFound).
			Once()

		svc := NewOrderService(&mocks.MockPricingEngine{}, repo, &mocks.MockOrderProducer{})

		_, err := svc.OrderByID(context.Background(), orderID)
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})
}
