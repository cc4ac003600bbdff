package ordproducer

import (
	"context"
	"fmt"

	"github.com/stroyast/sales-agent/internal/model"
	"github.com/stroyast/sales-agent/platform/kafka"
)

type Converter interface {
	OrderPricedToBytes(e model.OrderPricedEvent) ([]byte, error)
}

type service struct {
	producer kafka.Producer
	conv     Converter
}

func NewOrderProducer(producer kafka.Producer, conv Converter) *service {
	return &service{producer: producer, conv: conv}
}

func (s *service) SendOrderPriced(ctx context.Context, event model.OrderPricedEvent) error {
	payload, err := s.conv.OrderPricedToBytes(event)
	if err != nil {
		return fmt.Errorf("converter order_priced_to_bytes error: %w", err)
	}

	if err := s.producer.Send(ctx, event.OrderID[:], payload); err != nil {
		return fmt.Errorf("producer to order.priced topic error: %w", err)
	}

	return nil
}
