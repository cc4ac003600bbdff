package converter

import (
	"encoding/json"
	"fmt"

	"github.com/stroyast/sales-agent/internal/model"
)

type kafkaConverter struct{}

func NewKafkaConverter() *kafkaConverter { return &kafkaConverter{} }

type orderPricedRecord struct {
	EventID         string `json:"event_id"`
	OrderID         string `json:"order_id"`
	Subtotal        string `json:"subtotal"`
	Currency        string `json:"currency"`
	LineCount       int    `json:"line_count"`
	UnresolvedCount int    `json:"unresolved_count"`
}

func (c *kafkaConverter) OrderPricedToBytes(e model.OrderPricedEvent) ([]byte, error) {
	payload, err := json.Marshal(orderPricedRecord{
		EventID:         e.EventID.String(),
		OrderID:         e.OrderID.String(),
		Subtotal:        e.Subtotal.String(),
		Currency:        e.Currency,
		LineCount:       e.LineCount,
		UnresolvedCount: e.UnresolvedCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order priced event: %w", err)
	}

	return payload, nil
}
