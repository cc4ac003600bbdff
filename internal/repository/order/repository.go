package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stroyast/sales-agent/internal/model"
)

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewOrderRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, ord *model.PricedOrder) (uuid.UUID, error) {
	linesJSON, err := json.Marshal(toLineRecords(ord.Lines))
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal order lines: %w", err)
	}

	q := r.sb.
		Insert("orders").
		Columns("lines", "subtotal", "currency", "status").
		Values(linesJSON, ord.Subtotal, ord.Currency, ord.Status).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return uuid.Nil, err
	}

	var orderID uuid.UUID
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&orderID); err != nil {
		return uuid.Nil, err
	}

	return orderID, nil
}

func (r *repository) OrderByID(ctx context.Context, id uuid.UUID) (*model.PricedOrder, error) {
	q := r.sb.
		Select("id", "lines", "subtotal", "currency", "status", "created_at").
		From("orders").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var (
		ord       model.PricedOrder
		linesJSON []byte
	)
	err = r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&ord.ID,
		&linesJSON,
		&ord.Subtotal,
		&ord.Currency,
		&ord.Status,
		&ord.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}

	var records []lineRecord
	if err := json.Unmarshal(linesJSON, &records); err != nil {
		return nil, fmt.Errorf("unmarshal order lines: %w", err)
	}
	ord.Lines = fromLineRecords(records)

	return &ord, nil
}

// lineRecord is the stored shape of an order line; decimals are kept as
// strings to survive the jsonb round trip losslessly.
type lineRecord struct {
	ProductCode   string           `json:"product_code"`
	ProductName   string           `json:"product_name,omitempty"`
	Quantity      decimal.Decimal  `json:"quantity"`
	RequestedUnit string           `json:"requested_unit,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	LineTotal     *decimal.Decimal `json:"line_total,omitempty"`
	Availability  *string          `json:"availability,omitempty"`
	Comment       *string          `json:"comment,omitempty"`
}

func toLineRecords(lines []model.OrderLine) []lineRecord {
	records := make([]lineRecord, 0, len(lines))
	for _, l := range lines {
		records = append(records, lineRecord{
			ProductCode:   l.ProductCode,
			ProductName:   l.ProductName,
			Quantity:      l.Quantity,
			RequestedUnit: l.RequestedUnit,
			UnitPrice:     l.UnitPrice,
			LineTotal:     l.LineTotal,
			Availability:  l.Availability,
			Comment:       l.Comment,
		})
	}
	return records
}

func fromLineRecords(records []lineRecord) []model.OrderLine {
	lines := make([]model.OrderLine, 0, len(records))
	for _, rec := range records {
		lines = append(lines, model.OrderLine{
			ProductCode:   rec.ProductCode,
			ProductName:   rec.ProductName,
			Quantity:      rec.Quantity,
			RequestedUnit: rec.RequestedUnit,
			UnitPrice:     rec.UnitPrice,
			LineTotal:     rec.LineTotal,
			Availability:  rec.Availability,
			Comment:       rec.Comment,
		})
	}
	return lines
}
