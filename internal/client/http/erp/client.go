// Package erp is the HTTP client for the 1C gateway. All endpoints sit under
// one base path, use basic auth and speak JSON with Cyrillic field names.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stroyast/sales-agent/internal/client/converter"
	"github.com/stroyast/sales-agent/internal/model"
	"github.com/stroyast/sales-agent/platform/logger"
)

const (
	groupsPath        = "/GetGroups"
	itemsPath         = "/GetItems"
	detailedItemsPath = "/GetDetailedItems"

	// The gateway chokes on large detail requests, so codes are sent in
	// chunks with a short pause in between.
	batchPause = 200 * time.Millisecond
)

type Config interface {
	BaseURL() string
	User() string
	Password() string
	Timeout() time.Duration
	DetailBatchSize() int
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	user       string
	password   string
	batchSize  int
}

func NewClient(cfg Config) *Client {
	batchSize := cfg.DetailBatchSize()
	if batchSize <= 0 {
		batchSize = 50
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		baseURL:    cfg.BaseURL(),
		user:       cfg.User(),
		password:   cfg.Password(),
		batchSize:  batchSize,
	}
}

// FetchGroups pulls the whole catalog hierarchy.
func (c *Client) FetchGroups(ctx context.Context) ([]model.CatalogGroup, error) {
	const op = "client.erp.FetchGroups"

	var resp converter.GroupsResponse
	if err := c.do(ctx, http.MethodGet, groupsPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToCatalogGroups(resp), nil
}

// FetchGroupItems returns the summary rows of the given catalog groups.
func (c *Client) FetchGroupItems(ctx context.Context, groupCodes []string) ([]model.SummaryItem, error) {
	const op = "client.erp.FetchGroupItems"

	var resp converter.ItemsResponse
	if err := c.do(ctx, http.MethodPost, itemsPath, itemsRequest{Items: groupCodes}, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToSummaryItems(resp), nil
}

// FetchDetailedItems resolves item codes to their live detail records,
// chunking the request to keep the gateway happy. A single failed chunk fails
// the whole call: partial detail data would silently misprice orders.
func (c *Client) FetchDetailedItems(ctx context.Context, codes []string) ([]model.PricedItem, error) {
	const op = "client.erp.FetchDetailedItems"

	all := make([]model.PricedItem, 0, len(codes))
	for i := 0; i < len(codes); i += c.batchSize {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%s: %w", op, ctx.Err())
			case <-time.After(batchPause):
			}
		}

		end := min(i+c.batchSize, len(codes))

		var resp converter.ItemsResponse
		if err := c.do(ctx, http.MethodPost, detailedItemsPath, itemsRequest{Items: codes[i:end]}, &resp); err != nil {
			return nil, fmt.Errorf("%s: batch %d: %w", op, i/c.batchSize+1, err)
		}
		all = append(all, converter.ToPricedItems(resp)...)
	}

	logger.Debug(ctx, "fetched detailed items",
		logger.Int("requested", len(codes)),
		logger.Int("received", len(all)),
	)

	return all, nil
}

type itemsRequest struct {
	Items []string `json:"items"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: %w: status %d", method, path, model.ErrBadGateway, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}

	return nil
}
