package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stroyast/sales-agent/internal/model"
)

type CatalogSearcher interface {
	Search(ctx context.Context, q model.SearchQuery) (model.SearchResult, error)
}

type CatalogSyncer interface {
	Refresh(ctx context.Context) error
	Status() model.SyncStatus
}

// GroupPricer serves browse-level pricing for a whole group. Exact line
// pricing goes through the order flow instead.
type GroupPricer interface {
	FetchGroupItems(ctx context.Context, groupCodes []string) ([]model.SummaryItem, error)
}

type catalogHandler struct {
	searcher CatalogSearcher
	syncer   CatalogSyncer
	pricer   GroupPricer
}

func NewCatalogHandler(searcher CatalogSearcher, syncer CatalogSyncer, pricer GroupPricer) *catalogHandler {
	return &catalogHandler{searcher: searcher, syncer: syncer, pricer: pricer}
}

func (h *catalogHandler) Register(r chi.Router) {
	r.Get("/products/search", h.search)
	r.Get("/catalog/groups/{group_code}/items", h.groupItems)
	r.Post("/catalog/refresh", h.refresh)
	r.Get("/catalog/status", h.status)
}

type searchHitResponse struct {
	ItemCode    string  `json:"item_code"`
	DisplayName string  `json:"display_name"`
	GroupCode   string  `json:"group_code"`
	GroupName   string  `json:"group_name"`
	Score       float64 `json:"score,omitempty"`
}

type searchResponse struct {
	Items        []searchHitResponse `json:"items"`
	TotalCount   int                 `json:"total_count"`
	StaleCatalog bool                `json:"stale_catalog,omitempty"`
}

func (h *catalogHandler) search(w http.ResponseWriter, r *http.Request) {
	q, err := searchQueryFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.searcher.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]searchHitResponse, 0, len(res.Items))
	for _, hit := range res.Items {
		items = append(items, searchHitResponse{
			ItemCode:    hit.Item.ItemCode,
			DisplayName: hit.Item.DisplayName,
			GroupCode:   hit.GroupCode,
			GroupName:   hit.GroupName,
			Score:       hit.Score,
		})
	}

	writeJSON(w, r, http.StatusOK, searchResponse{
		Items:        items,
		TotalCount:   res.TotalCount,
		StaleCatalog: res.StaleCatalog,
	})
}

type summaryItemResponse struct {
	ItemCode    string `json:"item_code"`
	DisplayName string `json:"display_name"`
	Price       string `json:"price,omitempty"`
	StockStatus string `json:"stock_status,omitempty"`
}

type groupItemsResponse struct {
	Items []summaryItemResponse `json:"items"`
}

func (h *catalogHandler) groupItems(w http.ResponseWriter, r *http.Request) {
	groupCode := chi.URLParam(r, "group_code")
	if groupCode == "" {
		writeError(w, r, fmt.Errorf("%w: group_code is required", model.ErrValidation))
		return
	}

	summaries, err := h.pricer.FetchGroupItems(r.Context(), []string{groupCode})
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]summaryItemResponse, 0, len(summaries))
	for _, s := range summaries {
		item := summaryItemResponse{
			ItemCode:    s.ItemCode,
			DisplayName: s.DisplayName,
		}
		if s.Price != nil {
			item.Price = s.Price.String()
		}
		if s.StockStatus != nil {
			item.StockStatus = *s.StockStatus
		}
		items = append(items, item)
	}

	writeJSON(w, r, http.StatusOK, groupItemsResponse{Items: items})
}

func (h *catalogHandler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.syncer.Refresh(r.Context()); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", model.ErrCatalogUnavailable, err))
		return
	}

	writeJSON(w, r, http.StatusOK, h.statusResponse())
}

type statusResponse struct {
	FetchedAt  *time.Time `json:"fetched_at,omitempty"`
	Stale      bool       `json:"stale"`
	LastError  string     `json:"last_error,omitempty"`
	GroupCount int        `json:"group_count"`
	ItemCount  int        `json:"item_count"`
}

func (h *catalogHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.statusResponse())
}

func (h *catalogHandler) statusResponse() statusResponse {
	st := h.syncer.Status()

	resp := statusResponse{
		Stale:      st.Stale,
		LastError:  st.LastError,
		GroupCount: st.GroupCount,
		ItemCount:  st.ItemCount,
	}
	if !st.FetchedAt.IsZero() {
		resp.FetchedAt = &st.FetchedAt
	}
	return resp
}

func searchQueryFromRequest(r *http.Request) (model.SearchQuery, error) {
	params := r.URL.Query()

	q := model.SearchQuery{
		Keywords: params.Get("q"),
	}

	filters := make(map[string]string)
	for _, key := range []string{"group_code", "group_name"} {
		if v := params.Get(key); v != "" {
			filters[key] = v
		}
	}
	if len(filters) > 0 {
		q.Filters = filters
	}

	var err error
	if q.Offset, err = intParam(params.Get("offset")); err != nil {
		return model.SearchQuery{}, fmt.Errorf("%w: invalid offset", model.ErrValidation)
	}
	if q.Limit, err = intParam(params.Get("limit")); err != nil {
		return model.SearchQuery{}, fmt.Errorf("%w: invalid limit", model.ErrValidation)
	}

	return q, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
