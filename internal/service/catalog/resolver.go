package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/stroyast/sales-agent/internal/model"
	"github.com/stroyast/sales-agent/internal/service/search"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Resolver answers catalog queries against the cached snapshot: filter by
// group, rank by keyword relevance, paginate. It never calls the ERP itself.
type Resolver struct {
	cache *Cache
}

func NewResolver(cache *Cache) *Resolver {
	return &Resolver{cache: cache}
}

// Search runs a catalog query. Filters are ANDed and applied before ranking;
// keyword ranking drops non-matching items, an empty keyword list keeps the
// catalog order. TotalCount counts matches before pagination.
func (r *Resolver) Search(ctx context.Context, q model.SearchQuery) (model.SearchResult, error) {
	const op = "catalog.resolver.Search"

	if err := validateQuery(q); err != nil {
		return model.SearchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	groups, stale, err := r.cache.Catalog(ctx)
	if err != nil {
		return model.SearchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	type candidate struct {
		ref       model.ItemRef
		groupCode string
		groupName string
	}

	var candidates []candidate
	for _, g := range groups {
		if !matchGroup(g, q.Filters) {
			continue
		}
		for _, item := range g.Items {
			candidates = append(candidates, candidate{
				ref:       item,
				groupCode: g.GroupCode,
				groupName: g.GroupName,
			})
		}
	}

	terms := search.Tokenize(q.Keywords)

	var hits []model.SearchHit
	if len(terms) == 0 {
		hits = make([]model.SearchHit, 0, len(candidates))
		for _, c := range candidates {
			hits = append(hits, model.SearchHit{
				Item:      c.ref,
				GroupCode: c.groupCode,
				GroupName: c.groupName,
			})
		}
	} else {
		refs := make([]model.ItemRef, 0, len(candidates))
		for _, c := range candidates {
			refs = append(refs, c.ref)
		}
		byCode := make(map[string]candidate, len(candidates))
		for _, c := range candidates {
			byCode[c.ref.ItemCode] = c
		}

		for _, ranked := range search.Rank(refs, terms) {
			if ranked.Score <= 0 {
				continue
			}
			c := byCode[ranked.Ref.ItemCode]
			hits = append(hits, model.SearchHit{
				Item:      ranked.Ref,
				GroupCode: c.groupCode,
				GroupName: c.groupName,
				Score:     ranked.Score,
			})
		}
	}

	total := len(hits)
	hits = paginate(hits, q.Offset, q.Limit)

	return model.SearchResult{
		Items:        hits,
		TotalCount:   total,
		StaleCatalog: stale,
	}, nil
}

func validateQuery(q model.SearchQuery) error {
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", model.ErrValidation)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", model.ErrValidation)
	}
	for key := range q.Filters {
		switch key {
		case "group_code", "group_name":
		default:
			return fmt.Errorf("%w: unknown filter %q", model.ErrValidation, key)
		}
	}
	return nil
}

func matchGroup(g model.CatalogGroup, filters map[string]string) bool {
	for key, want := range filters {
		switch key {
		case "group_code":
			if g.GroupCode != want {
				return false
			}
		case "group_name":
			if !strings.EqualFold(g.GroupName, want) {
				return false
			}
		}
	}
	return true
}

func paginate(hits []model.SearchHit, offset, limit int) []model.SearchHit {
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset >= len(hits) {
		return []model.SearchHit{}
	}
	end := min(offset+limit, len(hits))
	return hits[offset:end]
}
