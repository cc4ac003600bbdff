package model

import "errors"

var (
	ErrValidation = errors.New("validation error") // 400
	// ErrCatalogUnavailable means the catalog could not be fetched and no
	// cached snapshot exists. Search is down, not empty.
	ErrCatalogUnavailable = errors.New("catalog unavailable") // 503
	// ErrLiveDataUnavailable means the live detail fetch failed entirely.
	// Lines depending on it become unresolved; the pricing pass continues.
	ErrLiveDataUnavailable = errors.New("live data unavailable") // 503
	ErrOrderNotFound       = errors.New("order not found")       // 404
	ErrBadGateway          = errors.New("bad gateway")           // 502
)

// Line comments attached by the pricing engine. These are advisories, not
// errors: the pass never aborts because of them.
const (
	NoteMissingProductCode = "missing product code, price pending confirmation"
	NoteNoLivePrice        = "no live price from ERP, price pending confirmation"
	NoteLiveDataDown       = "ERP unavailable, price pending confirmation"
	NoteUnitMismatch       = "requested unit does not match the priced unit, total is approximate"
)
