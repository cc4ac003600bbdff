package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stroyast/sales-agent/internal/model"
	"github.com/stroyast/sales-agent/platform/logger"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error(r.Context(), "write response", logger.ErrorF(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  int
		message string
	)

	switch {
	case errors.Is(err, model.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrOrderNotFound):
		status, message = http.StatusNotFound, "order not found"
	case errors.Is(err, model.ErrCatalogUnavailable),
		errors.Is(err, model.ErrLiveDataUnavailable):
		status, message = http.StatusServiceUnavailable, "upstream data is unavailable, try again shortly"
	case errors.Is(err, model.ErrBadGateway):
		status, message = http.StatusBadGateway, "upstream error"
	default:
		status, message = http.StatusInternalServerError, "internal error"
	}

	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", logger.ErrorF(err))
	}

	writeJSON(w, r, status, errorResponse{Code: status, Message: message})
}
