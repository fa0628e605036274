package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/reports"
	storesql "github.com/de-tools/sales-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
)

var ErrBadRequest = errors.New("bad request")

func WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

// WriteError maps err onto a status code: unknown reports are 404, bad input
// is 400, an unreachable source is 502 and anything else is 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, reports.ErrUnknownReport):
		status = http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, storesql.ErrSourceUnavailable):
		status = http.StatusBadGateway
	}

	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	WriteJSON(w, r, status, api.Error{Error: err.Error()})
}

// DateParam reads a YYYY-MM-DD query parameter as a UTC day, falling back to
// the UTC day of def when it is absent.
func DateParam(r *http.Request, name string, def time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.Day(def), nil
	}
	t, err := time.Parse(adapters.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", ErrBadRequest, name, raw)
	}
	return t, nil
}
