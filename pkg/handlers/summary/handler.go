package summary

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/handlers"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/services/summary"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
)

const defaultRunsLimit = 20

type Handler struct {
	service summary.Service
	years   int
	now     func() time.Time
}

// NewHandler serves the persisted projection; years is the default span of
// a listing when no from date is given.
func NewHandler(service summary.Service, years int) *Handler {
	return &Handler{
		service: service,
		years:   years,
		now:     time.Now,
	}
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	to, err := handlers.DateParam(r, "to", h.now())
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	from, err := handlers.DateParam(r, "from", to.AddDate(-h.years, 0, 0))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	if from.After(to) {
		handlers.WriteError(w, r, fmt.Errorf("%w: from is after to", handlers.ErrBadRequest))
		return
	}

	rows, err := h.service.Rows(r.Context(), from, to)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	response := api.Summary{
		Name: duckdb.SummaryTable,
		From: from.Format(adapters.DateLayout),
		To:   to.Format(adapters.DateLayout),
		Rows: make([]api.SummaryRow, 0, len(rows)),
	}
	for _, row := range rows {
		response.Rows = append(response.Rows, adapters.MapSummaryRowDomainToApi(row))
	}
	handlers.WriteJSON(w, r, http.StatusOK, response)
}

func (h *Handler) RefreshSummary(w http.ResponseWriter, r *http.Request) {
	asOf, err := handlers.DateParam(r, "as_of", h.now())
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	run, err := h.service.Refresh(r.Context(), asOf)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapRefreshRunDomainToApi(run))
}

func (h *Handler) ListRefreshRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			handlers.WriteError(w, r, fmt.Errorf("%w: limit must be a positive integer", handlers.ErrBadRequest))
			return
		}
		limit = n
	}

	runs, err := h.service.Runs(r.Context(), limit)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	response := make([]api.RefreshRun, 0, len(runs))
	for _, run := range runs {
		response = append(response, adapters.MapRefreshRunDomainToApi(run))
	}
	handlers.WriteJSON(w, r, http.StatusOK, response)
}
