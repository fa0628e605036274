package reports

import (
	"context"
	"net/http"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/handlers"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/reports"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	Run(ctx context.Context, name string, asOf time.Time) (domain.Report, error)
	Profile(ctx context.Context, asOf time.Time) ([]domain.TableProfile, error)
}

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, r, http.StatusOK, api.ReportList{Reports: reports.Names()})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "report")

	asOf, err := handlers.DateParam(r, "as_of", h.now())
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	report, err := h.service.Run(ctx, name, asOf)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	response, err := adapters.MapReportDomainToApi(report)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetQualityProfile(w http.ResponseWriter, r *http.Request) {
	asOf, err := handlers.DateParam(r, "as_of", h.now())
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	profiles, err := h.service.Profile(r.Context(), asOf)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	response := make([]api.TableProfile, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, adapters.MapTableProfileDomainToApi(p))
	}
	handlers.WriteJSON(w, r, http.StatusOK, response)
}
