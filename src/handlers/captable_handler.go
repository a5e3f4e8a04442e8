package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/krllms-wq/CapTablePro8-sub000/src/logger"
	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/krllms-wq/CapTablePro8-sub000/src/services"
	"github.com/krllms-wq/CapTablePro8-sub000/src/utils"
)

type CapTableHandler struct {
	capTableService services.CapTableService
}

func NewCapTableHandler(capTableService services.CapTableService) *CapTableHandler {
	return &CapTableHandler{capTableService: capTableService}
}

// HandleGetCapTable serves GET /api/companies/{companyID}/captable.
// Query parameters: as_of (RFC3339 or YYYY-MM-DD), view, rsu_policy.
func (h *CapTableHandler) HandleGetCapTable(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	if companyID == "" {
		utils.SendJSONError(w, "companyID is required", http.StatusBadRequest)
		return
	}

	var asOf *time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			utils.SendJSONError(w, "invalid as_of date", http.StatusBadRequest)
			return
		}
		asOf = &parsed
	}

	view := models.View(r.URL.Query().Get("view"))
	switch view {
	case "", models.ViewOutstanding, models.ViewFullyDiluted:
	default:
		utils.SendJSONError(w, "invalid view", http.StatusBadRequest)
		return
	}

	policy := models.RSUPolicy(r.URL.Query().Get("rsu_policy"))
	switch policy {
	case "", models.RSUPolicyNone, models.RSUPolicyGranted, models.RSUPolicyVested:
	default:
		utils.SendJSONError(w, "invalid rsu_policy", http.StatusBadRequest)
		return
	}

	result, err := h.capTableService.ComputeCapTable(r.Context(), companyID, asOf, view, policy)
	if err != nil {
		logger.FromContext(r.Context()).Error("Cap table computation failed", "companyID", companyID, "error", err)
		writeDomainError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, result)
}

// parseDate accepts RFC3339 timestamps and bare dates.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
