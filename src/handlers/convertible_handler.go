package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/krllms-wq/CapTablePro8-sub000/src/logger"
	"github.com/krllms-wq/CapTablePro8-sub000/src/services"
	"github.com/krllms-wq/CapTablePro8-sub000/src/utils"
)

type ConvertibleHandler struct {
	capTableService services.CapTableService
}

func NewConvertibleHandler(capTableService services.CapTableService) *ConvertibleHandler {
	return &ConvertibleHandler{capTableService: capTableService}
}

// HandlePreviewConversion serves
// POST /api/companies/{companyID}/convertibles/{convertibleID}/convert.
// The body may override price, pre-round share count and as-of date;
// otherwise the reference round drives the preview.
func (h *ConvertibleHandler) HandlePreviewConversion(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	convertibleID := chi.URLParam(r, "convertibleID")
	if companyID == "" || convertibleID == "" {
		utils.SendJSONError(w, "companyID and convertibleID are required", http.StatusBadRequest)
		return
	}

	var params services.ConvertParams
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	preview, err := h.capTableService.PreviewConversion(r.Context(), companyID, convertibleID, params)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Conversion preview failed",
			"companyID", companyID, "convertibleID", convertibleID, "error", err)
		writeDomainError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, preview)
}
