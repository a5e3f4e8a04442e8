package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/krllms-wq/CapTablePro8-sub000/src/logger"
	"github.com/krllms-wq/CapTablePro8-sub000/src/services"
	"github.com/krllms-wq/CapTablePro8-sub000/src/utils"
)

type TransferHandler struct {
	transferService services.TransferService
}

func NewTransferHandler(transferService services.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// HandleTransferShares serves POST /api/companies/{companyID}/transfers.
func (h *TransferHandler) HandleTransferShares(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	if companyID == "" {
		utils.SendJSONError(w, "companyID is required", http.StatusBadRequest)
		return
	}

	var req services.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.CompanyID = companyID

	result, err := h.transferService.TransferShares(r.Context(), req)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Transfer rejected",
			"companyID", companyID, "sellerID", req.SellerID, "buyerID", req.BuyerID, "error", err)
		writeDomainError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, result)
}
