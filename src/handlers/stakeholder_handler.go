package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/krllms-wq/CapTablePro8-sub000/src/logger"
	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/krllms-wq/CapTablePro8-sub000/src/security/validation"
	"github.com/krllms-wq/CapTablePro8-sub000/src/services"
	"github.com/krllms-wq/CapTablePro8-sub000/src/storage"
	"github.com/krllms-wq/CapTablePro8-sub000/src/utils"
)

type StakeholderHandler struct {
	store           storage.Store
	capTableService services.CapTableService
}

func NewStakeholderHandler(store storage.Store, capTableService services.CapTableService) *StakeholderHandler {
	return &StakeholderHandler{store: store, capTableService: capTableService}
}

// HandleListStakeholders serves GET /api/companies/{companyID}/stakeholders.
func (h *StakeholderHandler) HandleListStakeholders(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	stakeholders, err := h.store.GetStakeholders(r.Context(), companyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if stakeholders == nil {
		stakeholders = []models.Stakeholder{}
	}
	utils.SendJSON(w, http.StatusOK, stakeholders)
}

type createStakeholderRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// HandleCreateStakeholder serves POST /api/companies/{companyID}/stakeholders.
func (h *StakeholderHandler) HandleCreateStakeholder(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	var req createStakeholderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	name := validation.SanitizeName(req.Name)
	if name == "" {
		utils.SendJSONError(w, "name is required", http.StatusBadRequest)
		return
	}

	// The company must exist before we hang a stakeholder off it.
	if _, err := h.store.GetCompany(r.Context(), companyID); err != nil {
		writeDomainError(w, err)
		return
	}

	sh := &models.Stakeholder{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateStakeholder(r.Context(), sh); err != nil {
		logger.FromContext(r.Context()).Error("Failed to create stakeholder", "companyID", companyID, "error", err)
		writeDomainError(w, err)
		return
	}
	h.capTableService.InvalidateCompanyCache(companyID)
	utils.SendJSON(w, http.StatusCreated, sh)
}
