package handlers

import (
	"errors"
	"net/http"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/krllms-wq/CapTablePro8-sub000/src/utils"
)

// insufficientSharesResponse carries the numeric context of a rejected
// transfer so the frontend can render a precise message.
type insufficientSharesResponse struct {
	Error     string `json:"error"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

// writeDomainError maps the engine's typed errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var insufficientErr *models.InsufficientSharesError
	var configErr *models.ConfigurationError

	switch {
	case errors.As(err, &insufficientErr):
		utils.SendJSON(w, http.StatusConflict, insufficientSharesResponse{
			Error:     insufficientErr.Error(),
			Requested: insufficientErr.Requested,
			Available: insufficientErr.Available,
		})
	case errors.As(err, &validationErr),
		errors.Is(err, models.ErrSelfTransferNotAllowed),
		errors.Is(err, models.ErrMissingBuyerName):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &configErr):
		utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrCompanyNotFound),
		errors.Is(err, models.ErrStakeholderNotFound),
		errors.Is(err, models.ErrSecurityClassNotFound),
		errors.Is(err, models.ErrConvertibleNotFound),
		errors.Is(err, models.ErrBuyerNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	default:
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
