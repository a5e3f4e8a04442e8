package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/krllms-wq/CapTablePro8-sub000/src/database"
	"github.com/krllms-wq/CapTablePro8-sub000/src/logger"
	"github.com/krllms-wq/CapTablePro8-sub000/src/model"
	"github.com/krllms-wq/CapTablePro8-sub000/src/security"
	"github.com/krllms-wq/CapTablePro8-sub000/src/utils"
)

type AuthHandler struct {
	authService *security.AuthService
}

func NewAuthHandler(authService *security.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// HandleRegister serves POST /api/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < 8 {
		utils.SendJSONError(w, "username and a password of at least 8 characters are required", http.StatusBadRequest)
		return
	}

	user := &model.User{Username: req.Username, Email: req.Email}
	if err := user.HashPassword(req.Password); err != nil {
		logger.FromContext(r.Context()).Error("Password hashing failed", "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := model.CreateUser(database.DB, user); err != nil {
		logger.FromContext(r.Context()).Warn("User registration failed", "username", req.Username, "error", err)
		utils.SendJSONError(w, "could not create user", http.StatusConflict)
		return
	}

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Token generation failed", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

// HandleLogin serves POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByUsername(database.DB, strings.TrimSpace(req.Username))
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			logger.FromContext(r.Context()).Error("User lookup failed", "error", err)
		}
		utils.SendJSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := user.CheckPassword(req.Password); err != nil {
		utils.SendJSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Token generation failed", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}
