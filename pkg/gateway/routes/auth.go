package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/careloop-health/readmit/pkg/common/logger"
	"github.com/careloop-health/readmit/pkg/common/models"
	gatewayauth "github.com/careloop-health/readmit/pkg/gateway/auth"
	"github.com/careloop-health/readmit/pkg/identity"
	"github.com/careloop-health/readmit/pkg/observability/metrics"
)

type AuthHandler struct {
	service     *identity.Service
	tokenSigner *gatewayauth.JWTManager
}

func NewAuthHandler(service *identity.Service, tokenSigner *gatewayauth.JWTManager) *AuthHandler {
	return &AuthHandler{service: service, tokenSigner: tokenSigner}
}

func (h *AuthHandler) Register(r *mux.Router) {
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusUnauthorized, models.APIMessage{Message: "Invalid credentials"})
		return
	}

	subject, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.WithField("email", req.Email).Warn("authentication failed")
		metrics.LoginRejected()
		respondJSON(w, http.StatusUnauthorized, models.APIMessage{Message: "Invalid credentials"})
		return
	}

	token, err := h.tokenSigner.IssueToken(subject)
	if err != nil {
		logger.WithError(err).Error("failed issuing token")
		respondJSON(w, http.StatusInternalServerError, models.APIMessage{Message: "internal error"})
		return
	}

	metrics.LoginSucceeded()
	respondJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
