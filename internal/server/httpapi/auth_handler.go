package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/impulseapp/impulse-api/internal/logging"
	"github.com/impulseapp/impulse-api/internal/server/models"
	"github.com/impulseapp/impulse-api/internal/server/services"
)

// AuthService is the surface of services.AuthService the handlers need.
type AuthService interface {
	Register(ctx context.Context, email, password string, displayName *string, meta models.SessionMeta) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string, meta models.SessionMeta) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.RefreshResult, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error
	GetCurrentUser(ctx context.Context, userID string) (*models.UserPublic, error)
}

type AuthHandler struct {
	svc    AuthService
	logger logging.Logger
}

func NewAuthHandler(svc AuthService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type registerRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.Register(r.Context(), req.Email, req.Password, req.DisplayName, sessionMeta(r))
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondDataMessage(w, http.StatusCreated, "User registered successfully", result)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password, sessionMeta(r))
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondDataMessage(w, http.StatusOK, "Login successful", result)
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, result)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.svc.Logout(r.Context(), req.RefreshToken); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "Logged out successfully")
}

// LogoutAll handles POST /api/auth/logout-all. Requires auth.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.svc.LogoutAll(r.Context(), claims.UserID); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "Logged out from all devices")
}

// Me handles GET /api/auth/me. Requires auth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.svc.GetCurrentUser(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"user": user})
}

// sessionMeta captures the device details stored with a refresh session.
func sessionMeta(r *http.Request) models.SessionMeta {
	meta := models.SessionMeta{}
	if ua := r.UserAgent(); ua != "" {
		meta.DeviceInfo = &ua
	}
	if v := r.Header.Get("X-Extension-Version"); v != "" {
		meta.ExtensionVersion = &v
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "" {
		meta.IPAddress = &host
	}
	return meta
}
