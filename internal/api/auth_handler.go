package api

import (
	"net/http"

	"github.com/phrazzld/taskify-api/internal/api/shared"
	"github.com/phrazzld/taskify-api/internal/service"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	auth service.AuthService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// CheckUsername handles the /auth/check-username endpoint.
func (h *AuthHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req CheckUsernameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.auth.CheckUsername(r.Context(), req.Username); err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, AvailabilityResponse{
		Success:   true,
		Message:   "User is not registered",
		Available: true,
	})
}

// CheckEmail handles the /auth/check-email endpoint.
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req CheckEmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.auth.CheckEmail(r.Context(), req.Email); err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, AvailabilityResponse{
		Success:   true,
		Message:   "User is not registered",
		Available: true,
	})
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	_, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, MessageResponse{
		Success: true,
		Message: "User has been created",
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		RespondWithDomainError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Success: true,
		Message: "Logged In",
		Token:   res.Token,
	})
}
