package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"login-system-api/internal/httputil"
	"login-system-api/internal/logging"
	"login-system-api/internal/user"
)

// Service identity reported by the health endpoint.
const (
	ServiceName = "authentication-api"
	Version     = "1.0.0"
)

// Handler contains the HTTP handlers for the account endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// UpdateProfileRequest represents a partial profile update. Absent fields
// are left unchanged.
type UpdateProfileRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ChangePasswordRequest represents the password change request body
type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	Message string       `json:"message"`
	User    user.Profile `json:"user"`
}

// UpdateProfileResponse represents the profile update response
type UpdateProfileResponse struct {
	Message string       `json:"message"`
	User    user.Profile `json:"user"`
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the fixed liveness payload
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// DiscoveryResponse lists the available endpoint paths
type DiscoveryResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new account from username, email and a confirmed password
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration fields"
// @Success      201 {object} RegisterResponse
// @Failure      400 {object} map[string][]string "Field-keyed validation errors"
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	newUser, err := h.service.Register(r.Context(), RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	})
	if err != nil {
		var fieldErrs FieldErrors
		if errors.As(err, &fieldErrs) {
			logger.Warn("registration rejected", "error", err.Error())
			httputil.RespondJSON(w, fieldErrs, http.StatusBadRequest)
			return
		}
		logger.Error("registration failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to register user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, RegisterResponse{
		Message: "registration successful",
		User:    newUser.Profile(),
	}, http.StatusCreated)
}

// GetProfile returns the authenticated user's public view
// @Summary      Get current user profile
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} user.Profile
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	u, err := h.service.GetProfile(r.Context(), principal.UserID)
	if err != nil {
		// An authenticated principal without a user row is an internal
		// fault, not a client error.
		logger.Error("failed to load profile", "user_id", principal.UserID, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to load profile", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, u.Profile(), http.StatusOK)
}

// UpdateProfile applies a partial update to the authenticated user's profile
// @Summary      Update current user profile
// @Description  Partial update of email, first name and last name
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Fields to update"
// @Success      200 {object} UpdateProfileResponse
// @Failure      400 {object} map[string][]string "Field-keyed validation errors"
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile update request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), principal.UserID, ProfileUpdateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		var fieldErrs FieldErrors
		if errors.As(err, &fieldErrs) {
			logger.Warn("profile update rejected", "user_id", principal.UserID, "error", err.Error())
			httputil.RespondJSON(w, fieldErrs, http.StatusBadRequest)
			return
		}
		logger.Error("profile update failed", "user_id", principal.UserID, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update profile", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, UpdateProfileResponse{
		Message: "profile updated",
		User:    u.Profile(),
	}, http.StatusOK)
}

// ChangePassword rotates the authenticated user's password
// @Summary      Change password
// @Description  Verify the current password and replace it with a new one
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ChangePasswordRequest true "Password change fields"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} map[string][]string "Field-keyed validation errors"
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid change password request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	err := h.service.ChangePassword(r.Context(), principal.UserID, ChangePasswordInput{
		OldPassword:        req.OldPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	})
	if err != nil {
		var fieldErrs FieldErrors
		if errors.As(err, &fieldErrs) {
			logger.Warn("password change rejected", "user_id", principal.UserID)
			httputil.RespondJSON(w, fieldErrs, http.StatusBadRequest)
			return
		}
		logger.Error("password change failed", "user_id", principal.UserID, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to change password", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, MessageResponse{Message: "password changed successfully"}, http.StatusOK)
}

// Logout acknowledges a logout. Token invalidation is the token authority's
// responsibility; this endpoint exists so clients have a server-side hook.
// @Summary      Logout
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MessageResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	logger.Info("user logged out", "user_id", principal.UserID)

	httputil.RespondJSON(w, MessageResponse{Message: "logout successful"}, http.StatusOK)
}

// Health reports service liveness
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: Version,
	}, http.StatusOK)
}

// Discovery lists the available endpoints. The token and token_refresh paths
// point at the external token authority and are not served here.
// @Summary      API root
// @Tags         health
// @Produce      json
// @Success      200 {object} DiscoveryResponse
// @Router       / [get]
func (h *Handler) Discovery(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, DiscoveryResponse{
		Message: "Login System API",
		Version: Version,
		Endpoints: map[string]string{
			"token":           "/token",
			"token_refresh":   "/token/refresh",
			"register":        "/register",
			"profile":         "/profile",
			"change_password": "/change-password",
			"logout":          "/logout",
			"health":          "/health",
		},
	}, http.StatusOK)
}
