package account

import (
	"errors"
	"net/http"
	"strings"

	"bookreview/internal/httpx"
	"bookreview/internal/metrics"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email           string `json:"email" validate:"required,email,max=256"`
	Password        string `json:"password" validate:"required,password_strength"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required,notblank,max=100"`
	LastName        string `json:"lastName" validate:"required,notblank,max=100"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password_strength"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password_strength"`
}

// decode reads and validates the body, writing the 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return false
	}
	if errs := httpx.ValidateStruct(dst); len(errs) > 0 {
		httpx.ValidationFailed(w, r, errs)
		return false
	}
	return true
}

// Login handles POST /api/Account/login
// @Summary User login
// @Description Authenticate and receive a bearer token
// @Tags Account
// @Accept json
// @Produce json
// @Param request body loginRequest true "Login request"
// @Success 200 {object} AuthResult
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /api/Account/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		httpx.ValidationFailed(w, r, errs)
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			metrics.AuthFailures.WithLabelValues("bad_credentials").Inc()
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, res)
}

// Register handles POST /api/Account/register
// @Summary Register a new user
// @Description Create an account and sign in
// @Tags Account
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration request"
// @Success 200 {object} AuthResult
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/Account/register [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		httpx.ValidationFailed(w, r, errs)
		return
	}

	res, err := h.service.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.JSONError(w, r, http.StatusConflict, "EMAIL_TAKEN", "Email already registered",
				[]httpx.ErrorDetail{{Field: "email", Message: "email is already registered"}})
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, res)
}

// ForgotPassword handles POST /api/Account/forgot-password
// @Summary Request a password reset
// @Description Always succeeds; a reset token is issued only for known emails
// @Tags Account
// @Accept json
// @Produce json
// @Param request body forgotPasswordRequest true "Email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/Account/forgot-password [post]
func (h *HTTPHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, map[string]string{
		"message": "If the email is registered, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/Account/reset-password
// @Summary Reset password with a token
// @Tags Account
// @Accept json
// @Param request body resetPasswordRequest true "Token and new password"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/Account/reset-password [post]
func (h *HTTPHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, ErrInvalidResetToken) {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_TOKEN", "Reset token is invalid or expired", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// ChangePassword handles POST /api/Account/change-password
// @Summary Change password
// @Tags Account
// @Accept json
// @Security BearerAuth
// @Param request body changePasswordRequest true "Old and new password"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /api/Account/change-password [post]
func (h *HTTPHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}

	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.service.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
		httpx.NoContent(w)
	case errors.Is(err, ErrIncorrectPassword):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_PASSWORD", "Current password is incorrect",
			[]httpx.ErrorDetail{{Field: "oldPassword", Message: err.Error()}})
	case errors.Is(err, ErrNotFound):
		httpx.Unauthorized(w, r)
	default:
		httpx.InternalError(w, r, err)
	}
}

// Me handles GET /api/Account/me
// @Summary Get current user
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} entity.User
// @Failure 401 {object} httpx.ErrorResponse
// @Router /api/Account/me [get]
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}

	u, err := h.service.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Unauthorized(w, r)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, u)
}
