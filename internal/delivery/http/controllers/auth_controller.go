package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "eventportals/internal/delivery/http/helpers"
	"eventportals/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SignUpRequest is the request body for POST /auth/signup
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Role     string `json:"role"` // optional: "attendee", "organizer", or "vendor" (defaults to "attendee")
}

// Validate implements Validator.
func (s SignUpRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	} else if len(s.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	role := strings.TrimSpace(strings.ToLower(s.Role))
	switch role {
	case "", domain.RoleAttendee, domain.RoleOrganizer, domain.RoleVendor:
	default:
		errs = append(errs, "role must be \"attendee\", \"organizer\", or \"vendor\"")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for the login and verify-code endpoints.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

// RequestLoginCodeRequest is the request body for POST /auth/login-code/request
type RequestLoginCodeRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (r RequestLoginCodeRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(r.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// VerifyLoginCodeRequest is the request body for POST /auth/login-code/verify
type VerifyLoginCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate implements Validator.
func (r VerifyLoginCodeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

type AuthController struct {
	Logger *slog.Logger
	Auth   domain.AuthService
	Users  domain.UserService
}

func NewAuthController(logger *slog.Logger, authSvc domain.AuthService, userSvc domain.UserService) *AuthController {
	return &AuthController{
		Logger: logger,
		Auth:   authSvc,
		Users:  userSvc,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Create a new user with email, password, and name. Optional role: "attendee", "organizer", or "vendor" (defaults to "attendee"). Password is stored hashed.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Auth.SignUp(r.Context(), req.Email, req.Password, req.Name, req.LastName, req.Role)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "email already registered")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT containing user id, email, and roles.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type, and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if strings.Contains(err.Error(), "invalid credentials") {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
}

// RequestLoginCodeResponse is the data payload for POST /auth/login-code/request (200).
type RequestLoginCodeResponse struct {
	Status string `json:"status"`
}

// RequestLoginCode godoc
// @Summary Request a one-time login code
// @Description Sends a short-lived login code to the given email if an account exists. Always returns 200 so callers cannot probe registered addresses.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RequestLoginCodeRequest true "Email address"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login-code/request [post]
func (c *AuthController) RequestLoginCode(w http.ResponseWriter, r *http.Request) {
	var req RequestLoginCodeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Users.RequestLoginCode(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, RequestLoginCodeResponse{Status: "code sent if account exists"})
}

// VerifyLoginCode godoc
// @Summary Verify a one-time login code
// @Description Exchanges a valid login code for a JWT. Codes are single use and expire after 15 minutes.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body VerifyLoginCodeRequest true "Email and code"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type, and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login-code/verify [post]
func (c *AuthController) VerifyLoginCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyLoginCodeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Users.VerifyLoginCode(r.Context(), req.Email, req.Code)
	if err != nil {
		if strings.Contains(err.Error(), "invalid or expired") {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired login code")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
}
