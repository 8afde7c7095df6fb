// Copyright (c) 2026 Quillora. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillora/quillora/internal/platform/middleware"
	requestutil "github.com/quillora/quillora/internal/platform/request"
	"github.com/quillora/quillora/internal/platform/respond"
	"github.com/quillora/quillora/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Architecture
//
// Handlers act as the "gatekeepers" to the system. They are responsible for
// JSON request parsing, strict input validation, and mapping HTTP contexts to
// service-layer calls. They contain NO business logic or database queries.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register        : Creates a new account, returns a token pair.
//   - POST /login           : Authenticates, returns a token pair.
//   - POST /refresh         : Rotates a refresh token into a new pair.
//   - POST /logout          : Revokes a refresh token (idempotent).
//   - POST /forgot-password : Starts the password reset flow.
//   - POST /reset-password  : Completes the password reset flow.
//   - GET  /me              : Returns the authenticated principal.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.me)
	})

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// register handles POST /api/v1/auth/register requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the token pair and profile.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if the email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required("email", input.Email).Email("email", input.Email)
	validator.MinLen("password", input.Password, 8).MaxLen("password", input.Password, 72)
	validator.MaxLen("display_name", input.DisplayName, 100)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, session)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK on success with the token pair and profile.
//   - Writes HTTP 401 Unauthorized for bad credentials — one message for all
//     failure modes.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Email == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("email/password", "are required"))
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// refreshRequest carries the opaque refresh token for rotation and logout.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refresh handles POST /api/v1/auth/refresh requests.
//
// # Returns
//   - Writes HTTP 200 OK with a brand-new token pair.
//   - Writes HTTP 401 Unauthorized if the token is invalid, expired, or
//     already consumed.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError("refresh_token", "is required"))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// logout handles POST /api/v1/auth/logout requests.
//
// Always returns HTTP 204 for a well-formed request: revocation is
// idempotent, and a second logout with the same token is not an error.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// forgotPasswordRequest starts the reset flow for an email address.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// forgotPassword handles POST /api/v1/auth/forgot-password requests.
//
// Always answers HTTP 202 regardless of whether the account exists, so the
// endpoint cannot be used to enumerate registered emails. The token travels
// via the mail pipeline, never via this response.
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Email == "" {
		respond.Error(writer, request, validate.RequiredError("email", "is required"))
		return
	}

	if _, err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Accepted(writer, map[string]string{"status": "reset_requested"})
}

// resetPasswordRequest completes the reset flow.
type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// resetPassword handles POST /api/v1/auth/reset-password requests.
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("token", input.Token)
	validator.MinLen("new_password", input.NewPassword, 8).MaxLen("new_password", input.NewPassword, 72)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// me handles GET /api/v1/auth/me requests.
//
// It simply mirrors the verified principal back, proving the access token
// round-trip without touching the database.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, principal)
}
