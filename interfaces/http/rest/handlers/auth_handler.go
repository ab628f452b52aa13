package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"userapi-backend/application/services"
	"userapi-backend/pkg/common"
	apperrors "userapi-backend/pkg/errors"
	"userapi-backend/pkg/utils"
)

// AuthHandler handles signup and login requests
type AuthHandler struct {
	auth   *services.AuthService
	errors *apperrors.Handler
	logger *zap.Logger
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(auth *services.AuthService, errHandler *apperrors.Handler, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		errors: errHandler,
		logger: logger,
	}
}

// SignupRequest represents the request body for account creation
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=72"`
	Age      *int   `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !h.decode(w, r, &req) {
		return
	}

	created, err := h.auth.Signup(r.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	common.RespondMessage(w, http.StatusCreated, created, "User created successfully")
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	common.RespondMessage(w, http.StatusOK, u, "Login successful")
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(r, v, maxBodyBytes); err != nil {
		h.errors.Respond(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		h.errors.Respond(w, r, validationError(err))
		return false
	}
	return true
}
