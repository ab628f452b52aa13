// Package handlers contains the HTTP handlers for the REST API.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"userapi-backend/application/services"
	"userapi-backend/pkg/common"
	apperrors "userapi-backend/pkg/errors"
	"userapi-backend/pkg/utils"
)

// maxBodyBytes bounds request bodies; user payloads are tiny
const maxBodyBytes = 1 << 20

// UserHandler handles user CRUD requests
type UserHandler struct {
	users  *services.UserService
	errors *apperrors.Handler
	logger *zap.Logger
}

// NewUserHandler creates a user handler
func NewUserHandler(users *services.UserService, errHandler *apperrors.Handler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		errors: errHandler,
		logger: logger,
	}
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=120"`
	Email string `json:"email" validate:"required,email"`
	Age   *int   `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=120"`
	Email string `json:"email" validate:"required,email"`
	Age   *int   `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
}

// List handles GET /api/users. Without pagination parameters the full
// listing is served through the cache and tagged with its provenance;
// with them, one page comes straight from the store.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if common.HasPagination(r) {
		params := common.ExtractPaginationParams(r)

		page, err := h.users.ListPage(r.Context(), params.Page, params.Limit)
		if err != nil {
			h.errors.Respond(w, r, err)
			return
		}

		common.RespondPaginated(w, http.StatusOK, page.Users,
			common.BuildPaginationInfo(params.Page, params.Limit, page.Total))
		return
	}

	users, source, err := h.users.List(r.Context())
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	common.RespondWithSource(w, http.StatusOK, users, source)
}

// Get handles GET /api/users/{userID}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	u, source, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	common.RespondWithSource(w, http.StatusOK, u, source)
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	created, err := h.users.Create(r.Context(), services.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	})
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	common.RespondMessage(w, http.StatusCreated, created, "User created successfully")
}

// Update handles PUT and PATCH /api/users/{userID}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	updated, err := h.users.Update(r.Context(), id, services.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	})
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	common.RespondMessage(w, http.StatusOK, updated, "User updated successfully")
}

// Delete handles DELETE /api/users/{userID}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	deleted, err := h.users.Delete(r.Context(), id)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	common.RespondMessage(w, http.StatusOK, deleted, "User deleted successfully")
}

// userID parses the id path parameter, responding 400 when it is not an integer
func (h *UserHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.errors.Respond(w, r, apperrors.NewValidationError("invalid user ID"))
		return 0, false
	}
	return id, true
}

// decode parses and validates a JSON body, responding 400 on failure
func (h *UserHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
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

// validationError carries per-field messages in the envelope's details map
func validationError(err error) *apperrors.AppError {
	appErr := apperrors.NewValidationError(err.Error())
	var fieldErrs utils.FieldErrors
	if errors.As(err, &fieldErrs) {
		appErr = appErr.WithDetails(fieldErrs.Details())
	}
	return appErr
}
