package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"quizhub/internal/auth"
	"quizhub/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc         service.UserService
	authService service.AuthService
	log         logrus.FieldLogger
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, authService service.AuthService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		svc:         svc,
		authService: authService,
		log:         log.WithField("component", "user_handler"),
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ChangePasswordRequest carries the new password of the authenticated user.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// ForgetRequest starts a password reset.
type ForgetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetRequest completes a password reset.
type ResetRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// DeletedUserResponse is returned after an account is removed.
type DeletedUserResponse struct {
	DeletedUserID uuid.UUID `json:"deleted_user_id"`
}

// Register godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "User payload"
// @Success 201 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(h.log, "register user", err)
	}
	return c.JSON(http.StatusCreated, user)
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.PublicUser
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(h.log, "list users", err)
	}
	return c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(h.log, "get user", err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change the password of the authenticated user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "New password"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users [patch]
func (h *UserHandler) ChangePassword(c echo.Context, claims *auth.SessionClaims) error {
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.ChangePassword(c.Request().Context(), claims.UserUUID(), req.Password)
	if err != nil {
		return fail(h.log, "change password", err)
	}
	return c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DeletedUserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users [delete]
func (h *UserHandler) Delete(c echo.Context, claims *auth.SessionClaims) error {
	id, err := h.svc.Delete(c.Request().Context(), claims.UserUUID())
	if err != nil {
		return fail(h.log, "delete user", err)
	}
	return c.JSON(http.StatusOK, DeletedUserResponse{DeletedUserID: id})
}

// Forget godoc
// @Summary Send a password reset token by e-mail
// @Tags users
// @Accept json
// @Produce json
// @Param request body ForgetRequest true "Account e-mail"
// @Success 200 {object} notify.Delivery
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/forget [post]
func (h *UserHandler) Forget(c echo.Context) error {
	var req ForgetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	delivery, err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		return fail(h.log, "request password reset", err)
	}
	return c.JSON(http.StatusOK, delivery)
}

// Reset godoc
// @Summary Set a new password with a reset token
// @Tags users
// @Accept json
// @Produce json
// @Param request body ResetRequest true "Reset payload"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/reset [patch]
func (h *UserHandler) Reset(c echo.Context) error {
	var req ResetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.authService.ConfirmPasswordReset(c.Request().Context(), req.Email, req.Token, req.Password)
	if err != nil {
		return fail(h.log, "confirm password reset", err)
	}
	return c.JSON(http.StatusOK, user)
}
