package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wastewise/wastewise/internal/core/ports"
)

// ProfileHandler serves the authenticated user's own account.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get handles GET /user/profile.
//
// @Summary      Get current user profile
// @Tags         User Profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /user/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Profile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(profile))
}

// Update handles PUT /user/profile. A new token is returned when the email
// changes, since tokens are bound to the email.
//
// @Summary      Update user profile
// @Tags         User Profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  updateProfileResponse
// @Failure      400   {object}  errorResponse
// @Router       /user/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, token, err := h.service.UpdateProfile(c.Request().Context(), user, toProfileFields(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateProfileResponse{
		Message: "Profile updated successfully",
		User:    toUserResponse(updated),
		Token:   token,
	})
}

// UpdatePassword handles PUT /user/password.
//
// @Summary      Update user password
// @Tags         User Profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /user/password [put]
func (h *ProfileHandler) UpdatePassword(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.UpdatePassword(c.Request().Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
