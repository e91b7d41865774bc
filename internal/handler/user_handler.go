package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/service"
)

type UserHandler struct {
	S *service.UserService
}

// CreateUserHandler godoc
// @Summary Create user
// @Description Register a new user
// @Tags auth/user
// @Accept json
// @Produce json
// @Param body body dto.CreateUserRequest true "Create user payload"
// @Success 201 {object} dto.UserWithoutTokenResponse
// @Router /users/ [post]
func (h *UserHandler) CreateUserHandler(c *gin.Context) {
	body := validatedBody[dto.CreateUserRequest](c)

	user, err := h.S.CreateUser(c.Request.Context(), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(201, user)
}

// LoginUserHandler godoc
// @Summary Login user
// @Description Authenticate a user by email or username
// @Tags auth/user
// @Accept json
// @Produce json
// @Param body body dto.LoginUserRequest true "Login user payload"
// @Success 200 {object} dto.UserWithTokenResponse
// @Failure 428 {object} dto.TwoFaPendingUserResponse
// @Router /users/loginByIdentifier [post]
func (h *UserHandler) LoginUserHandler(c *gin.Context) {
	body := validatedBody[dto.LoginUserRequest](c)

	result, err := h.S.LoginUser(c.Request.Context(), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if result.TwoFAPending != nil {
		c.JSON(428, result.TwoFAPending)
		return
	}

	c.JSON(200, result.User)
}

// GetLoggedUserProfileHandler godoc
// @Summary Get current user profile
// @Description Returns the authenticated user's profile
// @Tags auth/user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserWithoutTokenResponse
// @Router /users/me [get]
func (h *UserHandler) GetLoggedUserProfileHandler(c *gin.Context) {
	user, err := h.S.GetUserByID(c.Request.Context(), loggedUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, user)
}

// UpdateLoggedUserPasswordHandler godoc
// @Summary Update password
// @Description Change password for the authenticated user, revokes other sessions
// @Tags auth/user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateUserPasswordRequest true "Update password payload"
// @Success 200 {object} dto.UserWithTokenResponse
// @Router /users/password [put]
func (h *UserHandler) UpdateLoggedUserPasswordHandler(c *gin.Context) {
	body := validatedBody[dto.UpdateUserPasswordRequest](c)

	user, err := h.S.UpdateUserPassword(c.Request.Context(), loggedUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, user)
}

// UpdateLoggedUserProfileHandler godoc
// @Summary Update profile
// @Description Update username, name, bio or avatar for the authenticated user
// @Tags auth/user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateUserRequest true "Update profile payload"
// @Success 200 {object} dto.UserWithoutTokenResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateLoggedUserProfileHandler(c *gin.Context) {
	body := validatedBody[dto.UpdateUserRequest](c)

	user, err := h.S.UpdateUserProfile(c.Request.Context(), loggedUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, user)
}

// DeleteLoggedUserHandler godoc
// @Summary Delete account
// @Description Delete the authenticated user's account
// @Tags auth/user
// @Produce json
// @Security BearerAuth
// @Success 204 {object} nil
// @Router /users/me [delete]
func (h *UserHandler) DeleteLoggedUserHandler(c *gin.Context) {
	if err := h.S.DeleteUser(c.Request.Context(), loggedUserID(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(204)
}

// LogoutUserHandler godoc
// @Summary Logout
// @Description Revoke all sessions of the authenticated user
// @Tags auth/user
// @Produce json
// @Security BearerAuth
// @Success 204 {object} nil
// @Router /users/logout [delete]
func (h *UserHandler) LogoutUserHandler(c *gin.Context) {
	if err := h.S.LogoutUser(c.Request.Context(), loggedUserID(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(204)
}

// GetUsersWithLimitedInfoHandler godoc
// @Summary List users (limited info)
// @Description Returns a list of users with limited fields
// @Tags auth/user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UsersResponse
// @Router /users/ [get]
func (h *UserHandler) GetUsersWithLimitedInfoHandler(c *gin.Context) {
	users, err := h.S.GetAllUsersLimitedInfo(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, dto.UsersResponse{Users: users})
}

// GetUserByUsernameHandler godoc
// @Summary Get user by username
// @Description Returns a user's public profile
// @Tags auth/user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SimpleUser
// @Router /users/username/{username} [get]
func (h *UserHandler) GetUserByUsernameHandler(c *gin.Context) {
	user, err := h.S.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, user)
}

// StartTwoFaSetupHandler godoc
// @Summary Start 2FA setup
// @Description Initiate 2FA setup and return setup token and secret
// @Tags auth/user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TwoFASetupResponse
// @Router /users/2fa/setup [post]
func (h *UserHandler) StartTwoFaSetupHandler(c *gin.Context) {
	response, err := h.S.StartTwoFaSetup(c.Request.Context(), loggedUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, response)
}

// ConfirmTwoFaSetupHandler godoc
// @Summary Confirm 2FA setup
// @Description Confirm 2FA setup using the provided code and setup token
// @Tags auth/user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.TwoFAConfirmRequest true "2FA confirm payload"
// @Success 200 {object} dto.UserWithTokenResponse
// @Router /users/2fa/confirm [post]
func (h *UserHandler) ConfirmTwoFaSetupHandler(c *gin.Context) {
	body := validatedBody[dto.TwoFAConfirmRequest](c)

	user, err := h.S.ConfirmTwoFaSetup(c.Request.Context(), loggedUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, user)
}

// DisableTwoFaHandler godoc
// @Summary Disable 2FA
// @Description Disable 2FA for the authenticated user
// @Tags auth/user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.DisableTwoFARequest true "Disable 2FA payload"
// @Success 200 {object} dto.UserWithTokenResponse
// @Router /users/2fa/disable [put]
func (h *UserHandler) DisableTwoFaHandler(c *gin.Context) {
	body := validatedBody[dto.DisableTwoFARequest](c)

	user, err := h.S.DisableTwoFA(c.Request.Context(), loggedUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, user)
}

// TwoFaSubmitHandler godoc
// @Summary Submit 2FA challenge
// @Description Submit 2FA code during login to obtain a user token
// @Tags auth/user
// @Accept json
// @Produce json
// @Param body body dto.TwoFAChallengeRequest true "2FA challenge payload"
// @Success 200 {object} dto.UserWithTokenResponse
// @Router /users/2fa [post]
func (h *UserHandler) TwoFaSubmitHandler(c *gin.Context) {
	body := validatedBody[dto.TwoFAChallengeRequest](c)

	user, err := h.S.SubmitTwoFAChallenge(c.Request.Context(), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, user)
}

// GoogleLoginHandler godoc
// @Summary Google OAuth login
// @Description Redirects to Google's consent screen
// @Tags auth/user
// @Success 302
// @Router /users/google/login [get]
func (h *UserHandler) GoogleLoginHandler(c *gin.Context) {
	url, err := h.S.GetGoogleOAuthURL(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Redirect(302, url)
}

// GoogleCallbackHandler godoc
// @Summary Google OAuth callback
// @Description Handles Google's redirect and forwards the result to the frontend
// @Tags auth/user
// @Success 302
// @Router /users/google/callback [get]
func (h *UserHandler) GoogleCallbackHandler(c *gin.Context) {
	redirectURL := h.S.HandleGoogleOAuthCallback(c.Request.Context(), c.Query("code"), c.Query("state"))
	c.Redirect(302, redirectURL)
}
