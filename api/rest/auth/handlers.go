package auth

import (
	stderrors "errors"
	"net/http"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/auth"
	"codeberg.org/archviz/studio/internal/errors"
	"codeberg.org/archviz/studio/internal/logger"
	"codeberg.org/archviz/studio/internal/quota"
	"github.com/gin-gonic/gin"
)

// LoginHandler godoc
// @Summary Log in
// @Description Exchanges a username and password for a JWT. The configured admin is checked first.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/v1/auth/login [post]
func LoginHandler(accounts Accounts, admin auth.AdminCredentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if admin.Matches(req.Username, req.Password) {
			token, err := auth.GenerateJWT(users.AdminID, admin.Username, true)
			if err != nil {
				errors.InternalError(c, "failed to generate token", err)
				return
			}

			logger.Info("admin logged in", "ip", c.ClientIP())

			c.JSON(http.StatusOK, LoginResponse{
				Token: token,
				User:  adminResponse(admin.Username),
			})

			return
		}

		user, err := accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case stderrors.Is(err, users.ErrInvalidCredentials):
				errors.Unauthorized(c, messageInvalidCredentials)
			case stderrors.Is(err, users.ErrBanned):
				errors.Forbidden(c, messageBanned)
			case stderrors.Is(err, users.ErrExpired):
				errors.Forbidden(c, messageExpired)
			default:
				errors.InternalError(c, "failed to authenticate", err)
			}

			return
		}

		token, err := auth.GenerateJWT(user.ID, user.Username, false)
		if err != nil {
			errors.InternalError(c, "failed to generate token", err)
			return
		}

		logger.Info("user logged in", "user_id", user.ID, "ip", c.ClientIP())

		c.JSON(http.StatusOK, LoginResponse{
			Token: token,
			User:  userResponse(*user, time.Now()),
		})
	}
}

// GetCurrentUserHandler godoc
// @Summary Get current user
// @Description Returns the caller's account status and today's reconciled usage
// @Tags auth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/auth/me [get]
// @Security BearerAuth
func GetCurrentUserHandler(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.IsAdmin(c) {
			c.JSON(http.StatusOK, adminResponse(auth.GetUsername(c)))
			return
		}

		userID, _ := auth.GetUserID(c)

		user, err := accounts.Get(c.Request.Context(), userID)
		if err != nil {
			if stderrors.Is(err, users.ErrNotFound) {
				errors.NotFound(c, "user")
				return
			}

			errors.InternalError(c, "failed to load user", err)
			return
		}

		c.JSON(http.StatusOK, userResponse(*user, time.Now()))
	}
}

func userResponse(u users.User, now time.Time) MeResponse {
	expiry := u.ExpiryDate

	return MeResponse{
		ID:         u.ID,
		Username:   u.Username,
		Status:     users.Status(u, now),
		ExpiryDate: &expiry,
		Quota:      quota.Reconcile(u, users.Today(now)),
	}
}

func adminResponse(username string) MeResponse {
	return MeResponse{
		ID:       users.AdminID,
		Username: username,
		IsAdmin:  true,
		Status:   users.StatusActive,
		Quota:    quota.AdminView(username),
	}
}
