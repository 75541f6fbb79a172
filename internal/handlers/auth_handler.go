package handlers

import (
	"net/http"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/services/auth"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Config tells the client which login strategy to render.
func (h *Handler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategy": "email"})
}

func (h *Handler) Register(c *gin.Context) {
	var input models.RegisterInput

	// 1. Validate the JSON body
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	// 2. Create the account
	session, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err,
			errorMapping{auth.ErrUserExists, http.StatusBadRequest},
			errorMapping{auth.ErrInvalidRole, http.StatusBadRequest},
		)
		return
	}

	// 3. Hand back the account and its token
	c.JSON(http.StatusCreated, sessionView(session))
}

func (h *Handler) Login(c *gin.Context) {
	var input models.LoginInput

	// 1. Validate the JSON body
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	// 2. Check the credential
	session, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err,
			errorMapping{auth.ErrInvalidCredentials, http.StatusBadRequest},
			errorMapping{auth.ErrInactive, http.StatusForbidden},
		)
		return
	}

	// 3. Hand back the account and its token
	c.JSON(http.StatusOK, sessionView(session))
}

func (h *Handler) RefreshToken(c *gin.Context) {
	session, err := h.auth.Refresh(c.Request.Context(), currentUser(c))
	if err != nil {
		h.serverError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Token refreshed", gin.H{
		"accessToken":  session.Token,
		"refreshToken": session.Token,
	})
}

// Me describes the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	user := currentUser(c)
	name, err := h.auth.DisplayName(c.Request.Context(), user)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, accountView(user, name))
}
