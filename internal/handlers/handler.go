// Package handlers holds the gin handlers of the /api/auth surface.
package handlers

import (
	"errors"
	"net/http"

	"dermacare-backend/internal/middleware"
	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/internal/services/appointment"
	"dermacare-backend/internal/services/auth"
	"dermacare-backend/internal/services/messaging"
	"dermacare-backend/internal/services/report"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	repos        *repository.Repositories
	auth         *auth.Service
	appointments *appointment.Service
	messages     *messaging.Service
	reports      *report.Service
	log          *zap.Logger
}

func New(
	repos *repository.Repositories,
	authSvc *auth.Service,
	appointments *appointment.Service,
	messages *messaging.Service,
	reports *report.Service,
	log *zap.Logger,
) *Handler {
	return &Handler{
		repos:        repos,
		auth:         authSvc,
		appointments: appointments,
		messages:     messages,
		reports:      reports,
		log:          log,
	}
}

// currentUser is never nil behind AuthMiddleware.
func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

// paramID reads a numeric path parameter; 0 means missing or malformed.
func paramID(c *gin.Context, name string) uint64 {
	return utils.StringToUint64(c.Param(name))
}

// badInput answers 400 with the binding error as data, the way every input check does.
func badInput(c *gin.Context, err error) {
	utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
}

// serverError logs err against the request and hides it from the client.
func (h *Handler) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	h.log.Error("request failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	utils.APIError(c, http.StatusInternalServerError, "Internal server error")
}

type errorMapping struct {
	err    error
	status int
}

// respondError writes the first mapping that matches err, else a 500.
func (h *Handler) respondError(c *gin.Context, err error, mappings ...errorMapping) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			utils.APIError(c, m.status, m.err.Error())
			return
		}
	}
	h.serverError(c, err)
}
