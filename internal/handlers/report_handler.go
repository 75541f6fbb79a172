package handlers

import (
	"net/http"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/services/report"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.reports.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.serverError(c, err)
		return
	}

	views := make([]gin.H, 0, len(reports))
	for i := range reports {
		views = append(views, reportView(&reports[i]))
	}
	c.JSON(http.StatusOK, gin.H{"reports": views})
}

func (h *Handler) GenerateReport(c *gin.Context) {
	var input models.GenerateReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	predictionID := utils.StringToUint64(input.PredictionID)
	if predictionID == 0 {
		utils.APIError(c, http.StatusNotFound, report.ErrPredictionNotFound.Error())
		return
	}

	rep, err := h.reports.Generate(c.Request.Context(), currentUser(c), predictionID)
	if err != nil {
		h.respondError(c, err, errorMapping{report.ErrPredictionNotFound, http.StatusNotFound})
		return
	}
	c.JSON(http.StatusCreated, reportView(rep))
}
