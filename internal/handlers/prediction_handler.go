package handlers

import (
	"errors"
	"net/http"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPredictions(c *gin.Context) {
	preds, err := h.repos.Predictions.ListByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	views := make([]gin.H, 0, len(preds))
	for i := range preds {
		views = append(views, predictionView(&preds[i]))
	}
	c.JSON(http.StatusOK, gin.H{"predictions": views})
}

func (h *Handler) CreatePrediction(c *gin.Context) {
	var input models.CreatePredictionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	pred := &models.Prediction{
		UserID:     currentUser(c).ID,
		Disease:    input.Disease,
		Confidence: input.Confidence,
		ImageURL:   input.ImageURL,
		BodyPart:   input.BodyPart,
		Symptoms:   input.Symptoms,
		Duration:   input.Duration,
	}
	if err := h.repos.Predictions.Create(c.Request.Context(), pred); err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, predictionView(pred))
}

// GetPrediction answers 404 for predictions of other users.
func (h *Handler) GetPrediction(c *gin.Context) {
	pred, err := h.repos.Predictions.FindByID(c.Request.Context(), paramID(c, "id"))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && pred.UserID != currentUser(c).ID) {
		utils.APIError(c, http.StatusNotFound, "Prediction not found")
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, predictionView(pred))
}
