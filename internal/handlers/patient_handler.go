package handlers

import (
	"errors"
	"net/http"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetPatientProfile(c *gin.Context) {
	profile, err := h.repos.Patients.FindByUserID(c.Request.Context(), currentUser(c).ID)
	if errors.Is(err, repository.ErrNotFound) {
		utils.APIError(c, http.StatusNotFound, "Patient profile not found")
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, patientView(profile))
}

// UpsertPatientProfile creates or replaces the caller's patient profile.
func (h *Handler) UpsertPatientProfile(c *gin.Context) {
	var input models.PatientProfileInput

	// 1. Validate the JSON body
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	// 2. Save, keyed by the caller's account
	profile := &models.Patient{
		UserID: currentUser(c).ID,
		Name:   input.Name,
		Age:    input.Age,
		Gender: input.Gender,
		MailID: input.MailID,
	}
	if err := h.repos.Patients.Save(c.Request.Context(), profile); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, patientView(profile))
}
