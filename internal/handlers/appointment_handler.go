package handlers

import (
	"context"
	"errors"
	"net/http"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/internal/services/appointment"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

var appointmentErrors = []errorMapping{
	{appointment.ErrInvalidStatus, http.StatusBadRequest},
	{appointment.ErrInvalidTransition, http.StatusBadRequest},
	{appointment.ErrInvalidSchedule, http.StatusBadRequest},
	{appointment.ErrIncompleteProfile, http.StatusBadRequest},
	{appointment.ErrForbidden, http.StatusForbidden},
	{appointment.ErrNotFound, http.StatusNotFound},
	{appointment.ErrDoctorNotFound, http.StatusNotFound},
	{appointment.ErrPredictionNotFound, http.StatusNotFound},
}

func (h *Handler) ListAppointments(c *gin.Context) {
	ctx := c.Request.Context()

	appts, err := h.appointments.List(ctx, currentUser(c))
	if err != nil {
		h.serverError(c, err)
		return
	}

	names := make(map[uint64]string)
	views := make([]gin.H, 0, len(appts))
	for i := range appts {
		name, err := h.patientName(ctx, &appts[i], names)
		if err != nil {
			h.serverError(c, err)
			return
		}
		views = append(views, appointmentView(&appts[i], name))
	}
	c.JSON(http.StatusOK, gin.H{"appointments": views})
}

// patientName prefers the profile name over the account email, caching per request.
func (h *Handler) patientName(ctx context.Context, a *models.Appointment, cache map[uint64]string) (string, error) {
	if name, ok := cache[a.PatientID]; ok {
		return name, nil
	}

	name := a.Patient.Email
	profile, err := h.repos.Patients.FindByUserID(ctx, a.PatientID)
	switch {
	case err == nil && profile.Name != "":
		name = profile.Name
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return "", err
	}

	cache[a.PatientID] = name
	return name, nil
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var input models.CreateAppointmentInput

	// 1. Validate the JSON body
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}
	// 2. Book it; an unparsable doctorId is an unknown doctor
	appt, err := h.appointments.Create(c.Request.Context(), currentUser(c), appointment.CreateRequest{
		DoctorID:      utils.StringToUint64(input.DoctorID),
		PredictionID:  utils.StringToUint64(input.PredictionID),
		ReportID:      utils.StringToUint64(input.ReportID),
		PreferredDate: input.PreferredDate,
		PreferredTime: input.PreferredTime,
	})
	if err != nil {
		h.respondError(c, err, appointmentErrors...)
		return
	}

	// 3. Same reply the client already shows to the patient
	c.JSON(http.StatusCreated, gin.H{
		"_id":     utils.FormatID(appt.ID),
		"status":  appt.Status,
		"message": "Appointment request sent successfully. The doctor will respond within 24 hours.",
	})
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	appt, err := h.appointments.Cancel(c.Request.Context(), currentUser(c), paramID(c, "id"))
	h.statusReply(c, appt, err, "Appointment cancelled successfully")
}

func (h *Handler) ConfirmAppointment(c *gin.Context) {
	appt, err := h.appointments.Confirm(c.Request.Context(), currentUser(c), paramID(c, "id"))
	h.statusReply(c, appt, err, "Appointment confirmed successfully")
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	var input models.UpdateAppointmentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	appt, err := h.appointments.UpdateStatus(c.Request.Context(), currentUser(c), paramID(c, "id"), input.Status)
	h.statusReply(c, appt, err, "Appointment status updated")
}

func (h *Handler) statusReply(c *gin.Context, appt *models.Appointment, err error, message string) {
	if err != nil {
		h.respondError(c, err, appointmentErrors...)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"_id":     utils.FormatID(appt.ID),
		"status":  appt.Status,
	})
}
