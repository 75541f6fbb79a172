package handlers

import (
	"errors"
	"net/http"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/internal/services/appointment"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.repos.Doctors.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	views := make([]gin.H, 0, len(doctors))
	for i := range doctors {
		views = append(views, doctorView(&doctors[i]))
	}
	c.JSON(http.StatusOK, gin.H{"doctors": views})
}

func (h *Handler) GetDoctor(c *gin.Context) {
	doctor, err := h.repos.Doctors.FindByID(c.Request.Context(), paramID(c, "id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor not found"})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctorDetailView(doctor))
}

// UpsertDoctorProfile creates or replaces the caller's doctor profile.
func (h *Handler) UpsertDoctorProfile(c *gin.Context) {
	var input models.DoctorProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	doctor := &models.Doctor{
		UserID:           currentUser(c).ID,
		Name:             input.Name,
		Education:        input.Education,
		Hospital:         input.Hospital,
		HospitalLocation: input.HospitalLocation,
	}
	if err := h.repos.Doctors.Save(c.Request.Context(), doctor); err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctorView(doctor))
}

// DoctorStats feeds the doctor dashboard.
func (h *Handler) DoctorStats(c *gin.Context) {
	user := currentUser(c)

	stats, err := h.appointments.Stats(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err,
			errorMapping{appointment.ErrForbidden, http.StatusForbidden},
			errorMapping{appointment.ErrDoctorNotFound, http.StatusNotFound},
		)
		return
	}

	unread, err := h.messages.UnreadCount(c.Request.Context(), user)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalPatients":         stats.TotalPatients,
		"pendingAppointments":   stats.Pending,
		"confirmedAppointments": stats.Confirmed,
		"completedAppointments": stats.Completed,
		"cancelledAppointments": stats.Cancelled,
		"unreadMessages":        unread,
	})
}
