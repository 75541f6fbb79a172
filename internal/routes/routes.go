package routes

import (
	"net/http"

	"dermacare-backend/internal/handlers"
	"dermacare-backend/internal/middleware"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the API under /api/auth. requireAuth guards every
// route that needs a logged-in user.
func SetupRoutes(r *gin.Engine, h *handlers.Handler, requireAuth gin.HandlerFunc) {
	r.GET("/ping", func(c *gin.Context) {
		utils.APIResponse(c, http.StatusOK, true, "Server OK!", nil)
	})

	api := r.Group("/api/auth")
	{
		// 1. PUBLIC ROUTES
		api.GET("/config", h.Config)
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.GET("/doctors", h.ListDoctors)
		api.GET("/doctors/:id", h.GetDoctor)

		// 2. PROTECTED ROUTES
		protected := api.Group("/")
		protected.Use(requireAuth)
		{
			protected.GET("/me", h.Me)
			protected.POST("/token/refresh", h.RefreshToken)

			protected.GET("/predictions", h.ListPredictions)
			protected.POST("/predictions", h.CreatePrediction)
			protected.GET("/predictions/:id", h.GetPrediction)

			protected.GET("/reports", h.ListReports)
			protected.POST("/reports/generate", h.GenerateReport)

			protected.GET("/appointments", h.ListAppointments)
			protected.POST("/appointments", h.CreateAppointment)
			protected.POST("/appointments/request", h.CreateAppointment)
			protected.DELETE("/appointments/:id", h.CancelAppointment)
			protected.POST("/appointments/:id/cancel", h.CancelAppointment)
			protected.DELETE("/appointments/:id/cancel", h.CancelAppointment)
			protected.POST("/appointments/:id/confirm", h.ConfirmAppointment)
			protected.POST("/appointments/:id/status", h.UpdateAppointmentStatus)

			protected.GET("/messages", h.ListMessages)
			protected.POST("/messages", h.SendMessage)
			protected.POST("/messages/send", h.SendMessage)
			protected.POST("/messages/:id/read", h.MarkMessageRead)
			protected.GET("/conversations", h.ListConversations)

			// Patient only
			patient := protected.Group("/")
			patient.Use(middleware.PatientOnly())
			{
				patient.GET("/patient-profile", h.GetPatientProfile)
				patient.POST("/patient-profile", h.UpsertPatientProfile)
				patient.GET("/patient/profile", h.GetPatientProfile)
				patient.POST("/patient/profile", h.UpsertPatientProfile)
			}

			// Doctor only
			doctor := protected.Group("/")
			doctor.Use(middleware.DoctorOnly())
			{
				doctor.POST("/doctor-profile", h.UpsertDoctorProfile)
				doctor.GET("/doctor/stats", h.DoctorStats)
			}
		}
	}
}
