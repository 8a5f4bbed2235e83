package routes

import (
	"github.com/gin-gonic/gin"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/handlers"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/scheduling"
)

// SetupRoutes configures the application routes. limiter may be nil.
func SetupRoutes(router *gin.Engine, svc *scheduling.Service, cfg *config.Config, log *logger.Logger, limiter *middleware.RateLimiter) {
	professionalHandler := handlers.NewProfessionalHandler(svc, cfg, log)
	patientHandler := handlers.NewPatientHandler(svc, log)
	appointmentHandler := handlers.NewAppointmentHandler(svc, log)
	limited := middleware.RateLimit(limiter)

	router.GET("/health", handlers.Health(svc))

	// Sessions are optional; a token, when sent, must be valid.
	api := router.Group("")
	api.Use(middleware.SessionMiddleware(cfg))
	{
		professionalRoutes := api.Group("/professionals")
		{
			professionalRoutes.GET("", professionalHandler.GetProfessionals)
			professionalRoutes.GET("/:id", professionalHandler.GetProfessionalByID)
			professionalRoutes.POST("/add-new-professional", limited, professionalHandler.AddProfessional)
			professionalRoutes.POST("/login", limited, professionalHandler.Login)
			professionalRoutes.PUT("/:id", professionalHandler.UpdateProfessional)
			professionalRoutes.DELETE("/:id", professionalHandler.DeleteProfessional)
		}

		patientRoutes := api.Group("/patients")
		{
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", patientHandler.DeletePatient)
		}
		api.GET("/my-patients/:id", patientHandler.GetPatientByID)

		appointmentRoutes := api.Group("/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.GetAppointments) // ?patientId= narrows to one patient
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.POST("/add-new-appointment", limited, appointmentHandler.CreateAppointment)
			appointmentRoutes.PUT("/edit-appointment/:id", appointmentHandler.EditAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}
		api.PUT("/update-appointment-status/:id", appointmentHandler.UpdateAppointmentStatus)
	}
}
