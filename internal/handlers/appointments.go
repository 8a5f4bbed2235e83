package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Service *scheduling.Service
	Log     *logger.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(svc *scheduling.Service, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{Service: svc, Log: log}
}

// GetAppointments lists all appointments with their patients, or only the
// appointments of one patient when ?patientId= is given.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	if patientID := c.Query("patientId"); patientID != "" {
		appointments, err := h.Service.ListAppointmentsForPatient(c.Request.Context(), patientID)
		if err != nil {
			respondError(c, h.Log, err)
			return
		}
		utils.Success(c, "Appointments retrieved successfully", appointments)
		return
	}

	appointments, err := h.Service.ListAppointments(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointments retrieved successfully", appointments)
}

// GetAppointmentByID returns one appointment with its patient.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.Service.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointment retrieved successfully", appointment)
}

// CreateAppointment books a slot, creating the patient on first visit.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	booking, err := h.Service.CreateAppointment(c.Request.Context(), scheduling.CreateAppointmentInput{
		Date:         req.Date.Time,
		Time:         req.Time,
		Professional: req.ProfessionalDetails.ref(),
		Patient:      req.PatientDetails.input(),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, "Appointment created successfully", booking)
}

// EditAppointment reschedules an appointment and updates its patient in one request.
func (h *AppointmentHandler) EditAppointment(c *gin.Context) {
	var req EditAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	edit, err := h.Service.UpdateAppointment(c.Request.Context(), c.Param("id"), scheduling.UpdateAppointmentInput{
		Date:      req.Date.Time,
		Time:      req.Time,
		PatientID: req.PatientDetails.id(),
		Patient:   req.PatientDetails.input(),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", edit)
}

// UpdateAppointmentStatus handles updating the status of an appointment.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Service.UpdateAppointmentStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	if err := h.Service.DeleteAppointment(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointment deleted successfully", nil)
}
