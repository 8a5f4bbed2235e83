package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// PatientHandler handles patient related requests.
type PatientHandler struct {
	Service *scheduling.Service
	Log     *logger.Logger
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(svc *scheduling.Service, log *logger.Logger) *PatientHandler {
	return &PatientHandler{Service: svc, Log: log}
}

func (h *PatientHandler) GetPatients(c *gin.Context) {
	patients, err := h.Service.ListPatients(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Patients retrieved successfully", patients)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.Service.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Patient retrieved successfully", patient)
}

// UpdatePatient overwrites the fields present in the body.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Service.UpdatePatient(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Patient updated successfully", patient)
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.Service.DeletePatient(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Patient deleted successfully", nil)
}
