package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// ProfessionalHandler handles professional related requests.
type ProfessionalHandler struct {
	Service *scheduling.Service
	Config  *config.Config
	Log     *logger.Logger
}

// NewProfessionalHandler creates a new ProfessionalHandler.
func NewProfessionalHandler(svc *scheduling.Service, cfg *config.Config, log *logger.Logger) *ProfessionalHandler {
	return &ProfessionalHandler{Service: svc, Config: cfg, Log: log}
}

// GetProfessionals returns every professional with its appointments, plus all
// appointments with their patients.
func (h *ProfessionalHandler) GetProfessionals(c *gin.Context) {
	professionals, err := h.Service.ListProfessionalsWithAppointments(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	appointments, err := h.Service.ListAppointments(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "Professionals retrieved successfully", ProfessionalsOverview{
		AllProfessionals: professionals,
		AllAppointments:  appointments,
	})
}

// GetProfessionalByID returns one professional with its appointment ids.
func (h *ProfessionalHandler) GetProfessionalByID(c *gin.Context) {
	professional, err := h.Service.GetProfessional(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Professional retrieved successfully", professional)
}

// AddProfessional registers a professional. Names are unique.
func (h *ProfessionalHandler) AddProfessional(c *gin.Context) {
	var req ProfessionalRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	professional, err := h.Service.AddProfessional(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, "Professional created successfully", professional)
}

// Login registers a professional on first sign-in and issues a session token.
func (h *ProfessionalHandler) Login(c *gin.Context) {
	var req ProfessionalRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	professional, created, err := h.Service.LoginProfessional(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	token, err := utils.GenerateAccessToken(&professional.Professional, h.Config)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	resp := LoginResponse{AccessToken: token, Professional: *professional, Created: created}
	if created {
		utils.Created(c, "Professional registered successfully", resp)
		return
	}
	utils.Success(c, "Login successful", resp)
}

// UpdateProfessional changes a professional's name or specialty.
func (h *ProfessionalHandler) UpdateProfessional(c *gin.Context) {
	var req UpdateProfessionalRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	professional, err := h.Service.UpdateProfessional(c.Request.Context(), c.Param("id"), scheduling.ProfessionalUpdate{
		Name:      req.Name,
		Specialty: req.Specialty,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Professional updated successfully", professional)
}

// DeleteProfessional removes a professional. Its appointments are kept.
func (h *ProfessionalHandler) DeleteProfessional(c *gin.Context) {
	if err := h.Service.DeleteProfessional(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Professional deleted successfully", nil)
}
