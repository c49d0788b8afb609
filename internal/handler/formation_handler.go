package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/edutrack-api/internal/models"
	"github.com/edutrack/edutrack-api/internal/service"
	appErrors "github.com/edutrack/edutrack-api/pkg/errors"
	"github.com/edutrack/edutrack-api/pkg/response"
)

// FormationHandler serves the course cohort endpoints.
type FormationHandler struct {
	service *service.FormationService
}

// NewFormationHandler creates a new handler.
func NewFormationHandler(svc *service.FormationService) *FormationHandler {
	return &FormationHandler{service: svc}
}

// List godoc
// @Summary List formations
// @Description Optional status filter; "All" disables filtering
// @Tags Formations
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /formations [get]
func (h *FormationHandler) List(c *gin.Context) {
	status := c.Query("status")
	if status == "All" {
		status = ""
	}

	formations, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, formations, nil)
}

// Get godoc
// @Summary Get formation
// @Tags Formations
// @Produce json
// @Param id path int true "Formation id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /formations/{id} [get]
func (h *FormationHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	formation, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, formation, nil)
}

// Create godoc
// @Summary Create formation
// @Tags Formations
// @Accept json
// @Produce json
// @Param payload body models.FormationRequest true "Formation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /formations [post]
func (h *FormationHandler) Create(c *gin.Context) {
	var req models.FormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid formation payload"))
		return
	}

	formation, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, formation)
}

// Update godoc
// @Summary Update formation
// @Tags Formations
// @Accept json
// @Produce json
// @Param id path int true "Formation id"
// @Param payload body models.FormationRequest true "Formation payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /formations/{id} [put]
func (h *FormationHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.FormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid formation payload"))
		return
	}

	formation, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, formation, nil)
}

// Delete godoc
// @Summary Delete formation
// @Tags Formations
// @Produce json
// @Param id path int true "Formation id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /formations/{id} [delete]
func (h *FormationHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Formation deleted successfully")
}
