package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gwa-tracker/internal/dto"
	"github.com/noah-isme/gwa-tracker/internal/models"
	appErrors "github.com/noah-isme/gwa-tracker/pkg/errors"
	"github.com/noah-isme/gwa-tracker/pkg/response"
)

type settingsService interface {
	Get(ctx context.Context) (models.Settings, error)
	SetAutosave(ctx context.Context, enabled bool) (models.Settings, error)
}

// SettingsHandler manages user preferences.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler constructs a settings handler.
func NewSettingsHandler(svc settingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// Get godoc
// @Summary Current settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Update godoc
// @Summary Toggle autosave
// @Description When autosave is switched back on, the current subjects and semesters are written immediately.
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.SettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Autosave == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "autosave is required"))
		return
	}
	settings, err := h.service.SetAutosave(c.Request.Context(), *req.Autosave)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
