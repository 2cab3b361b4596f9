package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gwa-tracker/internal/dto"
	"github.com/noah-isme/gwa-tracker/internal/models"
	appErrors "github.com/noah-isme/gwa-tracker/pkg/errors"
	"github.com/noah-isme/gwa-tracker/pkg/response"
)

type semesterService interface {
	List() []models.SemesterView
	Get(id string) (*models.SemesterView, error)
	ArchiveCurrent(ctx context.Context, req dto.SemesterRequest) (*models.Semester, error)
	Rename(ctx context.Context, id string, req dto.SemesterRequest) (*models.Semester, error)
	Delete(ctx context.Context, id string) (dto.SemesterDeleteResult, error)
	SchoolYears(now time.Time, count int) []string
}

// SemesterHandler exposes the semester archive.
type SemesterHandler struct {
	service         semesterService
	schoolYearCount int
	now             func() time.Time
}

// NewSemesterHandler constructs a semester handler.
func NewSemesterHandler(svc semesterService, schoolYearCount int) *SemesterHandler {
	if schoolYearCount <= 0 {
		schoolYearCount = 5
	}
	return &SemesterHandler{service: svc, schoolYearCount: schoolYearCount, now: time.Now}
}

// List godoc
// @Summary List archived semesters
// @Description Newest school year first, then Third, Second and First semester. Each entry carries its GWA.
// @Tags Semesters
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /semesters [get]
func (h *SemesterHandler) List(c *gin.Context) {
	semesters := h.service.List()
	response.JSON(c, http.StatusOK, semesters, nil, map[string]interface{}{"count": len(semesters)})
}

// Get godoc
// @Summary Get archived semester
// @Tags Semesters
// @Produce json
// @Param id path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /semesters/{id} [get]
func (h *SemesterHandler) Get(c *gin.Context) {
	semester, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semester, nil)
}

// Archive godoc
// @Summary Archive the active subjects
// @Description Moves the active subjects into a new semester and empties the active set.
// @Tags Semesters
// @Accept json
// @Produce json
// @Param payload body dto.SemesterRequest true "Semester label"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /semesters [post]
func (h *SemesterHandler) Archive(c *gin.Context) {
	var req dto.SemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	semester, err := h.service.ArchiveCurrent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, semester)
}

// Rename godoc
// @Summary Relabel an archived semester
// @Tags Semesters
// @Accept json
// @Produce json
// @Param id path string true "Semester ID"
// @Param payload body dto.SemesterRequest true "Semester label"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /semesters/{id} [put]
func (h *SemesterHandler) Rename(c *gin.Context) {
	var req dto.SemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	semester, err := h.service.Rename(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semester, nil)
}

// Delete godoc
// @Summary Delete an archived semester
// @Tags Semesters
// @Produce json
// @Param id path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /semesters/{id} [delete]
func (h *SemesterHandler) Delete(c *gin.Context) {
	result, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SchoolYears godoc
// @Summary Selectable school years
// @Tags Semesters
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /semesters/school-years [get]
func (h *SemesterHandler) SchoolYears(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"schoolYears": h.service.SchoolYears(h.now(), h.schoolYearCount),
		"semesters":   models.Terms,
	}, nil)
}
