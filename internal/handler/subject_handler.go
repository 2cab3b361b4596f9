package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gwa-tracker/internal/academic"
	"github.com/noah-isme/gwa-tracker/internal/dto"
	"github.com/noah-isme/gwa-tracker/internal/models"
	"github.com/noah-isme/gwa-tracker/internal/service"
	appErrors "github.com/noah-isme/gwa-tracker/pkg/errors"
	"github.com/noah-isme/gwa-tracker/pkg/response"
)

// maxImportSize caps the body accepted by the import endpoint.
const maxImportSize = 4 << 20

type subjectService interface {
	List() []models.Subject
	Get(id string) (*models.Subject, error)
	Summary() models.Summary
	Create(ctx context.Context, req dto.SubjectRequest) (*models.Subject, error)
	Update(ctx context.Context, id string, req dto.SubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id string) error
	Reset(ctx context.Context) error
	Export() ([]byte, error)
	Import(ctx context.Context, payload []byte) ([]models.Subject, error)
}

type subjectProjector interface {
	Project(subjects []models.Subject, state service.ViewState) service.Projection
	PageSizeOptions() []int
}

// SubjectHandler handles subject endpoints.
type SubjectHandler struct {
	service subjectService
	view    subjectProjector
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectService, view subjectProjector) *SubjectHandler {
	return &SubjectHandler{service: svc, view: view}
}

// List godoc
// @Summary List subjects
// @Description Filters the active subjects by search term and returns one page with the current GWA.
// @Tags Subjects
// @Produce json
// @Param search query string false "Matches code, title, grade or units"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	state := service.ViewState{Search: strings.TrimSpace(c.Query("search"))}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		state.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		state.PageSize = limit
	}

	// The page and its summary come from one snapshot of the set.
	subjects := h.service.List()
	projection := h.view.Project(subjects, state)
	pagination := &models.Pagination{
		Page:       projection.State.Page,
		PageSize:   projection.State.PageSize,
		TotalCount: projection.Filtered,
		TotalPages: projection.TotalPages,
	}
	response.JSON(c, http.StatusOK, projection.Items, pagination, map[string]interface{}{
		"summary":         academic.Aggregate(subjects),
		"search":          projection.State.Search,
		"page":            projection.State.Page,
		"pageLinks":       projection.Links,
		"pageSizeOptions": h.view.PageSizeOptions(),
		"totalCount":      projection.Total,
	})
}

// Get godoc
// @Summary Get subject by id
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Summary godoc
// @Summary Current GWA
// @Description GWA, unit totals and honor of the active subject set.
// @Tags Subjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /summary [get]
func (h *SubjectHandler) Summary(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Summary(), nil)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body dto.SubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req dto.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Update godoc
// @Summary Update subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body dto.SubjectRequest true "Subject payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	var req dto.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Delete godoc
// @Summary Delete subject
// @Tags Subjects
// @Param id path string true "Subject ID"
// @Success 204
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reset godoc
// @Summary Remove every active subject
// @Tags Subjects
// @Success 204
// @Router /subjects [delete]
func (h *SubjectHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export active subjects
// @Description Downloads the active set in the same JSON shape the import accepts.
// @Tags Transfer
// @Produce json
// @Success 200 {array} models.Subject
// @Router /export/subjects [get]
func (h *SubjectHandler) Export(c *gin.Context) {
	payload, err := h.service.Export()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "subjects.json", "application/json", payload)
}

// Import godoc
// @Summary Import subjects
// @Description Replaces the active set. Accepts a JSON array body or a multipart "file" field.
// @Tags Transfer
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /import/subjects [post]
func (h *SubjectHandler) Import(c *gin.Context) {
	payload, err := readImportPayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	imported, err := h.service.Import(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ImportResult{Imported: len(imported), Summary: h.service.Summary()}, nil)
}

func readImportPayload(c *gin.Context) ([]byte, error) {
	invalid := func(err error, msg string) error {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, msg)
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, invalid(err, "file field is required")
		}
		file, err := header.Open()
		if err != nil {
			return nil, invalid(err, "uploaded file cannot be read")
		}
		defer file.Close()
		payload, err := io.ReadAll(io.LimitReader(file, maxImportSize))
		if err != nil {
			return nil, invalid(err, "uploaded file cannot be read")
		}
		return payload, nil
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		return nil, invalid(err, "request body cannot be read")
	}
	if len(strings.TrimSpace(string(payload))) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "import payload is empty")
	}
	return payload, nil
}
