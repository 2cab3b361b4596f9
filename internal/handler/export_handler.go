package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gwa-tracker/internal/service"
	"github.com/noah-isme/gwa-tracker/pkg/response"
)

type transcriptRenderer interface {
	Transcript(format string) (*service.TranscriptFile, error)
}

// ExportHandler serves transcript downloads.
type ExportHandler struct {
	service transcriptRenderer
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc transcriptRenderer) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Transcript godoc
// @Summary Download transcript
// @Description Renders the active subjects and every archived semester with their GWA and honor.
// @Tags Transfer
// @Produce octet-stream
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /export/transcript [get]
func (h *ExportHandler) Transcript(c *gin.Context) {
	file, err := h.service.Transcript(c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}
