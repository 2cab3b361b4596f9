package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/gwa-tracker/internal/models"
	appErrors "github.com/noah-isme/gwa-tracker/pkg/errors"
	"github.com/noah-isme/gwa-tracker/pkg/export"
)

// Transcript formats.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

var transcriptHeaders = []string{"Set", "Code", "Title", "Units", "Grade"}

type subjectLister interface {
	List() []models.Subject
	Summary() models.Summary
}

type semesterLister interface {
	List() []models.SemesterView
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

// TranscriptFile is a rendered transcript ready to be served.
type TranscriptFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders the active set and the archive as a transcript.
type ExportService struct {
	subjects  subjectLister
	semesters semesterLister
	csv       csvRenderer
	pdf       pdfRenderer
	xlsx      xlsxRenderer
	now       func() time.Time
}

// NewExportService constructs an export service with the default renderers.
func NewExportService(subjects subjectLister, semesters semesterLister) *ExportService {
	return &ExportService{
		subjects:  subjects,
		semesters: semesters,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		xlsx:      export.NewXLSXExporter(),
		now:       time.Now,
	}
}

// Transcript renders every subject set in the requested format.
func (s *ExportService) Transcript(format string) (*TranscriptFile, error) {
	data := s.Dataset()
	stamp := s.now().UTC().Format("20060102")

	var (
		content     []byte
		contentType string
		err         error
	)
	switch strings.ToLower(format) {
	case "", FormatCSV:
		format = FormatCSV
		content, err = s.csv.Render(data)
		contentType = "text/csv"
	case FormatPDF:
		content, err = s.pdf.Render(data, "Grade Transcript")
		contentType = "application/pdf"
	case FormatXLSX:
		content, err = s.xlsx.Render(data, "Transcript")
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported transcript format %q", format))
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render transcript")
	}
	return &TranscriptFile{
		Filename:    fmt.Sprintf("transcript-%s.%s", stamp, strings.ToLower(format)),
		ContentType: contentType,
		Content:     content,
	}, nil
}

// Dataset lays out the active set followed by each archived semester in display order.
func (s *ExportService) Dataset() export.Dataset {
	data := export.Dataset{Headers: transcriptHeaders}
	data.Rows = appendSet(data.Rows, "Current", s.subjects.List(), s.subjects.Summary())
	for _, sem := range s.semesters.List() {
		label := fmt.Sprintf("S.Y. %s %s Semester", sem.SchoolYear, sem.Semester.Semester)
		data.Rows = appendSet(data.Rows, label, sem.Subjects, sem.Summary)
	}
	return data
}

func appendSet(rows []map[string]string, label string, subjects []models.Subject, summary models.Summary) []map[string]string {
	for _, subject := range subjects {
		rows = append(rows, map[string]string{
			"Set":   label,
			"Code":  subject.Code,
			"Title": subject.Title,
			"Units": strconv.Itoa(subject.Units),
			"Grade": strconv.FormatFloat(subject.Grade, 'f', 2, 64),
		})
	}
	honor := string(summary.Honor)
	if honor == "" {
		honor = "-"
	}
	return append(rows, map[string]string{
		"Set":   label,
		"Title": "GWA (" + honor + ")",
		"Units": strconv.Itoa(summary.TotalUnits),
		"Grade": strconv.FormatFloat(summary.GWA, 'f', 3, 64),
	})
}
