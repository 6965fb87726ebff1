package handlers

import (
	"io"
	"net/http"

	"github.com/andresuchdata/stockwise/internal/ingest"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxImportFileSize = 20 << 20

type ImportHandler struct {
	importer *ingest.Importer
}

func NewImportHandler(importer *ingest.Importer) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// UploadSales imports the CSV/XLSX files posted in the "files" form field.
func (h *ImportHandler) UploadSales(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "invalid form data")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		badRequest(c, "no files provided")
		return
	}

	files := make([]ingest.File, 0, len(headers))
	for _, fh := range headers {
		if !ingest.Supported(fh.Filename) {
			log.Warn().Str("filename", fh.Filename).Msg("skipping unsupported upload")
			continue
		}
		if fh.Size > maxImportFileSize {
			badRequest(c, "file too large: "+fh.Filename)
			return
		}
		f, err := fh.Open()
		if err != nil {
			log.Error().Err(err).Str("filename", fh.Filename).Msg("failed to open uploaded file")
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			log.Error().Err(err).Str("filename", fh.Filename).Msg("failed to read uploaded file")
			continue
		}
		files = append(files, ingest.File{Name: fh.Filename, Data: data})
	}

	if len(files) == 0 {
		badRequest(c, "no valid files to process")
		return
	}

	report, err := h.importer.Import(c.Request.Context(), files)
	if err != nil {
		// Import only fails outright when a file cannot be parsed at all.
		badRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "sales import finished",
		"report":  report,
	})
}
