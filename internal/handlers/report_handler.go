// internal/handlers/report_handler.go
package handlers

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"efi_checklist/internal/model"
	"efi_checklist/internal/report"
	"efi_checklist/internal/webutil"
)

// ReportHandler renders a posted snapshot as a downloadable HTML report.
type ReportHandler struct {
	logger *slog.Logger
}

func NewReportHandler(logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{logger: logger}
}

func (h *ReportHandler) PostReport(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostReport"))

	var data model.ReportData
	if err := webutil.DecodeLenientAndValidate(r, &data); err != nil {
		logger.Warn("Invalid report request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	body, err := report.Render(&data)
	if err != nil {
		logger.Error("Failed to render report", slog.Any("error", err))
		webutil.HandleError(w, logger, model.NewAppError("INTERNAL_SERVER_ERROR", "No se pudo generar el reporte.", "", err))
		return
	}

	writeAttachment(w, report.FileName(data.CatalystName, data.Week), body)
}

// writeAttachment はHTMLをダウンロード用に返します。
func writeAttachment(w http.ResponseWriter, fileName string, body []byte) {
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
