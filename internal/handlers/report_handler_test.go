// internal/handlers/report_handler_test.go
package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportHandler_PostReport(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]interface{}{
		"catalystName":       "Ana Pérez",
		"date":               "2026-10-19T08:15:30Z",
		"week":               43,
		"progressPercentage": 100,
		"completedTasks":     17,
		"totalTasks":         17,
		"phases": []map[string]interface{}{
			{"id": "antes", "title": "Antes de la Formación", "tasks": []map[string]interface{}{
				{"id": "a1", "text": "Reserva <b>sala</b>", "completed": true},
			}},
		},
		"stats": map[string]int{"currentStreak": 2, "totalPoints": 450, "weeklyCompletions": 3},
	}

	resp, html := sendRequest(t, ts.Server,
		httpRequestDetails{Method: http.MethodPost, Path: "/api/report", Body: body},
		httpResponseExpectations{ExpectedCode: http.StatusOK},
	)

	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), "attachment; filename*=utf-8''Reporte_EFI_Semana43_Ana_P"))
	assert.Contains(t, string(html), "Ana Pérez")
	assert.Contains(t, string(html), "450")
	assert.NotContains(t, string(html), "<b>sala</b>")
}

func TestReportHandler_PostReport_Invalid(t *testing.T) {
	ts := newTestServer(t)

	sendRequest(t, ts.Server,
		httpRequestDetails{Method: http.MethodPost, Path: "/api/report", Body: map[string]interface{}{"week": 60}},
		httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorMsg: "Nombre del catalizador es obligatorio."},
	)
}
