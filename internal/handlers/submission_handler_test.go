// internal/handlers/submission_handler_test.go
package handlers_test

import (
	"net/http"
	"testing"

	"efi_checklist/internal/githubstore"
	"efi_checklist/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var validSnapshotBody = map[string]interface{}{
	"catalystId":         "1001",
	"catalystName":       "Ana Pérez",
	"date":               "2026-10-19T08:15:30.123Z",
	"progressPercentage": 6,
	"completedTasks":     1,
	"totalTasks":         17,
	"phases": []map[string]interface{}{
		{
			"id":    "antes",
			"title": "Antes de la Formación",
			"color": "green",
			"tasks": []map[string]interface{}{
				{"id": "a1", "text": "Reserva del espacio", "completed": true, "priority": "high"},
			},
		},
	},
}

func TestSubmissionHandler_SaveChecklist(t *testing.T) {
	testCases := []struct {
		name         string
		body         interface{}
		setupMock    func(ts *testServer)
		expectations httpResponseExpectations
		wantBody     string
	}{
		{
			name: "success",
			body: validSnapshotBody,
			setupMock: func(ts *testServer) {
				ts.submission.On("Submit", mock.Anything, mock.MatchedBy(func(s *model.Snapshot) bool {
					return s.CatalystID == "1001" && len(s.Phases) == 1 && s.Phases[0].Tasks[0].Priority == model.PriorityHigh
				})).Return(&model.SubmitResult{
					Success: true,
					Message: "Datos guardados correctamente en GitHub",
					FileURL: "https://github.com/acme/efi/blob/main/registros/x.json",
					Path:    "registros/x.json",
				}, nil).Once()
			},
			expectations: httpResponseExpectations{ExpectedCode: http.StatusOK},
			wantBody:     `{"success":true,"message":"Datos guardados correctamente en GitHub","fileUrl":"https://github.com/acme/efi/blob/main/registros/x.json"}`,
		},
		{
			name:         "missing catalyst id",
			body:         map[string]interface{}{"catalystName": "Ana"},
			setupMock:    func(ts *testServer) {},
			expectations: httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorMsg: "ID del catalizador es obligatorio."},
		},
		{
			name:         "malformed JSON",
			body:         `{"catalystId":`,
			setupMock:    func(ts *testServer) {},
			expectations: httpResponseExpectations{ExpectedCode: http.StatusBadRequest},
			wantBody:     `{"error":"JSON inválido."}`,
		},
		{
			name: "configuration missing",
			body: validSnapshotBody,
			setupMock: func(ts *testServer) {
				ts.submission.On("Submit", mock.Anything, mock.Anything).Return(nil, model.NewAppError(
					"GITHUB_CONFIG_MISSING",
					"Configuración de GitHub incompleta. Por favor configure GITHUB_TOKEN y GITHUB_REPO en las variables de entorno.",
					"",
					model.ErrConfiguration,
				)).Once()
			},
			expectations: httpResponseExpectations{ExpectedCode: http.StatusInternalServerError},
			wantBody:     `{"error":"Configuración de GitHub incompleta. Por favor configure GITHUB_TOKEN y GITHUB_REPO en las variables de entorno."}`,
		},
		{
			name: "remote rejected",
			body: validSnapshotBody,
			setupMock: func(ts *testServer) {
				ts.submission.On("Submit", mock.Anything, mock.Anything).Return(nil, model.NewAppError(
					"GITHUB_UNAUTHORIZED", "Token de GitHub inválido o expirado.", "",
					&githubstore.StatusError{StatusCode: http.StatusUnauthorized},
				)).Once()
			},
			expectations: httpResponseExpectations{ExpectedCode: http.StatusBadGateway},
			wantBody:     `{"error":"Token de GitHub inválido o expirado."}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			tc.setupMock(ts)

			_, body := sendRequest(t, ts.Server,
				httpRequestDetails{Method: http.MethodPost, Path: "/api/save-checklist", Body: tc.body},
				tc.expectations,
			)
			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, string(body))
			}
		})
	}
}
