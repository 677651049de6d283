// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"efi_checklist/internal/config"
	"efi_checklist/internal/handlers"
	"efi_checklist/internal/model"
	"efi_checklist/internal/service"
	"efi_checklist/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// httpResponseExpectations はHTTPレスポンスの検証に必要な期待値をまとめます。
type httpResponseExpectations struct {
	ExpectedCode     int
	ExpectedErrorMsg string
}

// testServer はモックサービスを差し込んだルーター全体を起動します。
type testServer struct {
	*httptest.Server
	cfg        *config.Config
	sessions   *mocks.ChecklistService
	submission *mocks.SubmissionService
	tokens     *service.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Name: "efi-checklist"},
		JWT: config.JWTConfig{SecretKey: "handler-test-secret", AccessTokenTTL: time.Hour},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ts := &testServer{
		cfg:        cfg,
		sessions:   mocks.NewChecklistService(t),
		submission: mocks.NewSubmissionService(t),
		tokens:     service.NewTokenIssuer(cfg),
	}
	ts.Server = httptest.NewServer(handlers.NewRouter(handlers.RouterDeps{
		Config:      cfg,
		Logger:      logger,
		Sessions:    handlers.NewSessionHandler(ts.sessions, logger),
		Submissions: handlers.NewSubmissionHandler(ts.submission, logger),
		Reports:     handlers.NewReportHandler(logger),
	}))
	t.Cleanup(ts.Close)
	return ts
}

// bearer は sessionID 用の Authorization ヘッダーを返します。
func (ts *testServer) bearer(t *testing.T, sessionID uuid.UUID) map[string]string {
	t.Helper()
	token, _, err := ts.tokens.Issue(sessionID)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

// sendRequest はHTTPリクエストを送信し、ステータスコードを検証してボディを返します。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectations httpResponseExpectations) (*http.Response, []byte) {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")
	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	assert.Equal(t, expectations.ExpectedCode, resp.StatusCode, "Status code mismatch")

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	if expectations.ExpectedErrorMsg != "" {
		verifyErrorResponse(t, respBodyBytes, expectations.ExpectedErrorMsg)
	}
	return resp, respBodyBytes
}

// verifyErrorResponse は {"error": {...}} と {"error": "..."} の両方の形式を受け付けます。
func verifyErrorResponse(t *testing.T, bodyBytes []byte, expectedErrorMsgPart string) {
	t.Helper()

	var nested model.APIErrorResponse
	if err := json.Unmarshal(bodyBytes, &nested); err == nil && nested.Error.Message != "" {
		assert.Contains(t, nested.Error.Message, expectedErrorMsgPart)
		return
	}
	var flat model.SubmitErrorResponse
	require.NoError(t, json.Unmarshal(bodyBytes, &flat), "error body is not JSON: %s", string(bodyBytes))
	assert.Contains(t, flat.Error, expectedErrorMsgPart)
}
