package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"efi_checklist/internal/config"
	"efi_checklist/internal/githubstore"
	"efi_checklist/internal/model"
	"efi_checklist/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 10, 19, 8, 15, 30, 123_000_000, time.UTC)

type SubmissionServiceTestSuite struct {
	suite.Suite

	store        *mocks.RemoteStore
	factoryCalls int
	svc          *submissionService
	snapshot     *model.Snapshot
}

func (s *SubmissionServiceTestSuite) SetupTest() {
	s.store = mocks.NewRemoteStore(s.T())
	s.factoryCalls = 0
	s.svc = &submissionService{
		cfg: config.GitHubConfig{Token: "tkn", Repo: "acme/efi", Branch: "main"},
		newStore: func(token, owner, repo, branch string) (RemoteStore, error) {
			s.factoryCalls++
			s.Equal("tkn", token)
			s.Equal("acme", owner)
			s.Equal("efi", repo)
			s.Equal("main", branch)
			return s.store, nil
		},
		clock: func() time.Time { return fixedNow },
		loc:   time.UTC,
	}

	catalog := model.DefaultCatalog()
	s.snapshot = &model.Snapshot{
		CatalystID:         "1001",
		CatalystName:       "Ana  Pérez",
		Date:               fixedNow,
		ProgressPercentage: 0,
		CompletedTasks:     0,
		TotalTasks:         catalog.TotalTasks(),
		Phases:             model.SnapshotPhases(catalog.Phases()),
	}
}

func TestSubmissionService(t *testing.T) {
	suite.Run(t, new(SubmissionServiceTestSuite))
}

const wantPath = "registros/Ana_Pérez_2026-10-19T08-15-30-123Z.json"

func (s *SubmissionServiceTestSuite) TestSubmit_Success() {
	s.store.On("VerifyRepository", mock.Anything).Return(nil).Once()
	s.store.On("FileSHA", mock.Anything, wantPath).Return("", model.ErrRemoteNotFound).Once()
	s.store.On("PutFile", mock.Anything, wantPath,
		"Actualización de checklist - Ana  Pérez - 19/10/2026, 08:15:30",
		mock.MatchedBy(func(content []byte) bool {
			var decoded model.Snapshot
			return json.Unmarshal(content, &decoded) == nil &&
				decoded.CatalystID == "1001" &&
				strings.Contains(string(content), "\n  \"catalystName\"")
		}),
		"",
	).Return("https://github.com/acme/efi/blob/main/"+wantPath, nil).Once()

	res, err := s.svc.Submit(context.Background(), s.snapshot)
	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal("Datos guardados correctamente en GitHub", res.Message)
	s.Equal("https://github.com/acme/efi/blob/main/"+wantPath, res.FileURL)
	s.Equal(wantPath, res.Path)
}

// コミットメッセージは設定タイムゾーンの時刻、ファイル名は UTC のまま
func (s *SubmissionServiceTestSuite) TestSubmit_CommitMessageInConfiguredZone() {
	bogota, err := time.LoadLocation("America/Bogota")
	s.Require().NoError(err)
	s.svc.loc = bogota

	s.store.On("VerifyRepository", mock.Anything).Return(nil).Once()
	s.store.On("FileSHA", mock.Anything, wantPath).Return("", model.ErrRemoteNotFound).Once()
	s.store.On("PutFile", mock.Anything, wantPath,
		"Actualización de checklist - Ana  Pérez - 19/10/2026, 03:15:30",
		mock.Anything, "",
	).Return("url", nil).Once()

	_, err = s.svc.Submit(context.Background(), s.snapshot)
	s.NoError(err)
}

func (s *SubmissionServiceTestSuite) TestSubmit_UpdatesWhenFileExists() {
	s.store.On("VerifyRepository", mock.Anything).Return(nil).Once()
	s.store.On("FileSHA", mock.Anything, wantPath).Return("sha-1", nil).Once()
	s.store.On("PutFile", mock.Anything, wantPath, mock.Anything, mock.Anything, "sha-1").Return("url", nil).Once()

	_, err := s.svc.Submit(context.Background(), s.snapshot)
	s.NoError(err)
}

func (s *SubmissionServiceTestSuite) TestSubmit_ConfigurationErrors() {
	testCases := []struct {
		name    string
		cfg     config.GitHubConfig
		wantMsg string
	}{
		{"トークン未設定", config.GitHubConfig{Repo: "acme/efi"}, "Configuración de GitHub incompleta"},
		{"リポジトリ未設定", config.GitHubConfig{Token: "tkn"}, "Configuración de GitHub incompleta"},
		{"形式不正", config.GitHubConfig{Token: "tkn", Repo: "acme"}, "Formato de repositorio inválido"},
		{"owner 空", config.GitHubConfig{Token: "tkn", Repo: "/efi"}, "Formato de repositorio inválido"},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.svc.cfg = tc.cfg

			res, err := s.svc.Submit(context.Background(), s.snapshot)
			s.Nil(res)
			s.ErrorIs(err, model.ErrConfiguration)
			s.Contains(model.UserMessage(err, ""), tc.wantMsg)
			s.Equal(0, s.factoryCalls, "no remote store may be built")
		})
	}
}

func (s *SubmissionServiceTestSuite) TestSubmit_VerificationPolicy() {
	s.Run("404 aborts before the write", func() {
		s.SetupTest()
		s.store.On("VerifyRepository", mock.Anything).Return(&githubstore.StatusError{StatusCode: http.StatusNotFound}).Once()

		_, err := s.svc.Submit(context.Background(), s.snapshot)
		s.ErrorIs(err, model.ErrRemoteNotFound)
		s.Equal(`El repositorio "acme/efi" no existe o el token no tiene acceso.`, model.UserMessage(err, ""))
		s.store.AssertNotCalled(s.T(), "PutFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	s.Run("401 aborts before the write", func() {
		s.SetupTest()
		s.store.On("VerifyRepository", mock.Anything).Return(&githubstore.StatusError{StatusCode: http.StatusUnauthorized}).Once()

		_, err := s.svc.Submit(context.Background(), s.snapshot)
		s.ErrorIs(err, model.ErrRemoteUnauthorized)
		s.Equal("Token de GitHub inválido o expirado.", model.UserMessage(err, ""))
		s.store.AssertNotCalled(s.T(), "FileSHA", mock.Anything, mock.Anything)
	})

	s.Run("other failures are advisory", func() {
		s.SetupTest()
		s.store.On("VerifyRepository", mock.Anything).Return(errors.New("dial tcp: i/o timeout")).Once()
		s.store.On("FileSHA", mock.Anything, wantPath).Return("", errors.New("dial tcp: i/o timeout")).Once()
		s.store.On("PutFile", mock.Anything, wantPath, mock.Anything, mock.Anything, "").Return("url", nil).Once()

		res, err := s.svc.Submit(context.Background(), s.snapshot)
		s.NoError(err)
		s.Equal("url", res.FileURL)
	})
}

func (s *SubmissionServiceTestSuite) TestSubmit_WriteErrors() {
	testCases := []struct {
		name    string
		err     error
		wantIs  error
		wantMsg string
	}{
		{"404", &githubstore.StatusError{StatusCode: 404}, model.ErrRemoteNotFound, `No se encontró el repositorio "acme/efi" o la ruta del archivo.`},
		{"401", &githubstore.StatusError{StatusCode: 401}, model.ErrRemoteUnauthorized, "Token de GitHub inválido o sin permisos de escritura."},
		{"409 passes message through", &githubstore.StatusError{StatusCode: 409, Message: "sha does not match"}, model.ErrRemote, "sha does not match"},
		{"422 without message", &githubstore.StatusError{StatusCode: 422}, model.ErrRemote, "Error al guardar en GitHub (422)"},
		{"transport error", errors.New("connection reset"), model.ErrRemote, "Error al guardar en GitHub: connection reset"},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.store.On("VerifyRepository", mock.Anything).Return(nil).Once()
			s.store.On("FileSHA", mock.Anything, wantPath).Return("", model.ErrRemoteNotFound).Once()
			s.store.On("PutFile", mock.Anything, wantPath, mock.Anything, mock.Anything, "").Return("", tc.err).Once()

			_, err := s.svc.Submit(context.Background(), s.snapshot)
			s.ErrorIs(err, tc.wantIs)
			s.Equal(tc.wantMsg, model.UserMessage(err, ""))
		})
	}
}

func TestRecordPath(t *testing.T) {
	assert.Equal(t,
		"registros/Ana_Maria_Perez_2026-10-19T08-15-30-123Z.json",
		RecordPath("Ana Maria \t Perez", fixedNow),
	)
	// ローカル時刻でも UTC で記録される
	bogota := time.FixedZone("COT", -5*3600)
	assert.Equal(t,
		"registros/Luis_2026-10-19T08-15-30-123Z.json",
		RecordPath("Luis", fixedNow.In(bogota)),
	)
}

func TestNewSubmissionService_UsesConfiguredZone(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Timezone: "America/Bogota"}}
	svc := NewSubmissionService(cfg, nil).(*submissionService)

	assert.Equal(t, "America/Bogota", svc.now().Location().String())
}

func TestCommitMessage(t *testing.T) {
	at := time.Date(2026, 3, 5, 7, 4, 9, 0, time.UTC)
	assert.Equal(t, "Actualización de checklist - Luis - 5/3/2026, 07:04:09", CommitMessage("Luis", at))
}

// GitHub API 互換のテストサーバーに対してパイプライン全体を通す
func TestSubmissionService_AgainstFakeGitHub(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/acme/efi":
			w.Write([]byte(`{"full_name":"acme/efi"}`))
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
		case r.Method == http.MethodPut:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"content":{"html_url":"https://github.com/acme/efi/blob/main/` + strings.TrimPrefix(r.URL.Path, "/repos/acme/efi/contents/") + `"}}`))
		}
	}))
	defer srv.Close()

	cfg := &config.Config{GitHub: config.GitHubConfig{Token: "tkn", Repo: "acme/efi", Branch: "main", APIBaseURL: srv.URL}}
	svc := NewSubmissionService(cfg, nil)

	res, err := svc.Submit(context.Background(), &model.Snapshot{CatalystID: "1", CatalystName: "Ana", Date: fixedNow})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.FileURL, "https://github.com/acme/efi/blob/main/registros/Ana_"))

	require.Len(t, calls, 3)
	assert.Equal(t, "GET /repos/acme/efi", calls[0])
	assert.True(t, strings.HasPrefix(calls[1], "GET /repos/acme/efi/contents/registros/Ana_"))
	assert.True(t, strings.HasPrefix(calls[2], "PUT /repos/acme/efi/contents/registros/Ana_"))
}

func TestSubmissionService_MissingTokenMakesNoHTTPCalls(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := &config.Config{GitHub: config.GitHubConfig{Repo: "acme/efi", APIBaseURL: srv.URL}}
	_, err := NewSubmissionService(cfg, nil).Submit(context.Background(), &model.Snapshot{CatalystName: "Ana"})
	assert.ErrorIs(t, err, model.ErrConfiguration)
	assert.False(t, called)
}
