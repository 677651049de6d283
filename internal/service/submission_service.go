//go:generate mockery --name SubmissionService --output ./mocks --outpkg mocks --case=underscore
//go:generate mockery --name RemoteStore --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"efi_checklist/internal/config"
	"efi_checklist/internal/githubstore"
	"efi_checklist/internal/middleware"
	"efi_checklist/internal/model"
)

const (
	recordsDir     = "registros"
	SubmitSuccess  = "Datos guardados correctamente en GitHub"
	fileTimeLayout = "2006-01-02T15:04:05.000Z"
	// d/m/yyyy, hh:mm:ss
	commitTimeLayout = "2/1/2006, 15:04:05"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// RemoteStore is the file store a checklist record is written to.
type RemoteStore interface {
	VerifyRepository(ctx context.Context) error
	FileSHA(ctx context.Context, path string) (string, error)
	PutFile(ctx context.Context, path, message string, content []byte, sha string) (string, error)
}

// RemoteStoreFactory builds a RemoteStore for a resolved target.
type RemoteStoreFactory func(token, owner, repo, branch string) (RemoteStore, error)

// GitHubStoreFactory builds go-github backed stores. An empty baseURL means api.github.com.
func GitHubStoreFactory(baseURL string) RemoteStoreFactory {
	return func(token, owner, repo, branch string) (RemoteStore, error) {
		c, err := githubstore.NewClient(token, owner, repo, branch, githubstore.Options{BaseURL: baseURL})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

type SubmissionService interface {
	Submit(ctx context.Context, snapshot *model.Snapshot) (*model.SubmitResult, error)
}

type submissionService struct {
	cfg      config.GitHubConfig
	newStore RemoteStoreFactory
	clock    func() time.Time
	loc      *time.Location
}

func NewSubmissionService(cfg *config.Config, factory RemoteStoreFactory) SubmissionService {
	if factory == nil {
		factory = GitHubStoreFactory(cfg.GitHub.APIBaseURL)
	}
	return &submissionService{cfg: cfg.GitHub, newStore: factory, clock: time.Now, loc: cfg.Location()}
}

// コミットメッセージの時刻は設定タイムゾーン、ファイル名は UTC
func (s *submissionService) now() time.Time {
	return s.clock().In(s.loc)
}

// target is where one submission goes.
type target struct {
	repoRef string
	owner   string
	repo    string
	branch  string
	path    string
}

// Submit runs resolveTarget → verifyRepository → readExistingSHA → writeFile.
// Each step runs only after the previous one returned.
func (s *submissionService) Submit(ctx context.Context, snapshot *model.Snapshot) (*model.SubmitResult, error) {
	logger := middleware.GetLogger(ctx)
	if snapshot == nil {
		return nil, model.NewAppError("INVALID_SNAPSHOT", "Datos de checklist inválidos.", "", model.ErrInvalidInput)
	}
	now := s.now()

	t, err := s.resolveTarget(snapshot.CatalystName, now)
	if err != nil {
		logger.Error("Submission target could not be resolved", "error", err)
		return nil, err
	}
	logger = logger.With("repo", t.repoRef, "path", t.path)

	store, err := s.newStore(s.cfg.Token, t.owner, t.repo, t.branch)
	if err != nil {
		logger.Error("Failed to build remote store", "error", err)
		return nil, model.NewAppError("GITHUB_CONFIG_INVALID", err.Error(), "", fmt.Errorf("%w: %v", model.ErrConfiguration, err))
	}

	if err := s.verifyRepository(ctx, store, t); err != nil {
		return nil, err
	}

	sha := s.readExistingSHA(ctx, store, t)

	fileURL, err := s.writeFile(ctx, store, t, snapshot, sha, now)
	if err != nil {
		return nil, err
	}

	logger.Info("Checklist record written", "file_url", fileURL, "update", sha != "")
	return &model.SubmitResult{
		Success: true,
		Message: SubmitSuccess,
		FileURL: fileURL,
		Path:    t.path,
	}, nil
}

// resolveTarget fails before any remote call when the credentials are incomplete.
func (s *submissionService) resolveTarget(catalystName string, now time.Time) (*target, error) {
	if s.cfg.Token == "" || s.cfg.Repo == "" {
		return nil, model.NewAppError(
			"GITHUB_CONFIG_MISSING",
			"Configuración de GitHub incompleta. Por favor configure GITHUB_TOKEN y GITHUB_REPO en las variables de entorno.",
			"",
			model.ErrConfiguration,
		)
	}

	parts := strings.Split(s.cfg.Repo, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, model.NewAppError(
			"GITHUB_REPO_FORMAT",
			"Formato de repositorio inválido. Debe ser 'usuario/repositorio'",
			"",
			model.ErrConfiguration,
		)
	}

	branch := s.cfg.Branch
	if branch == "" {
		branch = config.DefaultGitHubBranch
	}

	return &target{
		repoRef: s.cfg.Repo,
		owner:   parts[0],
		repo:    parts[1],
		branch:  branch,
		path:    RecordPath(catalystName, now),
	}, nil
}

// verifyRepository is advisory: only a missing repository or a rejected token
// stop the submission. Any other failure is logged and the write is attempted.
func (s *submissionService) verifyRepository(ctx context.Context, store RemoteStore, t *target) error {
	logger := middleware.GetLogger(ctx)

	err := store.VerifyRepository(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrRemoteNotFound):
		logger.Warn("Repository not found or not visible to token", "error", err)
		return model.NewAppError(
			"GITHUB_REPO_NOT_FOUND",
			fmt.Sprintf("El repositorio %q no existe o el token no tiene acceso.", t.repoRef),
			"",
			err,
		)
	case errors.Is(err, model.ErrRemoteUnauthorized):
		logger.Warn("GitHub token rejected", "error", err)
		return model.NewAppError("GITHUB_UNAUTHORIZED", "Token de GitHub inválido o expirado.", "", err)
	default:
		logger.Warn("Repository verification failed; continuing with write", "error", err)
		return nil
	}
}

// readExistingSHA returns "" when the file does not exist or cannot be read.
func (s *submissionService) readExistingSHA(ctx context.Context, store RemoteStore, t *target) string {
	sha, err := store.FileSHA(ctx, t.path)
	if err != nil {
		middleware.GetLogger(ctx).Debug("No existing file; creating a new one", "error", err)
		return ""
	}
	return sha
}

func (s *submissionService) writeFile(ctx context.Context, store RemoteStore, t *target, snapshot *model.Snapshot, sha string, now time.Time) (string, error) {
	logger := middleware.GetLogger(ctx)

	content, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		logger.Error("Failed to encode snapshot", "error", err)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "Error desconocido al guardar los datos", "", err)
	}

	message := CommitMessage(snapshot.CatalystName, now)
	fileURL, err := store.PutFile(ctx, t.path, message, content, sha)
	if err == nil {
		return fileURL, nil
	}

	logger.Error("GitHub write failed", "error", err)
	var statusErr *githubstore.StatusError
	switch {
	case errors.Is(err, model.ErrRemoteNotFound):
		return "", model.NewAppError(
			"GITHUB_PATH_NOT_FOUND",
			fmt.Sprintf("No se encontró el repositorio %q o la ruta del archivo.", t.repoRef),
			"",
			err,
		)
	case errors.Is(err, model.ErrRemoteUnauthorized):
		return "", model.NewAppError("GITHUB_UNAUTHORIZED", "Token de GitHub inválido o sin permisos de escritura.", "", err)
	case errors.As(err, &statusErr):
		msg := statusErr.Message
		if msg == "" {
			msg = fmt.Sprintf("Error al guardar en GitHub (%d)", statusErr.StatusCode)
		}
		return "", model.NewAppError("GITHUB_WRITE_FAILED", msg, "", err)
	default:
		return "", model.NewAppError("GITHUB_WRITE_FAILED", "Error al guardar en GitHub: "+err.Error(), "", fmt.Errorf("%w: %v", model.ErrRemote, err))
	}
}

// RecordPath is registros/<name>_<UTC timestamp>.json with whitespace runs in
// the name and ':' '.' in the timestamp replaced.
func RecordPath(catalystName string, now time.Time) string {
	ts := strings.NewReplacer(":", "-", ".", "-").Replace(now.UTC().Format(fileTimeLayout))
	name := whitespaceRun.ReplaceAllString(catalystName, "_")
	return fmt.Sprintf("%s/%s_%s.json", recordsDir, name, ts)
}

// CommitMessage is the commit message of one record write.
func CommitMessage(catalystName string, now time.Time) string {
	return fmt.Sprintf("Actualización de checklist - %s - %s", catalystName, now.Format(commitTimeLayout))
}
