// Package githubstore writes checklist records into a GitHub repository through
// the Contents API.
package githubstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"efi_checklist/internal/middleware"
	"efi_checklist/internal/model"

	"github.com/google/go-github/v66/github"
)

// StatusError is a non-2xx answer from the GitHub API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github: %d", e.StatusCode)
}

// Unwrap classifies the status as one of the model remote errors.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return model.ErrRemoteNotFound
	case http.StatusUnauthorized:
		return model.ErrRemoteUnauthorized
	default:
		return model.ErrRemote
	}
}

// Options tweaks the client. Zero values use the public GitHub API.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client is bound to one owner/repo/branch.
type Client struct {
	gh     *github.Client
	owner  string
	repo   string
	branch string
}

func NewClient(token, owner, repo, branch string, opts Options) (*Client, error) {
	gh := github.NewClient(opts.HTTPClient).WithAuthToken(token)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("githubstore.NewClient: invalid base url %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = u
	}
	return &Client{gh: gh, owner: owner, repo: repo, branch: branch}, nil
}

// VerifyRepository checks that the repository exists and the token can see it.
func (c *Client) VerifyRepository(ctx context.Context) error {
	_, resp, err := c.gh.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return classify(resp, err)
	}
	return nil
}

// FileSHA returns the blob sha of path on the configured branch.
func (c *Client) FileSHA(ctx context.Context, path string) (string, error) {
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, path, &github.RepositoryContentGetOptions{
		Ref: c.branch,
	})
	if err != nil {
		return "", classify(resp, err)
	}
	if file == nil {
		return "", &StatusError{StatusCode: http.StatusNotFound, Message: "path is a directory"}
	}
	return file.GetSHA(), nil
}

// PutFile creates path, or updates it when sha is the current blob sha.
// It returns the browsable URL of the written file.
func (c *Client) PutFile(ctx context.Context, path, message string, content []byte, sha string) (string, error) {
	logger := middleware.GetLogger(ctx)

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(c.branch),
	}

	var (
		result *github.RepositoryContentResponse
		resp   *github.Response
		err    error
	)
	if sha != "" {
		opts.SHA = github.String(sha)
		result, resp, err = c.gh.Repositories.UpdateFile(ctx, c.owner, c.repo, path, opts)
	} else {
		result, resp, err = c.gh.Repositories.CreateFile(ctx, c.owner, c.repo, path, opts)
	}
	if err != nil {
		logger.Warn("GitHub contents write failed", "path", path, "error", err)
		return "", classify(resp, err)
	}

	if result == nil || result.Content == nil {
		return "", nil
	}
	return result.Content.GetHTMLURL(), nil
}

// classify turns a go-github error into a *StatusError when the API answered.
// Transport failures are returned as they are.
func classify(resp *github.Response, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &StatusError{StatusCode: ghErr.Response.StatusCode, Message: ghErr.Message}
	}
	if resp != nil && resp.Response != nil && resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return err
}
