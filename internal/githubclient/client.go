// Package githubclient fetches repository metadata used for tool metrics.
package githubclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonesrussell/toolscout/internal/httpclient"
	"github.com/jonesrussell/toolscout/internal/retry"
)

const defaultBaseURL = "https://api.github.com"

// ErrNotRepository indicates the URL does not point at an owner/repo path.
var ErrNotRepository = errors.New("not a repository URL")

// Client reads public repository data from the GitHub REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retryCfg   retry.Config
}

// New creates a GitHub client. token may be empty for unauthenticated
// (rate-limited) access. httpClient may be nil.
func New(token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = httpclient.Default()
	}
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: httpClient,
		retryCfg: retry.Config{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			IsRetryable:  isRetryable,
		},
	}
}

type repoResponse struct {
	StargazersCount int    `json:"stargazers_count"`
	FullName        string `json:"full_name"`
}

// Stars returns the stargazer count for a github.com repository URL.
// Transient API failures are retried before the error is returned; callers
// in the metrics path treat any error as zero stars.
func (c *Client) Stars(ctx context.Context, repoURL string) (int, error) {
	owner, repo, err := parseRepoURL(repoURL)
	if err != nil {
		return 0, err
	}

	var stars int
	err = retry.Do(ctx, c.retryCfg, func() error {
		count, fetchErr := c.fetchStars(ctx, owner, repo)
		if fetchErr != nil {
			return fetchErr
		}
		stars = count
		return nil
	})
	return stars, err
}

func (c *Client) fetchStars(ctx context.Context, owner, repo string) (int, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("build repo request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("github request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read github response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return 0, fmt.Errorf("repository %s/%s not found", owner, repo)
	default:
		return 0, fmt.Errorf("github status %d: %s", resp.StatusCode, truncateBody(body))
	}

	var parsed repoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parse github response: %w", err)
	}

	return parsed.StargazersCount, nil
}

// parseRepoURL extracts owner and repo from a github.com URL, tolerating
// trailing paths like /issues or /tree/main.
func parseRepoURL(repoURL string) (owner, repo string, err error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrNotRepository, repoURL)
	}
	host := strings.TrimPrefix(u.Host, "www.")
	if host != "github.com" {
		return "", "", fmt.Errorf("%w: %s", ErrNotRepository, repoURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNotRepository, repoURL)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// isRetryable extends the transient-network heuristic with GitHub 5xx and
// secondary rate-limit responses.
func isRetryable(err error) bool {
	if retry.DefaultIsRetryable(err) {
		return true
	}
	msg := err.Error()
	for _, code := range []string{"status 500", "status 502", "status 503", "status 429"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

func truncateBody(body []byte) string {
	const maxLen = 200
	if len(body) > maxLen {
		return string(body[:maxLen])
	}
	return string(body)
}
