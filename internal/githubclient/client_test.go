package githubclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/ai", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"full_name": "acme/ai", "stargazers_count": 1234}`))
	}))
	defer server.Close()

	client := New("test-token", server.Client())
	client.baseURL = server.URL

	stars, err := client.Stars(context.Background(), "https://github.com/acme/ai")
	require.NoError(t, err)
	assert.Equal(t, 1234, stars)
}

func TestStarsRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"stargazers_count": 7}`))
	}))
	defer server.Close()

	client := New("", server.Client())
	client.baseURL = server.URL
	client.retryCfg.InitialDelay = 1 // keep the test fast

	stars, err := client.Stars(context.Background(), "https://github.com/acme/ai")
	require.NoError(t, err)
	assert.Equal(t, 7, stars)
	assert.Equal(t, 3, attempts)
}

func TestStarsNotFoundIsNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New("", server.Client())
	client.baseURL = server.URL

	_, err := client.Stars(context.Background(), "https://github.com/acme/gone")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		owner   string
		repo    string
		wantErr bool
	}{
		{name: "plain", url: "https://github.com/acme/ai", owner: "acme", repo: "ai"},
		{name: "trailing path", url: "https://github.com/acme/ai/tree/main", owner: "acme", repo: "ai"},
		{name: "git suffix", url: "https://github.com/acme/ai.git", owner: "acme", repo: "ai"},
		{name: "www host", url: "https://www.github.com/acme/ai", owner: "acme", repo: "ai"},
		{name: "not github", url: "https://gitlab.com/acme/ai", wantErr: true},
		{name: "owner only", url: "https://github.com/acme", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := parseRepoURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotRepository)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}
