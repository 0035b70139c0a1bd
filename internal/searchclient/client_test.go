package searchclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/toolscout/internal/searchclient"
)

func TestSearchReturnsRankedResults(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": 200,
			"data": [
				{"url": "https://example.ai", "title": "Example AI", "content": "An AI tool"},
				{"url": "https://other.ai", "title": "Other", "content": "Another"}
			]
		}`))
	}))
	defer server.Close()

	client := searchclient.New(server.URL, "test-key", server.Client())
	results, err := client.Search(context.Background(), "new ai tools 2025", searchclient.Options{})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://example.ai", results[0].URL)
	assert.Equal(t, "Example AI", results[0].Title)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "new ai tools 2025", gotQuery)
}

func TestSearchServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := searchclient.New(server.URL, "", server.Client())
	_, err := client.Search(context.Background(), "anything", searchclient.Options{})

	require.Error(t, err)
	assert.ErrorIs(t, err, searchclient.ErrUnavailable)
}

func TestSearchMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := searchclient.New(server.URL, "", server.Client())
	_, err := client.Search(context.Background(), "anything", searchclient.Options{})

	require.Error(t, err)
}
