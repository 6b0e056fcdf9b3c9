package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

func TestPullRequestsClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/acme/widget/pullrequests", r.URL.Path)

		switch r.URL.Query().Get("page") {
		case "1":
			_ = json.NewEncoder(w).Encode(bitbucket.Page[bitbucket.PullRequest]{
				Values: []bitbucket.PullRequest{{ID: 1, Title: "first"}},
				Next:   "next",
			})
		default:
			_ = json.NewEncoder(w).Encode(bitbucket.Page[bitbucket.PullRequest]{
				Values: []bitbucket.PullRequest{{ID: 2, Title: "second"}},
			})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "widget")

	pullRequests, err := client.PullRequests().List(context.Background())
	require.NoError(t, err)
	require.Len(t, pullRequests, 2)
	assert.Equal(t, 1, pullRequests[0].ID)
	assert.Equal(t, 2, pullRequests[1].ID)
}

func TestPullRequestsClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/acme/widget/pullrequests/7", r.URL.Path)

		_ = json.NewEncoder(w).Encode(bitbucket.PullRequest{
			ID:    7,
			Title: "add retry policy",
			State: "OPEN",
			Source: &bitbucket.PullRequestEndpoint{
				Branch: &bitbucket.BranchRef{Name: "feature/retry"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "widget")

	pullRequest, err := client.PullRequests().Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, pullRequest.ID)
	assert.Equal(t, "OPEN", pullRequest.State)
	assert.Equal(t, "feature/retry", pullRequest.Source.Branch.Name)
}

func TestPullRequestsClient_ResolveSourceHash(t *testing.T) {
	t.Run("resolves the newest commit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repositories/acme/widget/pullrequests/7/commits", r.URL.Path)
			assert.Equal(t, "values.hash", r.URL.Query().Get("fields"))
			assert.Equal(t, "1", r.URL.Query().Get("pagelen"))

			_ = json.NewEncoder(w).Encode(bitbucket.Page[bitbucket.CommitRef]{
				Values: []bitbucket.CommitRef{{Hash: "abcd"}},
			})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "widget")

		hash, err := client.PullRequests().ResolveSourceHash(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "abcd", hash)
	})

	t.Run("empty commit listing is a domain error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(bitbucket.Page[bitbucket.CommitRef]{})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "widget")

		_, err := client.PullRequests().ResolveSourceHash(context.Background(), 7)
		require.Error(t, err)
		assert.True(t, bitbucket.IsDomain(err))
		assert.Contains(t, err.Error(), "pull request 7")
	})
}
