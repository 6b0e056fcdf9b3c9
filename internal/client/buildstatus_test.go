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

func TestBuildStatusesClient_Post(t *testing.T) {
	t.Run("posts to the statuses endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repositories/acme/widget/commit/abc123/statuses/build", r.URL.Path)
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var status bitbucket.BuildStatus

			err := json.NewDecoder(r.Body).Decode(&status)
			require.NoError(t, err)
			assert.Equal(t, "ci/build", status.Key)
			assert.Equal(t, bitbucket.BuildStatusSuccessful, status.State)

			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "widget")

		err := client.BuildStatuses().Post(context.Background(), "abc123", &bitbucket.BuildStatus{
			Key:   "ci/build",
			State: bitbucket.BuildStatusSuccessful,
			URL:   "https://ci.example.com/builds/42",
		})
		require.NoError(t, err)
	})

	t.Run("requires repository", func(t *testing.T) {
		client := newTestClient(t, "https://unused.invalid", "")

		err := client.BuildStatuses().Post(context.Background(), "abc123", &bitbucket.BuildStatus{Key: "k", State: "FAILED"})
		require.ErrorIs(t, err, bitbucket.ErrRepositoryRequired)
	})
}
