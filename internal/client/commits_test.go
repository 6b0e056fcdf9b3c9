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

func TestCommitsClient_Resolve(t *testing.T) {
	t.Run("existing commit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repositories/acme/widget/commit/abc123", r.URL.Path)

			_ = json.NewEncoder(w).Encode(bitbucket.Commit{
				Hash:    "abc123def456",
				Message: "fix pagination",
			})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "widget")

		commit, err := client.Commits().Resolve(context.Background(), "abc123")
		require.NoError(t, err)
		require.NotNil(t, commit)
		assert.Equal(t, "abc123def456", commit.Hash)
		assert.Equal(t, "fix pagination", commit.Message)
	})

	t.Run("unknown commit yields nil", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "widget")

		commit, err := client.Commits().Resolve(context.Background(), "ffffff")
		require.NoError(t, err)
		assert.Nil(t, commit)
	})

	t.Run("server error propagates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "widget")

		_, err := client.Commits().Resolve(context.Background(), "abc123")
		require.Error(t, err)
		assert.True(t, bitbucket.IsRequestFailed(err))
	})
}

func TestCommitsClient_Comment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/acme/widget/commit/abc123/comments", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		err := r.ParseForm()
		require.NoError(t, err)
		assert.Equal(t, "build started", r.PostFormValue("content"))

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "widget")

	err := client.Commits().Comment(context.Background(), "abc123", "build started")
	require.NoError(t, err)
}
