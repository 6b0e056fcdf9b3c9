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

func TestBranchesClient_List(t *testing.T) {
	t.Run("follows next URLs across pages", func(t *testing.T) {
		var server *httptest.Server

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/repositories/acme/widget/refs/branches":
				assert.Equal(t, "50", r.URL.Query().Get("pagelen"))

				_ = json.NewEncoder(w).Encode(bitbucket.Page[bitbucket.Branch]{
					Values: []bitbucket.Branch{{Name: "main"}, {Name: "develop"}},
					Next:   server.URL + "/page2",
				})
			case "/page2":
				_ = json.NewEncoder(w).Encode(bitbucket.Page[bitbucket.Branch]{
					Values: []bitbucket.Branch{{Name: "feature/login"}},
				})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "widget")

		branches, err := client.Branches().List(context.Background())
		require.NoError(t, err)
		require.Len(t, branches, 3)
		assert.Equal(t, "main", branches[0].Name)
		assert.Equal(t, "develop", branches[1].Name)
		assert.Equal(t, "feature/login", branches[2].Name)
	})

	t.Run("empty repository", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(bitbucket.Page[bitbucket.Branch]{})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "widget")

		branches, err := client.Branches().List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, branches)
	})

	t.Run("requires repository", func(t *testing.T) {
		client := newTestClient(t, "https://unused.invalid", "")

		_, err := client.Branches().List(context.Background())
		require.ErrorIs(t, err, bitbucket.ErrRepositoryRequired)
	})
}
