package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  *bitbucket.Config
		wantErr error
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: bitbucket.ErrConfigRequired,
		},
		{
			name:    "missing owner",
			config:  &bitbucket.Config{},
			wantErr: bitbucket.ErrOwnerRequired,
		},
		{
			name: "app password without username",
			config: &bitbucket.Config{
				Owner:       "acme",
				Credentials: &bitbucket.Credentials{AppPassword: "secret"},
			},
			wantErr: bitbucket.ErrSecretWithoutUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	client, err := New(&bitbucket.Config{Owner: "acme", Repository: "widget"})
	require.NoError(t, err)

	assert.Equal(t, "acme", client.Owner())
	assert.Equal(t, "widget", client.Repository())
	assert.NotNil(t, client.Repositories())
	assert.NotNil(t, client.Branches())
	assert.NotNil(t, client.Commits())
	assert.NotNil(t, client.PullRequests())
	assert.NotNil(t, client.Webhooks())
	assert.NotNil(t, client.Source())
	assert.NotNil(t, client.BuildStatuses())
	assert.NotNil(t, client.Teams())
	assert.NoError(t, client.Close())
}

func TestClient_CloneURL(t *testing.T) {
	client, err := New(&bitbucket.Config{Owner: "acme", Repository: "widget"})
	require.NoError(t, err)

	httpURL, err := client.CloneURL(bitbucket.CloneProtocolHTTP, "acme", "widget")
	require.NoError(t, err)
	assert.Equal(t, "https://bitbucket.org/acme/widget.git", httpURL)

	sshURL, err := client.CloneURL(bitbucket.CloneProtocolSSH, "acme", "widget")
	require.NoError(t, err)
	assert.Equal(t, "git@bitbucket.org:acme/widget.git", sshURL)

	_, err = client.CloneURL("svn", "acme", "widget")
	require.ErrorIs(t, err, bitbucket.ErrUnsupportedProtocol)
	assert.True(t, bitbucket.IsDomain(err))
}
