// Package bbclient provides the main entry point for creating Bitbucket
// Cloud API clients.
package bbclient

import (
	"context"
	"strings"

	"github.com/fivetwenty-io/bitbucket-client/internal/client"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// New creates a new Bitbucket Cloud API client.
func New(ctx context.Context, config *bitbucket.Config) (bitbucket.Client, error) {
	if config == nil {
		return nil, bitbucket.ErrConfigRequired
	}

	if config.Owner == "" {
		return nil, bitbucket.ErrOwnerRequired
	}

	if config.APIEndpoint != "" {
		endpoint := strings.TrimSuffix(config.APIEndpoint, "/")
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}

		config.APIEndpoint = endpoint
	}

	return client.New(config)
}

// NewPublic creates a client for anonymous access to public repositories.
func NewPublic(ctx context.Context, owner, repository string) (bitbucket.Client, error) {
	return New(ctx, &bitbucket.Config{
		Owner:      owner,
		Repository: repository,
	})
}

// NewWithAppPassword creates a client authenticated with a username and
// app password.
func NewWithAppPassword(ctx context.Context, owner, repository, username, appPassword string) (bitbucket.Client, error) {
	return New(ctx, &bitbucket.Config{
		Owner:      owner,
		Repository: repository,
		Credentials: &bitbucket.Credentials{
			Username:    username,
			AppPassword: appPassword,
		},
	})
}
