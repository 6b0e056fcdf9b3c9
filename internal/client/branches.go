package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/bitbucket-client/internal/constants"
	"github.com/fivetwenty-io/bitbucket-client/internal/http"
	"github.com/fivetwenty-io/bitbucket-client/internal/paths"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// BranchesClient implements bitbucket.BranchesClient.
type BranchesClient struct {
	httpClient *http.Client
	owner      string
	repository string
	pageLen    int
}

// List implements bitbucket.BranchesClient.List. The branches endpoint
// pages with absolute next URLs.
func (c *BranchesClient) List(ctx context.Context) ([]bitbucket.Branch, error) {
	if err := requireRepository(c.repository); err != nil {
		return nil, err
	}

	firstPath := paths.Expand(constants.RepositoriesBasePath+"/refs/branches{?pagelen}", map[string]interface{}{
		"owner":   c.owner,
		"repo":    c.repository,
		"pagelen": c.pageLen,
	})

	resolver := &bitbucket.LinkedPageResolver[bitbucket.Branch]{
		Fetch: func(ctx context.Context) (*bitbucket.Page[bitbucket.Branch], error) {
			return fetchPage[bitbucket.Branch](ctx, c.httpClient, firstPath)
		},
		Follow: func(ctx context.Context, url string) (*bitbucket.Page[bitbucket.Branch], error) {
			return fetchPage[bitbucket.Branch](ctx, c.httpClient, url)
		},
	}

	branches, err := bitbucket.CollectAll(ctx, resolver)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	return branches, nil
}
