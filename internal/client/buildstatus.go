package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/bitbucket-client/internal/constants"
	"github.com/fivetwenty-io/bitbucket-client/internal/http"
	"github.com/fivetwenty-io/bitbucket-client/internal/paths"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// BuildStatusesClient implements bitbucket.BuildStatusesClient.
type BuildStatusesClient struct {
	httpClient *http.Client
	owner      string
	repository string
}

// Post implements bitbucket.BuildStatusesClient.Post.
func (c *BuildStatusesClient) Post(ctx context.Context, hash string, status *bitbucket.BuildStatus) error {
	if err := requireRepository(c.repository); err != nil {
		return err
	}

	path := paths.Expand(constants.RepositoriesBasePath+"/commit/{hash}/statuses/build", map[string]interface{}{
		"owner": c.owner,
		"repo":  c.repository,
		"hash":  hash,
	})

	_, err := c.httpClient.Post(ctx, path, status)
	if err != nil {
		return fmt.Errorf("posting build status for commit %s: %w", hash, err)
	}

	return nil
}
