package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/bitbucket-client/internal/constants"
	"github.com/fivetwenty-io/bitbucket-client/internal/http"
	"github.com/fivetwenty-io/bitbucket-client/internal/paths"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// CommitsClient implements bitbucket.CommitsClient.
type CommitsClient struct {
	httpClient *http.Client
	owner      string
	repository string
}

// Resolve implements bitbucket.CommitsClient.Resolve. A missing commit
// yields nil rather than an error.
func (c *CommitsClient) Resolve(ctx context.Context, hash string) (*bitbucket.Commit, error) {
	if err := requireRepository(c.repository); err != nil {
		return nil, err
	}

	path := paths.Expand(constants.RepositoriesBasePath+"/commit{/hash}", map[string]interface{}{
		"owner": c.owner,
		"repo":  c.repository,
		"hash":  hash,
	})

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		if bitbucket.IsNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("resolving commit: %w", err)
	}

	var commit bitbucket.Commit

	err = json.Unmarshal(resp.Body, &commit)
	if err != nil {
		return nil, fmt.Errorf("parsing commit response: %w", err)
	}

	return &commit, nil
}

// Comment implements bitbucket.CommitsClient.Comment.
func (c *CommitsClient) Comment(ctx context.Context, hash, content string) error {
	if err := requireRepository(c.repository); err != nil {
		return err
	}

	path := paths.Expand(constants.RepositoriesBasePath+"/commit{/hash}/comments", map[string]interface{}{
		"owner": c.owner,
		"repo":  c.repository,
		"hash":  hash,
	})

	form := url.Values{}
	form.Set("content", content)

	_, err := c.httpClient.PostForm(ctx, path, form)
	if err != nil {
		return fmt.Errorf("commenting on commit %s: %w", hash, err)
	}

	return nil
}
