package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fivetwenty-io/bitbucket-client/internal/constants"
	"github.com/fivetwenty-io/bitbucket-client/internal/http"
	"github.com/fivetwenty-io/bitbucket-client/internal/paths"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// TeamsClient implements bitbucket.TeamsClient.
type TeamsClient struct {
	httpClient *http.Client
	owner      string
	cache      bitbucket.Cache
	cacheTTL   time.Duration
}

// Get implements bitbucket.TeamsClient.Get. An owner that is not a team
// yields nil rather than an error.
func (c *TeamsClient) Get(ctx context.Context) (*bitbucket.Team, error) {
	path := paths.Expand(constants.TeamsBasePath, map[string]interface{}{
		"owner": c.owner,
	})

	body, err := c.cachedGet(ctx, "team/"+c.owner, path)
	if err != nil {
		if bitbucket.IsNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting team: %w", err)
	}

	var team bitbucket.Team

	err = json.Unmarshal(body, &team)
	if err != nil {
		return nil, fmt.Errorf("parsing team response: %w", err)
	}

	return &team, nil
}

func (c *TeamsClient) cachedGet(ctx context.Context, key, path string) ([]byte, error) {
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, key)
		if err == nil {
			return entry.Value, nil
		}
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, resp.Body, c.cacheTTL)
	}

	return resp.Body, nil
}
