package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/bitbucket-client/internal/constants"
	"github.com/fivetwenty-io/bitbucket-client/internal/http"
	"github.com/fivetwenty-io/bitbucket-client/internal/paths"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// PullRequestsClient implements bitbucket.PullRequestsClient.
type PullRequestsClient struct {
	httpClient *http.Client
	owner      string
	repository string
	pageLen    int
}

// List implements bitbucket.PullRequestsClient.List.
func (c *PullRequestsClient) List(ctx context.Context) ([]bitbucket.PullRequest, error) {
	if err := requireRepository(c.repository); err != nil {
		return nil, err
	}

	vars := map[string]interface{}{
		"owner":   c.owner,
		"repo":    c.repository,
		"pagelen": c.pageLen,
	}

	resolver := &bitbucket.NumberedPageResolver[bitbucket.PullRequest]{
		Fetch: func(ctx context.Context, page int) (*bitbucket.Page[bitbucket.PullRequest], error) {
			vars["page"] = page
			path := paths.Expand(constants.RepositoriesBasePath+"/pullrequests{?page,pagelen}", vars)

			return fetchPage[bitbucket.PullRequest](ctx, c.httpClient, path)
		},
	}

	pullRequests, err := bitbucket.CollectAll(ctx, resolver)
	if err != nil {
		return nil, fmt.Errorf("listing pull requests: %w", err)
	}

	return pullRequests, nil
}

// Get implements bitbucket.PullRequestsClient.Get.
func (c *PullRequestsClient) Get(ctx context.Context, id int) (*bitbucket.PullRequest, error) {
	if err := requireRepository(c.repository); err != nil {
		return nil, err
	}

	path := paths.Expand(constants.RepositoriesBasePath+"/pullrequests{/id}", map[string]interface{}{
		"owner": c.owner,
		"repo":  c.repository,
		"id":    id,
	})

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting pull request %d: %w", id, err)
	}

	var pullRequest bitbucket.PullRequest

	err = json.Unmarshal(resp.Body, &pullRequest)
	if err != nil {
		return nil, fmt.Errorf("parsing pull request response: %w", err)
	}

	return &pullRequest, nil
}

// ResolveSourceHash implements bitbucket.PullRequestsClient.ResolveSourceHash.
// The commits listing is requested with a page size of one; an empty page
// is a domain-level inconsistency, not a missing resource.
func (c *PullRequestsClient) ResolveSourceHash(ctx context.Context, id int) (string, error) {
	if err := requireRepository(c.repository); err != nil {
		return "", err
	}

	path := paths.Expand(constants.RepositoriesBasePath+"/pullrequests/{id}/commits{?fields,pagelen}", map[string]interface{}{
		"owner":   c.owner,
		"repo":    c.repository,
		"id":      id,
		"fields":  "values.hash",
		"pagelen": 1,
	})

	page, err := fetchPage[bitbucket.CommitRef](ctx, c.httpClient, path)
	if err != nil {
		return "", fmt.Errorf("resolving source hash for pull request %d: %w", id, err)
	}

	if len(page.Values) == 0 {
		return "", bitbucket.NewDomainError("could not determine commit for pull request %d", id)
	}

	return page.Values[0].Hash, nil
}
