package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/fivetwenty-io/bitbucket-client/internal/constants"
	"github.com/fivetwenty-io/bitbucket-client/internal/http"
	"github.com/fivetwenty-io/bitbucket-client/internal/paths"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// RepositoriesClient implements bitbucket.RepositoriesClient.
type RepositoriesClient struct {
	httpClient    *http.Client
	owner         string
	repository    string
	pageLen       int
	authenticated bool
	cache         bitbucket.Cache
	cacheTTL      time.Duration
}

// Get implements bitbucket.RepositoriesClient.Get.
func (c *RepositoriesClient) Get(ctx context.Context) (*bitbucket.Repository, error) {
	if err := requireRepository(c.repository); err != nil {
		return nil, err
	}

	path := paths.Expand(constants.RepositoriesBasePath, map[string]interface{}{
		"owner": c.owner,
		"repo":  c.repository,
	})

	body, err := c.cachedGet(ctx, "repository/"+c.owner+"/"+c.repository, path)
	if err != nil {
		return nil, fmt.Errorf("getting repository: %w", err)
	}

	var repo bitbucket.Repository

	err = json.Unmarshal(body, &repo)
	if err != nil {
		return nil, fmt.Errorf("parsing repository response: %w", err)
	}

	return &repo, nil
}

// List implements bitbucket.RepositoriesClient.List. Results are sorted by
// repository name ascending once, after full accumulation.
func (c *RepositoriesClient) List(ctx context.Context, role bitbucket.UserRole) ([]bitbucket.Repository, error) {
	vars := map[string]interface{}{
		"owner":   c.owner,
		"pagelen": c.pageLen,
	}

	// The role filter only makes sense on an authenticated request.
	if role != "" && c.authenticated {
		vars["role"] = string(role)
	}

	resolver := &bitbucket.NumberedPageResolver[bitbucket.Repository]{
		Fetch: func(ctx context.Context, page int) (*bitbucket.Page[bitbucket.Repository], error) {
			vars["page"] = page
			path := paths.Expand("/repositories{/owner}{?role,page,pagelen}", vars)

			return fetchPage[bitbucket.Repository](ctx, c.httpClient, path)
		},
	}

	repositories, err := bitbucket.CollectAll(ctx, resolver)
	if err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}

	sort.Slice(repositories, func(i, j int) bool {
		return repositories[i].Name() < repositories[j].Name()
	})

	return repositories, nil
}

// DefaultBranch implements bitbucket.RepositoriesClient.DefaultBranch. A
// missing repository or main branch yields "" rather than an error.
func (c *RepositoriesClient) DefaultBranch(ctx context.Context) (string, error) {
	if err := requireRepository(c.repository); err != nil {
		return "", err
	}

	path := paths.Expand(constants.RepositoriesBasePath+"{?fields}", map[string]interface{}{
		"owner":  c.owner,
		"repo":   c.repository,
		"fields": "mainbranch.name",
	})

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		if bitbucket.IsNotFound(err) {
			return "", nil
		}

		return "", fmt.Errorf("getting default branch: %w", err)
	}

	var result struct {
		MainBranch *bitbucket.BranchRef `json:"mainbranch"`
	}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return "", fmt.Errorf("parsing default branch response: %w", err)
	}

	if result.MainBranch == nil {
		return "", nil
	}

	return result.MainBranch.Name, nil
}

// IsPrivate implements bitbucket.RepositoriesClient.IsPrivate.
func (c *RepositoriesClient) IsPrivate(ctx context.Context) (bool, error) {
	repo, err := c.Get(ctx)
	if err != nil {
		return false, err
	}

	return repo.IsPrivate, nil
}

// cachedGet serves idempotent lookups from the response cache when one is
// configured, falling back to the network and refreshing the entry.
func (c *RepositoriesClient) cachedGet(ctx context.Context, key, path string) ([]byte, error) {
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

// fetchPage executes a GET for one page of a listing and decodes it.
func fetchPage[T any](ctx context.Context, httpClient *http.Client, path string) (*bitbucket.Page[T], error) {
	resp, err := httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var page bitbucket.Page[T]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing page response from %s: %w", path, err)
	}

	return &page, nil
}
