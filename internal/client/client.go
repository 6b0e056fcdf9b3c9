// Package client implements the bitbucket.Client interface: resource
// clients composed over the shared request executor.
package client

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/bitbucket-client/internal/constants"
	"github.com/fivetwenty-io/bitbucket-client/internal/http"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// Client implements the bitbucket.Client interface.
type Client struct {
	httpClient *http.Client
	owner      string
	repository string
	logger     bitbucket.Logger
	cache      bitbucket.Cache

	// Resource clients
	repositories  bitbucket.RepositoriesClient
	branches      bitbucket.BranchesClient
	commits       bitbucket.CommitsClient
	pullRequests  bitbucket.PullRequestsClient
	webhooks      bitbucket.WebhooksClient
	source        bitbucket.SourceClient
	buildStatuses bitbucket.BuildStatusesClient
	teams         bitbucket.TeamsClient
}

// New creates a new Bitbucket Cloud client from configuration.
func New(config *bitbucket.Config) (*Client, error) {
	if config == nil {
		return nil, bitbucket.ErrConfigRequired
	}

	if config.Owner == "" {
		return nil, bitbucket.ErrOwnerRequired
	}

	if config.Credentials != nil && config.Credentials.Username == "" {
		return nil, bitbucket.ErrSecretWithoutUser
	}

	endpoint := config.APIEndpoint
	if endpoint == "" {
		endpoint = constants.DefaultAPIEndpoint
	}

	httpClient := http.NewClient(endpoint, config.Credentials, buildHTTPClientOptions(config)...)

	var (
		cache bitbucket.Cache
		err   error
	)

	if config.Cache != nil {
		cache, err = bitbucket.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("creating response cache: %w", err)
		}
	}

	client := &Client{
		httpClient: httpClient,
		owner:      config.Owner,
		repository: config.Repository,
		logger:     config.Logger,
		cache:      cache,
	}

	client.initializeResourceClients(config)

	return client, nil
}

// buildHTTPClientOptions builds executor options from config.
func buildHTTPClientOptions(config *bitbucket.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax != 0 {
		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, 0))
	}

	if config.ConnectTimeout > 0 || config.ReadTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeouts(config.ConnectTimeout, config.ReadTimeout))
	}

	if config.MaxConnsPerHost > 0 || config.MaxConns > 0 {
		httpOpts = append(httpOpts, http.WithPoolLimits(config.MaxConnsPerHost, config.MaxConns))
	}

	if config.Proxy != nil {
		httpOpts = append(httpOpts, http.WithProxy(config.Proxy))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	return httpOpts
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients(config *bitbucket.Config) {
	pageLen := config.PageLen
	if pageLen <= 0 {
		pageLen = constants.DefaultPageLen
	}

	cacheTTL := constants.DefaultCacheTTL
	if config.Cache != nil && config.Cache.Options != nil && config.Cache.Options.TTL > 0 {
		cacheTTL = config.Cache.Options.TTL
	}

	authenticated := config.Credentials != nil

	c.repositories = &RepositoriesClient{
		httpClient:    c.httpClient,
		owner:         c.owner,
		repository:    c.repository,
		pageLen:       pageLen,
		authenticated: authenticated,
		cache:         c.cache,
		cacheTTL:      cacheTTL,
	}
	c.branches = &BranchesClient{httpClient: c.httpClient, owner: c.owner, repository: c.repository, pageLen: pageLen}
	c.commits = &CommitsClient{httpClient: c.httpClient, owner: c.owner, repository: c.repository}
	c.pullRequests = &PullRequestsClient{httpClient: c.httpClient, owner: c.owner, repository: c.repository, pageLen: pageLen}
	c.webhooks = &WebhooksClient{httpClient: c.httpClient, owner: c.owner, repository: c.repository, pageLen: pageLen}
	c.source = &SourceClient{httpClient: c.httpClient, owner: c.owner, repository: c.repository, pageLen: pageLen}
	c.buildStatuses = &BuildStatusesClient{httpClient: c.httpClient, owner: c.owner, repository: c.repository}
	c.teams = &TeamsClient{httpClient: c.httpClient, owner: c.owner, cache: c.cache, cacheTTL: cacheTTL}
}

// Owner implements bitbucket.Client.Owner.
func (c *Client) Owner() string {
	return c.owner
}

// Repository implements bitbucket.Client.Repository.
func (c *Client) Repository() string {
	return c.repository
}

// CloneURL implements bitbucket.Client.CloneURL.
func (c *Client) CloneURL(protocol bitbucket.CloneProtocol, owner, repository string) (string, error) {
	switch protocol {
	case bitbucket.CloneProtocolHTTP:
		return constants.CloneHTTPBase + owner + "/" + repository + ".git", nil
	case bitbucket.CloneProtocolSSH:
		return constants.CloneSSHBase + owner + "/" + repository + ".git", nil
	default:
		return "", fmt.Errorf("%w: %s", bitbucket.ErrUnsupportedProtocol, protocol)
	}
}

// Close releases resources held by the client's cache, if any.
func (c *Client) Close() error {
	if c.cache == nil {
		return nil
	}

	err := c.cache.Close()
	if err != nil {
		return fmt.Errorf("closing cache: %w", err)
	}

	return nil
}

// Repositories implements bitbucket.Client.Repositories.
func (c *Client) Repositories() bitbucket.RepositoriesClient {
	return c.repositories
}

// Branches implements bitbucket.Client.Branches.
func (c *Client) Branches() bitbucket.BranchesClient {
	return c.branches
}

// Commits implements bitbucket.Client.Commits.
func (c *Client) Commits() bitbucket.CommitsClient {
	return c.commits
}

// PullRequests implements bitbucket.Client.PullRequests.
func (c *Client) PullRequests() bitbucket.PullRequestsClient {
	return c.pullRequests
}

// Webhooks implements bitbucket.Client.Webhooks.
func (c *Client) Webhooks() bitbucket.WebhooksClient {
	return c.webhooks
}

// Source implements bitbucket.Client.Source.
func (c *Client) Source() bitbucket.SourceClient {
	return c.source
}

// BuildStatuses implements bitbucket.Client.BuildStatuses.
func (c *Client) BuildStatuses() bitbucket.BuildStatusesClient {
	return c.buildStatuses
}

// Teams implements bitbucket.Client.Teams.
func (c *Client) Teams() bitbucket.TeamsClient {
	return c.teams
}

// requireRepository guards repository-scoped operations on an owner-only
// client.
func requireRepository(repository string) error {
	if strings.TrimSpace(repository) == "" {
		return bitbucket.ErrRepositoryRequired
	}

	return nil
}
