package bitbucket

import (
	"context"
	"io"
	"time"
)

// Client is the top-level interface for talking to Bitbucket Cloud. One
// client is bound to an owner and, optionally, a repository, and is safe
// for concurrent use: the underlying connection pool is bounded and
// callers beyond the cap block waiting for a free connection.
type Client interface {
	// Owner returns the owner (user or team) this client is bound to.
	Owner() string
	// Repository returns the repository slug, or "" when the client is
	// owner-scoped only.
	Repository() string
	// CloneURL derives the clone URL for a repository under this client's
	// host, for the given protocol.
	CloneURL(protocol CloneProtocol, owner, repository string) (string, error)

	Repositories() RepositoriesClient
	Branches() BranchesClient
	Commits() CommitsClient
	PullRequests() PullRequestsClient
	Webhooks() WebhooksClient
	Source() SourceClient
	BuildStatuses() BuildStatusesClient
	Teams() TeamsClient
}

// RepositoriesClient provides repository-level operations.
type RepositoriesClient interface {
	// Get fetches the repository the client is bound to.
	Get(ctx context.Context) (*Repository, error)
	// List fetches every repository of the owner, sorted by repository
	// name ascending. A non-empty role narrows the listing when the
	// client is authenticated.
	List(ctx context.Context, role UserRole) ([]Repository, error)
	// DefaultBranch resolves the main branch name. It returns "" without
	// error when the repository or its main branch does not exist.
	DefaultBranch(ctx context.Context) (string, error)
	// IsPrivate reports whether the bound repository is private.
	IsPrivate(ctx context.Context) (bool, error)
}

// BranchesClient provides branch listing.
type BranchesClient interface {
	// List fetches all branches of the bound repository.
	List(ctx context.Context) ([]Branch, error)
}

// CommitsClient provides commit-level operations.
type CommitsClient interface {
	// Resolve fetches a commit by hash. It returns nil without error when
	// the commit does not exist.
	Resolve(ctx context.Context, hash string) (*Commit, error)
	// Comment posts a comment on a commit.
	Comment(ctx context.Context, hash, content string) error
}

// PullRequestsClient provides pull request operations.
type PullRequestsClient interface {
	// List fetches all open pull requests of the bound repository.
	List(ctx context.Context) ([]PullRequest, error)
	// Get fetches one pull request by id.
	Get(ctx context.Context, id int) (*PullRequest, error)
	// ResolveSourceHash resolves the full hash of a pull request's source
	// commit. An empty commit listing is a DomainError naming the id.
	ResolveSourceHash(ctx context.Context, id int) (string, error)
}

// WebhooksClient manages repository webhooks.
type WebhooksClient interface {
	// List fetches all webhooks of the bound repository.
	List(ctx context.Context) ([]Webhook, error)
	// Register creates a webhook.
	Register(ctx context.Context, hook *Webhook) error
	// Update replaces a webhook identified by hook.UUID.
	Update(ctx context.Context, hook *Webhook) error
	// Remove deletes a webhook by UUID. A blank UUID is a DomainError and
	// no request is issued.
	Remove(ctx context.Context, uuid string) error
}

// SourceClient browses the repository source tree.
type SourceClient interface {
	// PathExists reports whether ref/path resolves. Every status other
	// than 200 is non-existence, not an error.
	PathExists(ctx context.Context, ref, path string) (bool, error)
	// Browse lists a directory as file-or-directory handles relative to
	// the browsed path.
	Browse(ctx context.Context, ref, path string) ([]TreeEntry, error)
	// FileContent returns the raw content stream of a file. The caller
	// owns the stream and must close it.
	FileContent(ctx context.Context, ref, path string) (io.ReadCloser, error)
}

// BuildStatusesClient posts commit build statuses.
type BuildStatusesClient interface {
	// Post notifies Bitbucket of a build status for a commit.
	Post(ctx context.Context, hash string, status *BuildStatus) error
}

// TeamsClient provides team lookups.
type TeamsClient interface {
	// Get fetches the owner's team. It returns nil without error when the
	// owner is not a team.
	Get(ctx context.Context) (*Team, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Credentials is an optional username/app-password pair attached
// preemptively to every request. The secret is never logged.
type Credentials struct {
	Username    string
	AppPassword string
}

// ProxyConfig routes requests through an HTTP proxy, with optional proxy
// credentials.
type ProxyConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Config represents client configuration. It is consumed once at
// construction and never mutated afterwards; the resulting client shares
// one connection pool across all requests for its lifetime.
type Config struct {
	// Owner is the user or team the client operates on. Required.
	Owner string

	// Repository is the repository slug. Optional; repository-scoped
	// operations fail with a DomainError when it is empty.
	Repository string

	// Credentials enables authenticated requests. Optional.
	Credentials *Credentials

	// APIEndpoint overrides the Bitbucket Cloud API root. Optional;
	// defaults to https://api.bitbucket.org/2.0.
	APIEndpoint string

	// Proxy routes traffic through an HTTP proxy. Optional.
	Proxy *ProxyConfig

	// ConnectTimeout bounds connection establishment. Zero means the
	// default of 10s.
	ConnectTimeout time.Duration

	// ReadTimeout bounds a whole request/response exchange. Zero means
	// the default of 60s. It does not apply to streamed file content.
	ReadTimeout time.Duration

	// MaxConnsPerHost and MaxConns bound the shared connection pool.
	// Zero means the defaults of 20 and 22.
	MaxConnsPerHost int
	MaxConns        int

	// RetryMax bounds transparent rate-limit retries per request. Zero
	// means the default of 10; negative disables retrying.
	RetryMax int

	// PageLen is the page size requested from listing endpoints. Zero
	// means the default of 50.
	PageLen int

	// Cache configures response caching for idempotent single-resource
	// lookups. Nil disables caching.
	Cache *CacheConfig

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// Interceptors observe or mutate every request and response. Optional.
	Interceptors *InterceptorChain

	// Logger receives structured log output. Optional.
	Logger Logger

	// Debug enables request/response logging through Logger.
	Debug bool
}
