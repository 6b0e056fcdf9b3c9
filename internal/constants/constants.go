package constants

import "time"

// Bitbucket Cloud API endpoints.
const (
	// DefaultAPIEndpoint is the Bitbucket Cloud v2 API root.
	DefaultAPIEndpoint = "https://api.bitbucket.org/2.0"

	// RepositoriesBasePath is the template for repository-scoped resources.
	RepositoriesBasePath = "/repositories{/owner,repo}"

	// TeamsBasePath is the template for team lookups.
	TeamsBasePath = "/teams{/owner}"

	// CloneHTTPBase is the base for HTTP clone URLs.
	CloneHTTPBase = "https://bitbucket.org/"

	// CloneSSHBase is the base for SSH clone URLs.
	CloneSSHBase = "git@bitbucket.org:"
)

// HTTP and network timeouts.
const (
	// DefaultConnectTimeout is the timeout for establishing a connection.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultReadTimeout bounds a whole request/response exchange.
	DefaultReadTimeout = 60 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Connection pool limits.
const (
	// DefaultMaxConnsPerHost caps concurrent connections to one host.
	DefaultMaxConnsPerHost = 20

	// DefaultMaxConns caps total concurrent connections.
	DefaultMaxConns = 22
)

// Rate-limit retry policy.
const (
	// RateLimitStatusCode is the status Bitbucket Cloud uses for throttling.
	RateLimitStatusCode = 429

	// RateLimitRetryDelay is the fixed wait between rate-limited attempts,
	// used when the server does not send a Retry-After header.
	RateLimitRetryDelay = 5 * time.Second

	// DefaultRetryMax bounds rate-limit retries per request.
	DefaultRetryMax = 10
)

// Pagination defaults.
const (
	// DefaultPageLen is the page size requested from listing endpoints.
	DefaultPageLen = 50
)

// Response buffering.
const (
	// MaxBodyPrealloc caps the buffer pre-sized from Content-Length so a
	// hostile or corrupt header cannot trigger a huge allocation.
	MaxBodyPrealloc = 1 << 26 // 64 MiB

	// ErrorBodyExcerptLen bounds the diagnostic body carried by errors.
	ErrorBodyExcerptLen = 8 * 1024
)

// Cache defaults.
const (
	// DefaultCacheSize is the maximum number of entries in the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long cached lookups stay fresh.
	DefaultCacheTTL = 5 * time.Minute
)
