package client

import (
	"context"
	"fmt"
	"io"
	gopath "path"
	"strings"

	"github.com/fivetwenty-io/bitbucket-client/internal/constants"
	"github.com/fivetwenty-io/bitbucket-client/internal/http"
	"github.com/fivetwenty-io/bitbucket-client/internal/paths"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// SourceClient implements bitbucket.SourceClient over the /src endpoint.
type SourceClient struct {
	httpClient *http.Client
	owner      string
	repository string
	pageLen    int
}

// srcPath expands the source endpoint for a ref and a slash-separated
// path. The path is split into segments so its slashes survive expansion.
func (c *SourceClient) srcPath(ref, filePath, suffix string) string {
	vars := map[string]interface{}{
		"owner":   c.owner,
		"repo":    c.repository,
		"ref":     ref,
		"pagelen": c.pageLen,
	}

	segments := splitPath(filePath)
	if len(segments) > 0 {
		vars["path"] = segments
	}

	return paths.Expand(constants.RepositoriesBasePath+"/src{/ref}{/path*}"+suffix, vars)
}

// PathExists implements bitbucket.SourceClient.PathExists. Existence is
// exactly "status equals 200"; every other status is non-existence.
func (c *SourceClient) PathExists(ctx context.Context, ref, path string) (bool, error) {
	if err := requireRepository(c.repository); err != nil {
		return false, err
	}

	status, err := c.httpClient.Head(ctx, c.srcPath(ref, path, ""), nil)
	if err != nil {
		return false, fmt.Errorf("checking path %s at %s: %w", path, ref, err)
	}

	return status == 200, nil
}

// Browse implements bitbucket.SourceClient.Browse. Directory listings page
// with absolute next URLs; raw entries are mapped to handles relative to
// the browsed parent.
func (c *SourceClient) Browse(ctx context.Context, ref, path string) ([]bitbucket.TreeEntry, error) {
	if err := requireRepository(c.repository); err != nil {
		return nil, err
	}

	firstPath := c.srcPath(ref, path, "{?pagelen}")

	resolver := &bitbucket.LinkedPageResolver[bitbucket.SourceEntry]{
		Fetch: func(ctx context.Context) (*bitbucket.Page[bitbucket.SourceEntry], error) {
			return fetchPage[bitbucket.SourceEntry](ctx, c.httpClient, firstPath)
		},
		Follow: func(ctx context.Context, url string) (*bitbucket.Page[bitbucket.SourceEntry], error) {
			return fetchPage[bitbucket.SourceEntry](ctx, c.httpClient, url)
		},
	}

	sources, err := bitbucket.CollectAll(ctx, resolver)
	if err != nil {
		return nil, fmt.Errorf("browsing %s at %s: %w", path, ref, err)
	}

	entries := make([]bitbucket.TreeEntry, 0, len(sources))
	for i := range sources {
		entries = append(entries, bitbucket.TreeEntry{
			Name: gopath.Base(sources[i].Path),
			Path: sources[i].Path,
			Ref:  ref,
			Dir:  sources[i].IsDirectory(),
			Size: sources[i].Size,
		})
	}

	return entries, nil
}

// FileContent implements bitbucket.SourceClient.FileContent. The caller
// owns the returned stream and must close it.
func (c *SourceClient) FileContent(ctx context.Context, ref, path string) (io.ReadCloser, error) {
	if err := requireRepository(c.repository); err != nil {
		return nil, err
	}

	stream, err := c.httpClient.GetStream(ctx, c.srcPath(ref, path, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching content of %s at %s: %w", path, ref, err)
	}

	return stream, nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}

	return strings.Split(trimmed, "/")
}
