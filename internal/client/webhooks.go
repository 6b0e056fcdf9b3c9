package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/bitbucket-client/internal/constants"
	"github.com/fivetwenty-io/bitbucket-client/internal/http"
	"github.com/fivetwenty-io/bitbucket-client/internal/paths"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// WebhooksClient implements bitbucket.WebhooksClient.
type WebhooksClient struct {
	httpClient *http.Client
	owner      string
	repository string
	pageLen    int
}

// List implements bitbucket.WebhooksClient.List.
func (c *WebhooksClient) List(ctx context.Context) ([]bitbucket.Webhook, error) {
	if err := requireRepository(c.repository); err != nil {
		return nil, err
	}

	vars := map[string]interface{}{
		"owner":   c.owner,
		"repo":    c.repository,
		"pagelen": c.pageLen,
	}

	resolver := &bitbucket.NumberedPageResolver[bitbucket.Webhook]{
		Fetch: func(ctx context.Context, page int) (*bitbucket.Page[bitbucket.Webhook], error) {
			vars["page"] = page
			path := paths.Expand(constants.RepositoriesBasePath+"/hooks{?page,pagelen}", vars)

			return fetchPage[bitbucket.Webhook](ctx, c.httpClient, path)
		},
	}

	webhooks, err := bitbucket.CollectAll(ctx, resolver)
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}

	return webhooks, nil
}

// Register implements bitbucket.WebhooksClient.Register.
func (c *WebhooksClient) Register(ctx context.Context, hook *bitbucket.Webhook) error {
	if err := requireRepository(c.repository); err != nil {
		return err
	}

	path := paths.Expand(constants.RepositoriesBasePath+"/hooks", map[string]interface{}{
		"owner": c.owner,
		"repo":  c.repository,
	})

	_, err := c.httpClient.Post(ctx, path, hook)
	if err != nil {
		return fmt.Errorf("registering webhook: %w", err)
	}

	return nil
}

// Update implements bitbucket.WebhooksClient.Update.
func (c *WebhooksClient) Update(ctx context.Context, hook *bitbucket.Webhook) error {
	if err := requireRepository(c.repository); err != nil {
		return err
	}

	if strings.TrimSpace(hook.UUID) == "" {
		return bitbucket.ErrWebhookUUIDRequired
	}

	path := paths.Expand(constants.RepositoriesBasePath+"/hooks{/uuid}", map[string]interface{}{
		"owner": c.owner,
		"repo":  c.repository,
		"uuid":  hook.UUID,
	})

	_, err := c.httpClient.Put(ctx, path, hook)
	if err != nil {
		return fmt.Errorf("updating webhook %s: %w", hook.UUID, err)
	}

	return nil
}

// Remove implements bitbucket.WebhooksClient.Remove. A blank UUID fails
// before any request is issued.
func (c *WebhooksClient) Remove(ctx context.Context, uuid string) error {
	if err := requireRepository(c.repository); err != nil {
		return err
	}

	if strings.TrimSpace(uuid) == "" {
		return bitbucket.ErrWebhookUUIDRequired
	}

	path := paths.Expand(constants.RepositoriesBasePath+"/hooks{/uuid}", map[string]interface{}{
		"owner": c.owner,
		"repo":  c.repository,
		"uuid":  uuid,
	})

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("removing webhook %s: %w", uuid, err)
	}

	return nil
}
